package dao

import (
	"context"
	"strconv"
	"strings"

	"github.com/evcon/evcon/internal/central"
	"github.com/evcon/evcon/internal/filter"
)

// ResourceID identifies a resource type of the central server.
type ResourceID string

func (r ResourceID) String() string {
	return string(r)
}

// Known resources.
const (
	AssetRID             ResourceID = "assets"
	CarRID               ResourceID = "cars"
	CarMakerRID          ResourceID = "car-makers"
	ChargingProfileRID   ResourceID = "charging-profiles"
	RegistrationTokenRID ResourceID = "registration-tokens"
	TransactionRID       ResourceID = "transactions"
	StatisticRID         ResourceID = "statistics"
	UserRID              ResourceID = "users"
	SiteRID              ResourceID = "sites"
	SiteAreaRID          ResourceID = "site-areas"
	ChargingStationRID   ResourceID = "charging-stations"
	TagRID               ResourceID = "tags"
)

// Object represents an entity with a stable identity.
type Object interface {
	GetID() string
}

// Factory provides the connection to the central server.
type Factory interface {
	Client() central.Connection
	Tenant() string
}

// Paging is the slice of rows requested from the backend.
type Paging struct {
	Index int
	Size  int
}

// Skip returns the number of rows before the page.
func (p Paging) Skip() int {
	return p.Index * p.Size
}

// LastIndex returns the last valid page index for count rows.
func (p Paging) LastIndex(count int) int {
	if p.Size <= 0 || count <= 0 {
		return 0
	}
	return (count+p.Size-1)/p.Size - 1
}

// Sorting is one sort criterion.
type Sorting struct {
	Field string
	Desc  bool
}

// Query holds everything needed to fetch one page.
type Query struct {
	Filters filter.Values
	Paging  Paging
	Sorting []Sorting
}

// Params encodes the query the way the backend expects.
func (q Query) Params() map[string]string {
	pp := make(map[string]string, len(q.Filters)+3)
	for k, v := range q.Filters {
		pp[k] = v
	}
	if q.Paging.Size > 0 {
		pp["Skip"] = strconv.Itoa(q.Paging.Skip())
		pp["Limit"] = strconv.Itoa(q.Paging.Size)
	}
	if len(q.Sorting) > 0 {
		ff := make([]string, 0, len(q.Sorting))
		for _, s := range q.Sorting {
			if s.Desc {
				ff = append(ff, "-"+s.Field)
				continue
			}
			ff = append(ff, s.Field)
		}
		pp["SortFields"] = strings.Join(ff, filter.MultiSeparator)
	}

	return pp
}

// DataResult is a page of entities plus the total number of matching rows.
type DataResult[T any] struct {
	Count  int `json:"count"`
	Result []T `json:"result"`
}

// Lister fetches one page of entities.
type Lister[T Object] interface {
	List(ctx context.Context, q Query) (DataResult[T], error)
}

// Getter fetches one entity.
type Getter[T Object] interface {
	Get(ctx context.Context, id string) (T, error)
}

// Accessor provides the standard entity operations.
type Accessor[T Object] interface {
	Lister[T]
	Getter[T]
	Create(ctx context.Context, o T) (string, error)
	Update(ctx context.Context, o T) error
	Delete(ctx context.Context, id string) error
}
