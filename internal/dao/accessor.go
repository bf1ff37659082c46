package dao

import (
	"fmt"
	"sort"
)

// Meta describes where a resource lives on the central server.
type Meta struct {
	// Path is the REST collection path.
	Path string
	// Entity is the change notification entity name, empty if not notified.
	Entity string
	// Aliases are alternate command names.
	Aliases []string
}

// Metas maps resource ids to their metadata.
type Metas map[ResourceID]Meta

var metas = Metas{
	AssetRID:             {Path: "/v1/api/assets", Entity: "assets", Aliases: []string{"asset", "as"}},
	CarRID:               {Path: "/v1/api/cars", Entity: "cars", Aliases: []string{"car"}},
	CarMakerRID:          {Path: "/v1/api/car-catalogs/makers", Aliases: []string{"makers"}},
	ChargingProfileRID:   {Path: "/v1/api/charging-profiles", Entity: "charging-profiles", Aliases: []string{"plans", "cp"}},
	RegistrationTokenRID: {Path: "/v1/api/registration-tokens", Entity: "registration-tokens", Aliases: []string{"tokens", "rt"}},
	TransactionRID:       {Path: "/v1/api/transactions/in-progress", Entity: "transactions", Aliases: []string{"tx", "sessions"}},
	StatisticRID:         {Path: "/v1/api/statistics", Aliases: []string{"stats"}},
	UserRID:              {Path: "/v1/api/users", Aliases: []string{"user"}},
	SiteRID:              {Path: "/v1/api/sites", Aliases: []string{"site"}},
	SiteAreaRID:          {Path: "/v1/api/site-areas", Aliases: []string{"areas"}},
	ChargingStationRID:   {Path: "/v1/api/charging-stations", Entity: "charging-stations", Aliases: []string{"cs", "chargers"}},
	TagRID:               {Path: "/v1/api/tags", Aliases: []string{"tag"}},
}

// RegisterMeta adds or replaces a resource description.
func RegisterMeta(rid ResourceID, m Meta) {
	metas[rid] = m
}

// MetaFor returns the description of a resource.
func MetaFor(rid ResourceID) (Meta, error) {
	m, ok := metas[rid]
	if !ok {
		return Meta{}, fmt.Errorf("no resource found for: %s", rid)
	}
	return m, nil
}

// Resolve maps a command name or alias to a resource id.
func Resolve(name string) (ResourceID, bool) {
	if _, ok := metas[ResourceID(name)]; ok {
		return ResourceID(name), true
	}
	for rid, m := range metas {
		for _, a := range m.Aliases {
			if a == name {
				return rid, true
			}
		}
	}
	return "", false
}

// ListResources returns all registered resource ids, sorted.
func ListResources() []ResourceID {
	rids := make([]ResourceID, 0, len(metas))
	for rid := range metas {
		rids = append(rids, rid)
	}
	sort.Slice(rids, func(i, j int) bool { return rids[i] < rids[j] })

	return rids
}
