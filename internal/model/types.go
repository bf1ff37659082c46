package model

import (
	"context"

	"github.com/evcon/evcon/internal/action"
	"github.com/evcon/evcon/internal/central"
	"github.com/evcon/evcon/internal/dao"
	"github.com/evcon/evcon/internal/filter"
	"github.com/evcon/evcon/internal/model1"
)

// Error represents a data source error.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrAlreadyInitialized is returned when Init is called twice.
	ErrAlreadyInitialized = Error("data source already initialized")

	// ErrNotInitialized is returned when a data source is used before Init.
	ErrNotInitialized = Error("data source not initialized")

	// ErrSuperseded is returned by a load whose result was discarded because a
	// newer refresh started. It is never shown to the user.
	ErrSuperseded = Error("refresh superseded")

	// ErrStopped is returned once the data source was stopped.
	ErrStopped = Error("data source stopped")

	// ErrUnknownFilter is returned when no filter has the given id.
	ErrUnknownFilter = Error("unknown filter")
)

// State represents the load state of a data source.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// TableListener represents a table model listener.
type TableListener interface {
	// TableLoading notifies a foreground load started.
	TableLoading()

	// TableDataChanged notifies the model data changed.
	TableDataChanged(*model1.TableData)

	// TableLoadFailed notifies the load failed.
	TableLoadFailed(error)
}

// ColumnDef describes a grid column.
type ColumnDef[T any] struct {
	ID        string
	Name      string
	Sortable  bool
	Sorted    bool
	Direction model1.SortDirection
	Align     int
	Capacity  bool
	Time      bool
	// Value formats the cell of a row.
	Value func(T) string
}

// InsertColumn inserts c at position i, appending when i is out of range.
func InsertColumn[T any](cc []ColumnDef[T], i int, c ColumnDef[T]) []ColumnDef[T] {
	if i < 0 || i >= len(cc) {
		return append(cc, c)
	}
	out := make([]ColumnDef[T], 0, len(cc)+1)
	out = append(out, cc[:i]...)
	out = append(out, c)

	return append(out, cc[i:]...)
}

// TableDef describes a grid.
type TableDef struct {
	ID      dao.ResourceID
	Title   string
	Search  bool
	Colorer model1.ColorerFunc
}

// Refresher reloads the grid, used by actions once they changed server data.
type Refresher interface {
	Refresh(context.Context) error
}

// Source is the per entity capability the engine is built on. Descriptor
// builders must be pure functions of the authorization state and the row.
type Source[T dao.Object] interface {
	// Load fetches exactly one page or fails.
	Load(context.Context, dao.Query) (dao.DataResult[T], error)
	TableDef() TableDef
	Columns() []ColumnDef[T]
	Filters() []filter.Filter
	Actions() []action.Def
	ActionsRight() []action.Def
	RowActions(row T) []action.Def
	ActionTriggered(ctx context.Context, def action.Def, r Refresher) error
	RowActionTriggered(ctx context.Context, def action.Def, row T, r Refresher) error
}

// Changer is implemented by sources whose entities emit server change notifications.
type Changer interface {
	Changes() (<-chan central.Notification, func())
}

// DialogSource is the capability of a pick list.
type DialogSource[T dao.Object] interface {
	Load(context.Context, dao.Query) (dao.DataResult[T], error)
	TableDef() TableDef
	Columns() []ColumnDef[T]
}
