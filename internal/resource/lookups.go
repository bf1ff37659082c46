package resource

import (
	"context"
	"fmt"

	"github.com/evcon/evcon/internal/dao"
	"github.com/evcon/evcon/internal/filter"
	"github.com/evcon/evcon/internal/model"
	"github.com/evcon/evcon/internal/model1"
)

// CarMakers is the pick list of the car catalog makers.
type CarMakers struct {
	acc dao.Lister[dao.CarMaker]
}

var _ model.DialogSource[dao.CarMaker] = (*CarMakers)(nil)

// NewCarMakers returns the car makers pick list.
func NewCarMakers(f dao.Factory) *CarMakers {
	return &CarMakers{acc: dao.NewCarMakers(f)}
}

func (c *CarMakers) Load(ctx context.Context, q dao.Query) (dao.DataResult[dao.CarMaker], error) {
	return c.acc.List(ctx, q)
}

func (c *CarMakers) TableDef() model.TableDef {
	return model.TableDef{ID: dao.CarMakerRID, Title: "Car Makers", Search: true}
}

func (c *CarMakers) Columns() []model.ColumnDef[dao.CarMaker] {
	return []model.ColumnDef[dao.CarMaker]{
		{ID: "carMaker", Name: "MAKER", Sorted: true, Direction: model1.SortAsc, Value: func(o dao.CarMaker) string {
			return o.CarMaker
		}},
	}
}

var lookupRIDs = map[string]dao.ResourceID{
	"sites":             dao.SiteRID,
	"site-areas":        dao.SiteAreaRID,
	"charging-stations": dao.ChargingStationRID,
	"users":             dao.UserRID,
	"tags":              dao.TagRID,
}

// Lookup is the pick list of a selection filter.
type Lookup struct {
	rid    dao.ResourceID
	title  string
	acc    dao.Lister[dao.Named]
	params filter.Values
}

var (
	_ model.DialogSource[dao.Named] = (*Lookup)(nil)
	_ model.StaticFilterer          = (*Lookup)(nil)
)

// NewLookup returns the pick list backing the given filter dialog.
func NewLookup(f dao.Factory, s *filter.Selection) (*Lookup, error) {
	rid, ok := lookupRIDs[s.Dialog()]
	if !ok {
		return nil, fmt.Errorf("no pick list for dialog %q", s.Dialog())
	}
	acc, err := dao.NewResource[dao.Named](f, rid)
	if err != nil {
		return nil, err
	}

	return &Lookup{rid: rid, title: s.Name(), acc: acc, params: s.DialogParams()}, nil
}

func (l *Lookup) Load(ctx context.Context, q dao.Query) (dao.DataResult[dao.Named], error) {
	return l.acc.List(ctx, q)
}

func (l *Lookup) TableDef() model.TableDef {
	return model.TableDef{ID: l.rid, Title: l.title, Search: true}
}

func (l *Lookup) StaticFilters() filter.Values {
	return l.params
}

func (l *Lookup) Columns() []model.ColumnDef[dao.Named] {
	id := model.ColumnDef[dao.Named]{ID: "id", Name: "ID", Value: func(o dao.Named) string { return o.ID }}
	if l.rid == dao.TagRID || l.rid == dao.ChargingStationRID {
		id.Sortable, id.Sorted, id.Direction = true, true, model1.SortAsc
		return []model.ColumnDef[dao.Named]{id}
	}

	return []model.ColumnDef[dao.Named]{
		{ID: "name", Name: "NAME", Sortable: true, Sorted: true, Direction: model1.SortAsc, Value: func(o dao.Named) string {
			return o.Label()
		}},
		id,
	}
}
