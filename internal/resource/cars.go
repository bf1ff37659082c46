package resource

import (
	"context"
	"fmt"
	"strings"

	"github.com/evcon/evcon/internal/action"
	"github.com/evcon/evcon/internal/auth"
	"github.com/evcon/evcon/internal/central"
	"github.com/evcon/evcon/internal/dao"
	"github.com/evcon/evcon/internal/filter"
	"github.com/evcon/evcon/internal/model"
	"github.com/evcon/evcon/internal/model1"
	"github.com/evcon/evcon/internal/render"
)

// CarAccessor is what the cars grid needs from the backend.
type CarAccessor interface {
	dao.Accessor[dao.Car]
	CreateForced(ctx context.Context, car dao.Car, forced bool) (string, error)
}

// Cars lists the electric vehicles of the users.
type Cars struct {
	base
	acc CarAccessor
}

var (
	_ model.Source[dao.Car] = (*Cars)(nil)
	_ model.Changer         = (*Cars)(nil)
)

// NewCars returns the cars source.
func NewCars(d Deps) *Cars {
	return &Cars{base: newBase(d, dao.CarRID), acc: dao.NewCars(d.Factory)}
}

func (c *Cars) Load(ctx context.Context, q dao.Query) (dao.DataResult[dao.Car], error) {
	return c.acc.List(ctx, q)
}

func (c *Cars) TableDef() model.TableDef {
	return model.TableDef{ID: dao.CarRID, Title: "Cars", Search: true}
}

func catalogOf(o dao.Car) dao.CarCatalog {
	if o.CarCatalog == nil {
		return dao.CarCatalog{}
	}
	return *o.CarCatalog
}

func carTypeName(t dao.CarType) string {
	switch t {
	case dao.CarPrivate:
		return "Private"
	case dao.CarCompany:
		return "Company"
	case dao.CarPoolCar:
		return "Pool"
	default:
		return render.NAValue
	}
}

func (c *Cars) Columns() []model.ColumnDef[dao.Car] {
	cc := []model.ColumnDef[dao.Car]{
		{ID: "vin", Name: "VIN", Sortable: true, Value: func(o dao.Car) string { return o.VIN }},
		{ID: "licensePlate", Name: "PLATE", Sortable: true, Value: func(o dao.Car) string { return o.LicensePlate }},
		{ID: "carCatalog.vehicleMake", Name: "MAKE", Sortable: true, Sorted: true, Direction: model1.SortAsc, Value: func(o dao.Car) string {
			return render.NA(catalogOf(o).VehicleMake)
		}},
		{ID: "carCatalog.vehicleModel", Name: "MODEL", Sortable: true, Value: func(o dao.Car) string {
			m := catalogOf(o)
			return render.NA(render.JoinStrings(" ", m.VehicleModel, m.VehicleModelVersion))
		}},
		{ID: "carCatalog.batteryCapacityFull", Name: "BATTERY", Capacity: true, Value: func(o dao.Car) string {
			return render.Unit(catalogOf(o).BatteryCapacityFull*1000, "Wh", "kWh")
		}},
		{ID: "type", Name: "TYPE", Value: func(o dao.Car) string { return carTypeName(o.Type) }},
	}
	if c.Auth.IsAdmin() {
		cc = append(cc, model.ColumnDef[dao.Car]{ID: "carUsers", Name: "USERS", Value: func(o dao.Car) string {
			names := make([]string, 0, len(o.CarUsers))
			for _, u := range o.CarUsers {
				names = append(names, render.UserName(u.User))
			}
			return render.Missing(strings.Join(names, ", "))
		}})
	}

	return cc
}

func (c *Cars) Filters() []filter.Filter {
	return []filter.Filter{filter.NewCarMaker()}
}

func (c *Cars) Actions() []action.Def {
	if !c.Auth.Can(dao.CarRID, auth.ActCreate) {
		return nil
	}
	return []action.Def{action.NewCreate()}
}

func (c *Cars) ActionsRight() []action.Def {
	return []action.Def{action.NewAutoRefresh(false), action.NewRefresh()}
}

func (c *Cars) RowActions(dao.Car) []action.Def {
	var dd []action.Def
	if c.Auth.Can(dao.CarRID, auth.ActUpdate) {
		dd = append(dd, action.NewEdit())
	} else {
		dd = append(dd, action.NewView())
	}
	if c.Auth.Can(dao.CarRID, auth.ActDelete) {
		dd = append(dd, action.NewDelete())
	}

	return dd
}

func (c *Cars) ActionTriggered(ctx context.Context, def action.Def, r model.Refresher) error {
	switch def.ID {
	case action.Create:
		return edit(ctx, &c.base, r, "New car", dao.Car{Type: dao.CarPrivate}, c.create)
	}

	return nil
}

// create stores a car. A car registered for somebody else is assigned to the
// user once confirmed.
func (c *Cars) create(ctx context.Context, car dao.Car) error {
	_, err := c.acc.CreateForced(ctx, car, false)
	if central.Classify(err) != central.KindForceable {
		return err
	}
	if !c.Prompter.Confirm(ctx, "Assign car", central.Message(err, "")+". Do you want to be assigned to it?") {
		return ErrCanceled
	}
	_, err = c.acc.CreateForced(ctx, car, true)

	return err
}

func (c *Cars) RowActionTriggered(ctx context.Context, def action.Def, o dao.Car, r model.Refresher) error {
	switch def.ID {
	case action.View:
		c.Prompter.Show("Car "+o.LicensePlate, o)
	case action.Edit:
		return edit(ctx, &c.base, r, "Car "+o.LicensePlate, o, func(ctx context.Context, n dao.Car) error {
			n.ID = o.ID
			return c.acc.Update(ctx, n)
		})
	case action.Delete:
		return c.confirmed(ctx, r, "Delete car",
			fmt.Sprintf("Do you really want to delete the car %q?", o.LicensePlate),
			fmt.Sprintf("Car %q deleted", o.LicensePlate),
			func(ctx context.Context) error { return c.acc.Delete(ctx, o.ID) },
		)
	}

	return nil
}
