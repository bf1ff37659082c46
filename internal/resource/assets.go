package resource

import (
	"context"
	"fmt"

	"github.com/evcon/evcon/internal/action"
	"github.com/evcon/evcon/internal/dao"
	"github.com/evcon/evcon/internal/filter"
	"github.com/evcon/evcon/internal/model"
	"github.com/evcon/evcon/internal/model1"
	"github.com/evcon/evcon/internal/render"
)

// AssetAccessor is what the assets grid needs from the backend.
type AssetAccessor interface {
	dao.Accessor[dao.Asset]
	RetrieveConsumption(ctx context.Context, id string) error
}

// Assets lists energy producing and consuming assets.
type Assets struct {
	base
	acc AssetAccessor
}

var (
	_ model.Source[dao.Asset] = (*Assets)(nil)
	_ model.Changer           = (*Assets)(nil)
	_ model.StaticFilterer    = (*Assets)(nil)
)

// NewAssets returns the assets source.
func NewAssets(d Deps) *Assets {
	return &Assets{base: newBase(d, dao.AssetRID), acc: dao.NewAssets(d.Factory)}
}

func (a *Assets) Load(ctx context.Context, q dao.Query) (dao.DataResult[dao.Asset], error) {
	return a.acc.List(ctx, q)
}

func (a *Assets) TableDef() model.TableDef {
	return model.TableDef{ID: dao.AssetRID, Title: "Assets", Search: true}
}

func (a *Assets) StaticFilters() filter.Values {
	return filter.Values{"WithLogo": "true", "WithSiteArea": "true"}
}

func (a *Assets) Columns() []model.ColumnDef[dao.Asset] {
	return []model.ColumnDef[dao.Asset]{
		{ID: "name", Name: "NAME", Sortable: true, Sorted: true, Direction: model1.SortAsc, Value: func(o dao.Asset) string {
			return o.Name
		}},
		{ID: "siteArea.name", Name: "SITE-AREA", Sortable: true, Value: func(o dao.Asset) string {
			if o.SiteArea == nil {
				return render.MissingValue
			}
			return o.SiteArea.Name
		}},
		{ID: "dynamicAsset", Name: "DYNAMIC", Sortable: true, Value: func(o dao.Asset) string {
			return render.BoolToYesNo(o.DynamicAsset)
		}},
		{ID: "assetType", Name: "TYPE", Sortable: true, Value: func(o dao.Asset) string {
			if o.AssetType == dao.AssetProduction {
				return "Produce"
			}
			return "Consume"
		}},
		{ID: "currentInstantWatts", Name: "POWER", Sortable: true, Capacity: true, Value: func(o dao.Asset) string {
			return render.Unit(o.CurrentInstantWatts, "W", "kW")
		}},
	}
}

func (a *Assets) Filters() []filter.Filter { return nil }

func (a *Assets) Actions() []action.Def {
	if !a.Auth.IsAdmin() {
		return nil
	}
	return []action.Def{action.NewCreate()}
}

func (a *Assets) ActionsRight() []action.Def {
	return []action.Def{action.NewAutoRefresh(false), action.NewRefresh()}
}

// RowActions gives admins edit and a more menu, and dynamic assets the
// consumption retrieval. Others may only view and locate the asset.
func (a *Assets) RowActions(o dao.Asset) []action.Def {
	maps := action.NewOpenInMaps().WithDisabled(!o.HasCoordinates())
	if !a.Auth.IsAdmin() {
		return []action.Def{action.NewView(), maps}
	}
	dd := []action.Def{action.NewEdit(), action.NewMore(maps, action.NewDelete())}
	if o.DynamicAsset {
		dd = action.Insert(dd, 1, action.NewRetrieveConsumption())
	}

	return dd
}

func (a *Assets) ActionTriggered(ctx context.Context, def action.Def, r model.Refresher) error {
	switch def.ID {
	case action.Create:
		return edit(ctx, &a.base, r, "New asset", dao.Asset{AssetType: dao.AssetConsumption}, func(ctx context.Context, o dao.Asset) error {
			_, err := a.acc.Create(ctx, o)
			return err
		})
	}

	return nil
}

func (a *Assets) RowActionTriggered(ctx context.Context, def action.Def, o dao.Asset, r model.Refresher) error {
	switch def.ID {
	case action.View:
		a.Prompter.Show("Asset "+o.Name, o)
	case action.Edit:
		return edit(ctx, &a.base, r, "Asset "+o.Name, o, func(ctx context.Context, n dao.Asset) error {
			n.ID = o.ID
			return a.acc.Update(ctx, n)
		})
	case action.Delete:
		return a.confirmed(ctx, r, "Delete asset",
			fmt.Sprintf("Do you really want to delete the asset %q?", o.Name),
			fmt.Sprintf("Asset %q deleted", o.Name),
			func(ctx context.Context) error { return a.acc.Delete(ctx, o.ID) },
		)
	case action.RetrieveConsumption:
		if err := a.acc.RetrieveConsumption(ctx, o.ID); err != nil {
			return a.fail(err, "Unable to retrieve the consumption of "+o.Name)
		}
		a.Prompter.Flash(LevelInfo, fmt.Sprintf("Consumption of %q retrieved", o.Name))
		return refresh(ctx, r)
	case action.OpenInMaps:
		a.Prompter.Flash(LevelInfo, MapsURL(o.Coordinates))
	}

	return nil
}
