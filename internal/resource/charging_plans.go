package resource

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/evcon/evcon/internal/action"
	"github.com/evcon/evcon/internal/dao"
	"github.com/evcon/evcon/internal/filter"
	"github.com/evcon/evcon/internal/model"
	"github.com/evcon/evcon/internal/render"
)

// ChargingPlans lists the charging profiles applied to charging stations.
type ChargingPlans struct {
	base
	acc dao.Lister[dao.ChargingProfile]
}

var (
	_ model.Source[dao.ChargingProfile] = (*ChargingPlans)(nil)
	_ model.StaticFilterer              = (*ChargingPlans)(nil)
)

// NewChargingPlans returns the charging plans source.
func NewChargingPlans(d Deps) *ChargingPlans {
	return &ChargingPlans{base: newBase(d, dao.ChargingProfileRID), acc: dao.NewChargingProfiles(d.Factory)}
}

func (c *ChargingPlans) Load(ctx context.Context, q dao.Query) (dao.DataResult[dao.ChargingProfile], error) {
	return c.acc.List(ctx, q)
}

func (c *ChargingPlans) TableDef() model.TableDef {
	return model.TableDef{ID: dao.ChargingProfileRID, Title: "Charging Plans", Search: true}
}

func (c *ChargingPlans) StaticFilters() filter.Values {
	vv := filter.Values{"WithChargingStation": "true"}
	if c.isOrganization() {
		vv["WithSiteArea"] = "true"
	}
	return vv
}

func (c *ChargingPlans) Columns() []model.ColumnDef[dao.ChargingProfile] {
	cc := []model.ColumnDef[dao.ChargingProfile]{
		{ID: "chargingStationID", Name: "CHARGING-STATION", Sortable: true, Value: func(o dao.ChargingProfile) string {
			return o.ChargingStationID
		}},
		{ID: "connectorID", Name: "CONNECTOR", Value: func(o dao.ChargingProfile) string {
			return connectorLetter(o.ConnectorID)
		}},
		{ID: "profile.chargingProfileKind", Name: "KIND", Value: func(o dao.ChargingProfile) string {
			return o.Profile.ChargingProfileKind
		}},
		{ID: "profile.chargingProfilePurpose", Name: "PURPOSE", Value: func(o dao.ChargingProfile) string {
			return o.Profile.ChargingProfilePurpose
		}},
		{ID: "profile.stackLevel", Name: "STACK-LEVEL", Capacity: true, Value: func(o dao.ChargingProfile) string {
			return strconv.Itoa(o.Profile.StackLevel)
		}},
	}
	if !c.isOrganization() {
		return cc
	}

	return append(cc,
		model.ColumnDef[dao.ChargingProfile]{ID: "chargingStation.siteArea.name", Name: "SITE-AREA", Value: func(o dao.ChargingProfile) string {
			if sa := siteAreaOf(o); sa != nil {
				return sa.Name
			}
			return render.MissingValue
		}},
		model.ColumnDef[dao.ChargingProfile]{ID: "chargingStation.siteArea.maximumPower", Name: "SITE-AREA-LIMIT", Capacity: true, Value: func(o dao.ChargingProfile) string {
			if sa := siteAreaOf(o); sa != nil && sa.MaximumPower > 0 {
				return fmt.Sprintf("%.0f kW", sa.MaximumPower/1000)
			}
			return render.Blank
		}},
	)
}

func siteAreaOf(o dao.ChargingProfile) *dao.SiteArea {
	if o.ChargingStation == nil {
		return nil
	}
	return o.ChargingStation.SiteArea
}

// connectorLetter renders connector 1 as A, 2 as B and so on.
func connectorLetter(id int) string {
	if id <= 0 || id > 26 {
		return strconv.Itoa(id)
	}
	return string(rune('A' + id - 1))
}

func (c *ChargingPlans) Filters() []filter.Filter {
	if !c.isOrganization() {
		return nil
	}
	return []filter.Filter{filter.NewChargingStation()}
}

func (c *ChargingPlans) Actions() []action.Def { return nil }

func (c *ChargingPlans) ActionsRight() []action.Def {
	return []action.Def{action.NewAutoRefresh(true), action.NewRefresh()}
}

func (c *ChargingPlans) RowActions(o dao.ChargingProfile) []action.Def {
	if c.Auth.IsAdmin() || c.Auth.IsSiteAdmin(o.SiteID()) {
		return []action.Def{action.NewSmartCharging()}
	}
	return nil
}

func (c *ChargingPlans) ActionTriggered(context.Context, action.Def, model.Refresher) error {
	return nil
}

func (c *ChargingPlans) RowActionTriggered(_ context.Context, def action.Def, o dao.ChargingProfile, _ model.Refresher) error {
	switch def.ID {
	case action.SmartCharging:
		c.Prompter.Show("Smart charging "+o.ChargingStationID, Schedule(o))
	}

	return nil
}

// Schedule renders the power limits of a plan, one line per period.
func Schedule(o dao.ChargingProfile) string {
	var b strings.Builder
	unit := o.Profile.ChargingSchedule.ChargingRateUnit
	for _, p := range o.Profile.ChargingSchedule.ChargingSchedulePeriod {
		fmt.Fprintf(&b, "+%s\t%g %s\n", render.Duration(p.StartPeriod), p.Limit, unit)
	}
	if b.Len() == 0 {
		return "No schedule"
	}

	return b.String()
}
