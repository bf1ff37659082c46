package resource

import (
	"context"
	"fmt"
	"strconv"

	"github.com/evcon/evcon/internal/action"
	"github.com/evcon/evcon/internal/dao"
	"github.com/evcon/evcon/internal/filter"
	"github.com/evcon/evcon/internal/model"
	"github.com/evcon/evcon/internal/model1"
	"github.com/evcon/evcon/internal/render"
)

// TransactionAccessor is what the in progress sessions grid needs from the backend.
type TransactionAccessor interface {
	dao.Lister[dao.Transaction]
	Get(ctx context.Context, id string) (dao.Transaction, error)
	Stop(ctx context.Context, id string) error
}

// Transactions lists the charging sessions in progress.
type Transactions struct {
	base
	acc TransactionAccessor
}

var (
	_ model.Source[dao.Transaction] = (*Transactions)(nil)
	_ model.Changer                 = (*Transactions)(nil)
)

// NewTransactions returns the in progress sessions source.
func NewTransactions(d Deps) *Transactions {
	return &Transactions{base: newBase(d, dao.TransactionRID), acc: dao.NewTransactions(d.Factory)}
}

func (t *Transactions) Load(ctx context.Context, q dao.Query) (dao.DataResult[dao.Transaction], error) {
	return t.acc.List(ctx, q)
}

func (t *Transactions) TableDef() model.TableDef {
	return model.TableDef{ID: dao.TransactionRID, Title: "Sessions in progress", Colorer: render.InactivityColorer}
}

func (t *Transactions) privileged() bool {
	return t.Auth.IsAdmin() || t.Auth.HasSitesAdminRights()
}

func (t *Transactions) Columns() []model.ColumnDef[dao.Transaction] {
	var cc []model.ColumnDef[dao.Transaction]
	if t.Auth.IsAdmin() {
		cc = append(cc, model.ColumnDef[dao.Transaction]{ID: "id", Name: "ID", Value: func(o dao.Transaction) string {
			return strconv.Itoa(o.ID)
		}})
	}
	cc = append(cc,
		model.ColumnDef[dao.Transaction]{ID: "tagID", Name: "BADGE", Value: func(o dao.Transaction) string {
			return o.TagID
		}},
		model.ColumnDef[dao.Transaction]{ID: "timestamp", Name: "STARTED", Sortable: true, Sorted: true, Direction: model1.SortDesc, Time: true, Value: func(o dao.Transaction) string {
			return render.Date(o.Timestamp)
		}},
		model.ColumnDef[dao.Transaction]{ID: "currentTotalDurationSecs", Name: "DURATION", Time: true, Value: func(o dao.Transaction) string {
			return render.Since(o.Timestamp, t.now())
		}},
		model.ColumnDef[dao.Transaction]{ID: "currentTotalInactivitySecs", Name: "INACTIVITY", Time: true, Value: func(o dao.Transaction) string {
			return render.Inactivity(o.CurrentTotalInactivitySecs, o.CurrentTotalDurationSecs)
		}},
		model.ColumnDef[dao.Transaction]{ID: "chargeBoxID", Name: "CHARGING-STATION", Value: func(o dao.Transaction) string {
			return o.ChargeBoxID
		}},
		model.ColumnDef[dao.Transaction]{ID: "connectorId", Name: "CONNECTOR", Value: func(o dao.Transaction) string {
			return connectorLetter(o.ConnectorID)
		}},
		model.ColumnDef[dao.Transaction]{ID: "currentInstantWatts", Name: "POWER", Capacity: true, Value: func(o dao.Transaction) string {
			return render.Unit(o.CurrentInstantWatts, "W", "kW")
		}},
		model.ColumnDef[dao.Transaction]{ID: "currentTotalConsumptionWh", Name: "CONSUMPTION", Capacity: true, Value: func(o dao.Transaction) string {
			return render.Unit(o.CurrentTotalConsumptionWh, "Wh", "kWh")
		}},
		model.ColumnDef[dao.Transaction]{ID: "currentStateOfCharge", Name: "SOC", Value: func(o dao.Transaction) string {
			if o.CurrentStateOfCharge == 0 {
				return render.Blank
			}
			return render.BatteryPercentage(o.StateOfCharge, o.CurrentStateOfCharge)
		}},
	)
	if t.privileged() {
		cc = model.InsertColumn(cc, 1, model.ColumnDef[dao.Transaction]{ID: "user", Name: "USER", Value: func(o dao.Transaction) string {
			return render.UserName(o.User)
		}})
	}

	return cc
}

func (t *Transactions) Filters() []filter.Filter {
	var ff []filter.Filter
	if t.isOrganization() {
		ff = append(ff, filter.NewIssuer(), filter.NewSite(), filter.NewSiteArea())
	}
	ff = append(ff, filter.NewChargingStation())
	if t.privileged() {
		ff = append(ff, filter.NewUser(t.Auth.SitesAdmin()), filter.NewTag())
	}

	return ff
}

func (t *Transactions) Actions() []action.Def { return nil }

func (t *Transactions) ActionsRight() []action.Def {
	return []action.Def{action.NewAutoRefresh(true), action.NewRefresh()}
}

func (t *Transactions) RowActions(dao.Transaction) []action.Def {
	dd := []action.Def{action.NewView()}
	if !t.Auth.IsDemo() {
		dd = append(dd, action.NewStopTransaction())
	}
	return dd
}

func (t *Transactions) ActionTriggered(context.Context, action.Def, model.Refresher) error {
	return nil
}

func (t *Transactions) RowActionTriggered(ctx context.Context, def action.Def, o dao.Transaction, r model.Refresher) error {
	id := o.GetID()
	switch def.ID {
	case action.View:
		tx, err := t.acc.Get(ctx, id)
		if err != nil {
			return t.fail(err, "Unable to load session "+id)
		}
		t.Prompter.Show("Session "+id, tx)
	case action.StopTransaction:
		return t.confirmed(ctx, r, "Stop session",
			fmt.Sprintf("Do you really want to stop the session %s on %s?", id, o.ChargeBoxID),
			fmt.Sprintf("Session %s stopped", id),
			func(ctx context.Context) error { return t.acc.Stop(ctx, id) },
		)
	}

	return nil
}
