package resource

import (
	"context"
	"fmt"
	"time"

	"github.com/evcon/evcon/internal/action"
	"github.com/evcon/evcon/internal/dao"
	"github.com/evcon/evcon/internal/filter"
	"github.com/evcon/evcon/internal/model"
	"github.com/evcon/evcon/internal/model1"
	"github.com/evcon/evcon/internal/render"
)

// TokenAccessor is what the registration tokens grid needs from the backend.
type TokenAccessor interface {
	dao.Accessor[dao.RegistrationToken]
	Revoke(ctx context.Context, id string) error
}

// RegistrationTokens lists the tokens charging stations register with.
type RegistrationTokens struct {
	base
	acc TokenAccessor
}

var _ model.Source[dao.RegistrationToken] = (*RegistrationTokens)(nil)

// NewRegistrationTokens returns the registration tokens source.
func NewRegistrationTokens(d Deps) *RegistrationTokens {
	return &RegistrationTokens{base: newBase(d, dao.RegistrationTokenRID), acc: dao.NewRegistrationTokens(d.Factory)}
}

func (t *RegistrationTokens) Load(ctx context.Context, q dao.Query) (dao.DataResult[dao.RegistrationToken], error) {
	return t.acc.List(ctx, q)
}

func (t *RegistrationTokens) TableDef() model.TableDef {
	return model.TableDef{ID: dao.RegistrationTokenRID, Title: "Registration Tokens", Colorer: render.TokenColorer}
}

func (t *RegistrationTokens) Columns() []model.ColumnDef[dao.RegistrationToken] {
	return []model.ColumnDef[dao.RegistrationToken]{
		{ID: "status", Name: "STATUS", Value: func(o dao.RegistrationToken) string {
			return render.TokenStatus(o.Status(t.now()))
		}},
		{ID: "description", Name: "DESCRIPTION", Value: func(o dao.RegistrationToken) string {
			return render.Missing(o.Description)
		}},
		{ID: "createdOn", Name: "CREATED", Sortable: true, Sorted: true, Direction: model1.SortDesc, Time: true, Value: func(o dao.RegistrationToken) string {
			return render.DatePtr(o.CreatedOn)
		}},
		{ID: "expirationDate", Name: "EXPIRES", Sortable: true, Time: true, Value: func(o dao.RegistrationToken) string {
			return render.DatePtr(o.ExpirationDate)
		}},
		{ID: "revocationDate", Name: "REVOKED", Sortable: true, Time: true, Value: func(o dao.RegistrationToken) string {
			return render.DatePtr(o.RevocationDate)
		}},
		{ID: "siteArea.name", Name: "SITE-AREA", Value: func(o dao.RegistrationToken) string {
			if o.SiteArea == nil {
				return render.MissingValue
			}
			return o.SiteArea.Name
		}},
	}
}

func (t *RegistrationTokens) Filters() []filter.Filter { return nil }

func (t *RegistrationTokens) Actions() []action.Def {
	if !t.Auth.IsAdmin() {
		return nil
	}
	return []action.Def{action.NewCreate()}
}

func (t *RegistrationTokens) ActionsRight() []action.Def {
	return []action.Def{action.NewRefresh()}
}

// RowActions lets admins revoke a valid token and delete any token.
func (t *RegistrationTokens) RowActions(o dao.RegistrationToken) []action.Def {
	if !t.Auth.IsAdmin() {
		return nil
	}
	revoke := action.NewRevoke().WithDisabled(o.Status(t.now()) != dao.TokenValid)

	return []action.Def{revoke, action.NewDelete()}
}

func (t *RegistrationTokens) ActionTriggered(ctx context.Context, def action.Def, r model.Refresher) error {
	switch def.ID {
	case action.Create:
		expires := t.now().Add(7 * 24 * time.Hour)
		in := dao.RegistrationToken{ExpirationDate: &expires}
		return edit(ctx, &t.base, r, "New registration token", in, func(ctx context.Context, o dao.RegistrationToken) error {
			_, err := t.acc.Create(ctx, o)
			return err
		})
	}

	return nil
}

func (t *RegistrationTokens) RowActionTriggered(ctx context.Context, def action.Def, o dao.RegistrationToken, r model.Refresher) error {
	switch def.ID {
	case action.Revoke:
		return t.confirmed(ctx, r, "Revoke token",
			fmt.Sprintf("Do you really want to revoke the token %q?", o.ID),
			fmt.Sprintf("Token %q revoked", o.ID),
			func(ctx context.Context) error { return t.acc.Revoke(ctx, o.ID) },
		)
	case action.Delete:
		return t.confirmed(ctx, r, "Delete token",
			fmt.Sprintf("Do you really want to delete the token %q?", o.ID),
			fmt.Sprintf("Token %q deleted", o.ID),
			func(ctx context.Context) error { return t.acc.Delete(ctx, o.ID) },
		)
	}

	return nil
}
