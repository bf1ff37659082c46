// Package resource implements the grids of the console, one data source
// capability per entity.
package resource

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/evcon/evcon/internal/auth"
	"github.com/evcon/evcon/internal/central"
	"github.com/evcon/evcon/internal/dao"
	"github.com/evcon/evcon/internal/filter"
	"github.com/evcon/evcon/internal/model"
)

// ErrNoChanges is returned by Prompter.Edit when the user left the object untouched.
var ErrNoChanges = errors.New("no changes")

// ErrCanceled is returned by Prompter.Edit when the user aborted the edit.
var ErrCanceled = errors.New("edit canceled")

// Level is the severity of a flash message.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// Prompter is the interactive surface the sources talk to. Confirm and Edit
// block until the user answered.
type Prompter interface {
	Confirm(ctx context.Context, title, msg string) bool
	Flash(level Level, msg string)
	Edit(ctx context.Context, title string, in, out any) error
	Show(title string, obj any)
}

// Subscriber hands out change notification subscriptions.
type Subscriber interface {
	Subscribe(entity string) (<-chan central.Notification, func())
}

// Exporter writes a table to its destination and returns where it went.
type Exporter interface {
	Export(ctx context.Context, name string, header []string, rows [][]string) (string, error)
}

// Deps holds what every source needs.
type Deps struct {
	Factory  dao.Factory
	Auth     auth.Provider
	Prompter Prompter
	Notifier Subscriber
	Exporter Exporter
	Log      *zap.Logger
	Clock    filter.Clock
}

func (d Deps) now() time.Time {
	if d.Clock == nil {
		return time.Now()
	}
	return d.Clock()
}

// base carries the behaviors shared by the entity sources.
type base struct {
	Deps
	rid dao.ResourceID
}

func newBase(d Deps, rid dao.ResourceID) base {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return base{Deps: d, rid: rid}
}

// Changes subscribes to the change notifications of the entity.
func (b *base) Changes() (<-chan central.Notification, func()) {
	m, err := dao.MetaFor(b.rid)
	if b.Notifier == nil || err != nil || m.Entity == "" {
		return nil, func() {}
	}
	return b.Notifier.Subscribe(m.Entity)
}

func (b *base) isOrganization() bool {
	return b.Auth.IsComponentActive(auth.ComponentOrganization)
}

func (b *base) fail(err error, fallback string) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	b.Log.Warn("Action failed", zap.String("resource", b.rid.String()), zap.Error(err))
	b.Prompter.Flash(LevelError, central.Message(err, fallback))

	return err
}

// confirmed asks before running a dangerous action, then refreshes.
func (b *base) confirmed(ctx context.Context, r model.Refresher, title, msg, done string, fn func(context.Context) error) error {
	if !b.Prompter.Confirm(ctx, title, msg) {
		return nil
	}
	if err := fn(ctx); err != nil {
		return b.fail(err, fmt.Sprintf("%s failed", title))
	}
	b.Prompter.Flash(LevelInfo, done)

	return refresh(ctx, r)
}

// edit opens the editor on in and hands the result to save.
func edit[T any](ctx context.Context, b *base, r model.Refresher, title string, in T, save func(context.Context, T) error) error {
	var out T
	switch err := b.Prompter.Edit(ctx, title, in, &out); {
	case errors.Is(err, ErrNoChanges), errors.Is(err, ErrCanceled):
		return nil
	case err != nil:
		return b.fail(err, "Unable to edit "+title)
	}
	if err := save(ctx, out); err != nil {
		if errors.Is(err, ErrCanceled) {
			return nil
		}
		return b.fail(err, "Unable to save "+title)
	}
	b.Prompter.Flash(LevelInfo, title+" saved")

	return refresh(ctx, r)
}

func refresh(ctx context.Context, r model.Refresher) error {
	if err := r.Refresh(ctx); err != nil && !errors.Is(err, model.ErrSuperseded) {
		return err
	}
	return nil
}

// MapsURL returns the map location of a longitude/latitude pair.
func MapsURL(coords []float64) string {
	if len(coords) != 2 {
		return ""
	}
	return fmt.Sprintf("https://maps.google.com/maps?q=%f,%f", coords[1], coords[0])
}
