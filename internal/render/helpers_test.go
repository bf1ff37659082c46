package render_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/evcon/evcon/internal/dao"
	"github.com/evcon/evcon/internal/model1"
	"github.com/evcon/evcon/internal/render"
)

func TestUnit(t *testing.T) {
	uu := map[string]struct {
		v        float64
		from, to string
		e        string
	}{
		"watts":      {v: 7360, from: "W", to: "kW", e: "7.36 kW"},
		"watt-hours": {v: 12500, from: "Wh", to: "kWh", e: "12.50 kWh"},
		"same":       {v: 3, from: "kW", to: "kW", e: "3.00 kW"},
		"unknown":    {v: 3, from: "A", to: "kA", e: "3 A"},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, u.e, render.Unit(u.v, u.from, u.to))
		})
	}
}

func TestDuration(t *testing.T) {
	uu := map[string]struct {
		secs int
		e    string
	}{
		"zero":    {e: "0s"},
		"seconds": {secs: 42, e: "42s"},
		"minutes": {secs: 125, e: "2m 5s"},
		"hours":   {secs: 3*3600 + 60 + 9, e: "3h 1m"},
		"days":    {secs: 26 * 3600, e: "1d 2h 0m"},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, u.e, render.Duration(u.secs))
		})
	}
}

func TestSince(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "1h 30m", render.Since(now.Add(-90*time.Minute), now))
	assert.Equal(t, render.UnknownValue, render.Since(time.Time{}, now))
}

func TestBatteryPercentage(t *testing.T) {
	assert.Equal(t, "45%", render.BatteryPercentage(0, 45))
	assert.Equal(t, "20% > 45% (+25%)", render.BatteryPercentage(20, 45.2))
}

func TestUserName(t *testing.T) {
	assert.Equal(t, "Doe John", render.UserName(&dao.User{Name: "Doe", FirstName: "John"}))
	assert.Equal(t, "Doe", render.UserName(&dao.User{Name: "Doe"}))
	assert.Equal(t, render.MissingValue, render.UserName(nil))
}

func TestInactivity(t *testing.T) {
	assert.Equal(t, "2m 0s (40%)", render.Inactivity(120, 300))
	assert.Equal(t, "2m 0s", render.Inactivity(120, 0))
}

func TestTokenColorer(t *testing.T) {
	h := model1.Header{{ID: "description"}, {ID: "status"}}
	row := func(status string) *model1.RowEvent {
		re := model1.NewRowEvent(model1.EventUnchanged, model1.Row{ID: "t1", Fields: model1.Fields{"d", status}})
		return &re
	}

	assert.Equal(t, model1.ErrColor, render.TokenColorer(h, row(render.TokenStatus(dao.TokenExpired))))
	assert.Equal(t, model1.WarnColor, render.TokenColorer(h, row(render.TokenStatus(dao.TokenRevoked))))
	assert.Equal(t, model1.CompletedColor, render.TokenColorer(h, row(render.TokenStatus(dao.TokenValid))))

	added := model1.NewRowEvent(model1.EventAdd, model1.Row{ID: "t2", Fields: model1.Fields{"d", "Expired"}})
	assert.Equal(t, model1.AddColor, render.TokenColorer(h, &added))
}

func TestInactivityColorer(t *testing.T) {
	h := model1.Header{{ID: "currentTotalInactivitySecs"}}
	row := func(v string) *model1.RowEvent {
		re := model1.NewRowEvent(model1.EventUnchanged, model1.Row{ID: "1", Fields: model1.Fields{v}})
		return &re
	}

	assert.Equal(t, model1.StdColor, render.InactivityColorer(h, row(render.Inactivity(10, 100))))
	assert.Equal(t, model1.WarnColor, render.InactivityColorer(h, row(render.Inactivity(40, 100))))
	assert.Equal(t, model1.ErrColor, render.InactivityColorer(h, row(render.Inactivity(70, 100))))
	assert.Equal(t, model1.StdColor, render.InactivityColorer(h, row("5m")))
}
