package model_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/evcon/evcon/internal/central"
	"github.com/evcon/evcon/internal/dao"
	"github.com/evcon/evcon/internal/model"
)

type makersSource struct {
	mx         sync.Mutex
	pages      [][]string
	n          int
	subscribed bool
}

func (m *makersSource) Load(context.Context, dao.Query) (dao.DataResult[dao.CarMaker], error) {
	m.mx.Lock()
	defer m.mx.Unlock()

	mm := m.pages[min(m.n, len(m.pages)-1)]
	m.n++
	res := dao.DataResult[dao.CarMaker]{Count: len(mm)}
	for _, name := range mm {
		res.Result = append(res.Result, dao.CarMaker{CarMaker: name})
	}

	return res, nil
}

func (m *makersSource) TableDef() model.TableDef {
	return model.TableDef{ID: dao.CarMakerRID, Title: "car makers", Search: true}
}

func (m *makersSource) Columns() []model.ColumnDef[dao.CarMaker] {
	return []model.ColumnDef[dao.CarMaker]{
		{ID: "carMaker", Name: "MAKER", Sortable: true, Sorted: true, Value: func(c dao.CarMaker) string { return c.CarMaker }},
	}
}

func (m *makersSource) Changes() (<-chan central.Notification, func()) {
	m.mx.Lock()
	defer m.mx.Unlock()
	m.subscribed = true

	return make(chan central.Notification), func() {}
}

func names(mm []dao.CarMaker) []string {
	out := make([]string, 0, len(mm))
	for _, m := range mm {
		out = append(out, m.CarMaker)
	}
	return out
}

func TestDialogMultiSelect(t *testing.T) {
	src := makersSource{pages: [][]string{
		{"Audi", "BMW", "Tesla"},
		{"BMW", "Tesla"},
	}}
	ds := model.NewDialogTableDataSource[dao.CarMaker](&src, zap.NewNop(), model.Options{}, true)
	defer ds.Stop()

	ctx := context.Background()
	require.NoError(t, ds.Init(ctx))
	assert.True(t, ds.Multiple())
	assert.False(t, src.subscribed)

	assert.True(t, ds.Toggle("BMW"))
	assert.True(t, ds.Toggle("Audi"))
	assert.False(t, ds.Toggle("Skoda"))
	assert.Equal(t, []string{"BMW", "Audi"}, names(ds.Selected()))

	require.NoError(t, ds.Refresh(ctx))
	assert.Equal(t, []string{"BMW"}, names(ds.Selected()))
	assert.False(t, ds.IsSelected("Audi"))
	assert.True(t, ds.IsSelected("BMW"))

	assert.True(t, ds.Toggle("Tesla"))
	assert.False(t, ds.Toggle("Tesla"))
	assert.Equal(t, []string{"BMW"}, names(ds.Selected()))

	ds.ClearSelection()
	assert.Empty(t, ds.Selected())
}

func TestDialogSingleSelect(t *testing.T) {
	src := makersSource{pages: [][]string{{"Audi", "BMW"}}}
	ds := model.NewDialogTableDataSource[dao.CarMaker](&src, zap.NewNop(), model.Options{}, false)
	defer ds.Stop()

	require.NoError(t, ds.Init(context.Background()))

	assert.True(t, ds.Toggle("Audi"))
	assert.True(t, ds.Toggle("BMW"))
	assert.Equal(t, []string{"BMW"}, names(ds.Selected()))
	assert.Equal(t, []dao.Sorting{{Field: "carMaker"}}, ds.Sorting())
}
