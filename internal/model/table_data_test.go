package model_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/evcon/evcon/internal/action"
	"github.com/evcon/evcon/internal/central"
	"github.com/evcon/evcon/internal/dao"
	"github.com/evcon/evcon/internal/filter"
	"github.com/evcon/evcon/internal/model"
	"github.com/evcon/evcon/internal/model1"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type loadFunc func(ctx context.Context, n int, q dao.Query) (dao.DataResult[dao.Asset], error)

type fakeSource struct {
	mx        sync.Mutex
	queries   []dao.Query
	load      loadFunc
	admin     bool
	auto      bool
	filters   []filter.Filter
	static    filter.Values
	triggered []action.ID
}

func newSource(fn loadFunc) *fakeSource {
	return &fakeSource{load: fn}
}

func (f *fakeSource) Load(ctx context.Context, q dao.Query) (dao.DataResult[dao.Asset], error) {
	f.mx.Lock()
	n := len(f.queries)
	f.queries = append(f.queries, q)
	fn := f.load
	f.mx.Unlock()

	return fn(ctx, n, q)
}

func (f *fakeSource) calls() int {
	f.mx.Lock()
	defer f.mx.Unlock()
	return len(f.queries)
}

func (f *fakeSource) query(i int) dao.Query {
	f.mx.Lock()
	defer f.mx.Unlock()
	return f.queries[i]
}

func (f *fakeSource) actions() []action.ID {
	f.mx.Lock()
	defer f.mx.Unlock()
	return append([]action.ID(nil), f.triggered...)
}

func (f *fakeSource) TableDef() model.TableDef {
	return model.TableDef{ID: dao.AssetRID, Title: "assets", Search: true}
}

func (f *fakeSource) Columns() []model.ColumnDef[dao.Asset] {
	return []model.ColumnDef[dao.Asset]{
		{ID: "name", Name: "NAME", Sortable: true, Sorted: true, Value: func(a dao.Asset) string { return a.Name }},
		{ID: "currentInstantWatts", Name: "POWER", Sortable: true, Value: func(a dao.Asset) string {
			return fmt.Sprintf("%.0f W", a.CurrentInstantWatts)
		}},
		{ID: "assetType", Name: "TYPE", Value: func(a dao.Asset) string { return string(a.AssetType) }},
	}
}

func (f *fakeSource) Filters() []filter.Filter { return f.filters }

func (f *fakeSource) StaticFilters() filter.Values { return f.static }

func (f *fakeSource) Actions() []action.Def {
	if !f.admin {
		return nil
	}
	return []action.Def{action.NewCreate()}
}

func (f *fakeSource) ActionsRight() []action.Def {
	return []action.Def{action.NewAutoRefresh(f.auto), action.NewRefresh()}
}

func (f *fakeSource) RowActions(dao.Asset) []action.Def {
	if f.admin {
		return []action.Def{action.NewEdit(), action.NewMore(action.NewDelete())}
	}
	return []action.Def{action.NewView()}
}

func (f *fakeSource) ActionTriggered(_ context.Context, def action.Def, _ model.Refresher) error {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.triggered = append(f.triggered, def.ID)
	return nil
}

func (f *fakeSource) RowActionTriggered(ctx context.Context, def action.Def, _ dao.Asset, r model.Refresher) error {
	f.mx.Lock()
	f.triggered = append(f.triggered, def.ID)
	f.mx.Unlock()
	if def.ID == action.Delete {
		return r.Refresh(ctx)
	}
	return nil
}

type changingSource struct {
	*fakeSource
	changes      chan central.Notification
	unsubscribed chan struct{}
}

func newChangingSource(fn loadFunc) *changingSource {
	return &changingSource{
		fakeSource:   newSource(fn),
		changes:      make(chan central.Notification, 10),
		unsubscribed: make(chan struct{}),
	}
}

func (c *changingSource) Changes() (<-chan central.Notification, func()) {
	var once sync.Once
	return c.changes, func() { once.Do(func() { close(c.unsubscribed) }) }
}

type recorder struct {
	mx      sync.Mutex
	loading int
	data    []*model1.TableData
	errs    []error
}

func (r *recorder) TableLoading() {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.loading++
}

func (r *recorder) TableDataChanged(d *model1.TableData) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.data = append(r.data, d)
}

func (r *recorder) TableLoadFailed(err error) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) errCount() int {
	r.mx.Lock()
	defer r.mx.Unlock()
	return len(r.errs)
}

func (r *recorder) last() *model1.TableData {
	r.mx.Lock()
	defer r.mx.Unlock()
	if len(r.data) == 0 {
		return nil
	}
	return r.data[len(r.data)-1]
}

func page(count int, ids ...string) dao.DataResult[dao.Asset] {
	res := dao.DataResult[dao.Asset]{Count: count, Result: make([]dao.Asset, 0, len(ids))}
	for _, id := range ids {
		res.Result = append(res.Result, dao.Asset{ID: id, Name: id})
	}
	return res
}

func ids(from, to int) []string {
	out := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, fmt.Sprintf("a%d", i))
	}
	return out
}

func static(res dao.DataResult[dao.Asset]) loadFunc {
	return func(context.Context, int, dao.Query) (dao.DataResult[dao.Asset], error) {
		return res, nil
	}
}

func TestInitTwice(t *testing.T) {
	ds := model.NewTableDataSource[dao.Asset](newSource(static(page(1, "a1"))), zap.NewNop(), model.Options{})
	defer ds.Stop()

	assert.Equal(t, model.StateUninitialized, ds.State())
	assert.ErrorIs(t, ds.Refresh(context.Background()), model.ErrNotInitialized)
	require.NoError(t, ds.Init(context.Background()))
	assert.Equal(t, model.StateReady, ds.State())
	assert.ErrorIs(t, ds.Init(context.Background()), model.ErrAlreadyInitialized)
}

func TestPageClampedAfterDeletion(t *testing.T) {
	src := newSource(func(_ context.Context, n int, q dao.Query) (dao.DataResult[dao.Asset], error) {
		switch {
		case n == 0:
			return page(25, ids(1, 10)...), nil
		case q.Paging.Index == 2:
			return page(15), nil
		default:
			return page(15, ids(11, 15)...), nil
		}
	})
	rec := recorder{}
	ds := model.NewTableDataSource[dao.Asset](src, zap.NewNop(), model.Options{PageSize: 10})
	ds.AddListener(&rec)
	defer ds.Stop()

	ctx := context.Background()
	require.NoError(t, ds.Init(ctx))
	ds.SetPaging(dao.Paging{Index: 2, Size: 10})
	require.NoError(t, ds.Refresh(ctx))

	require.Equal(t, 3, src.calls())
	assert.Equal(t, 20, src.query(1).Paging.Skip())
	assert.Equal(t, dao.Paging{Index: 1, Size: 10}, src.query(2).Paging)
	assert.Equal(t, dao.Paging{Index: 1, Size: 10}, ds.Paging())

	data := rec.last()
	require.NotNil(t, data)
	idx, size := data.Page()
	assert.Equal(t, 1, idx)
	assert.Equal(t, 10, size)
	assert.Equal(t, 15, data.Count())
	assert.Equal(t, 5, data.RowCount())
	assert.Equal(t, 2, data.PageCount())
}

func TestPageInRangeLoadsOnce(t *testing.T) {
	src := newSource(static(page(25, ids(21, 25)...)))
	ds := model.NewTableDataSource[dao.Asset](src, zap.NewNop(), model.Options{PageSize: 10})
	defer ds.Stop()

	ctx := context.Background()
	require.NoError(t, ds.Init(ctx))
	ds.SetPaging(dao.Paging{Index: 2, Size: 10})
	require.NoError(t, ds.Refresh(ctx))

	assert.Equal(t, 2, src.calls())
	assert.Equal(t, 2, ds.Paging().Index)
}

func TestLatestRefreshWins(t *testing.T) {
	release := make(chan struct{})
	src := newSource(func(_ context.Context, n int, _ dao.Query) (dao.DataResult[dao.Asset], error) {
		switch n {
		case 0:
			return page(1, "init"), nil
		case 1:
			<-release
			return page(1, "r1"), nil
		default:
			return page(1, "r2"), nil
		}
	})
	rec := recorder{}
	ds := model.NewTableDataSource[dao.Asset](src, zap.NewNop(), model.Options{})
	ds.AddListener(&rec)
	defer ds.Stop()

	ctx := context.Background()
	require.NoError(t, ds.Init(ctx))

	r1 := make(chan error, 1)
	go func() { r1 <- ds.Refresh(ctx) }()
	require.Eventually(t, func() bool { return src.calls() == 2 }, time.Second, time.Millisecond)

	require.NoError(t, ds.Refresh(ctx))
	close(release)
	assert.ErrorIs(t, <-r1, model.ErrSuperseded)

	res := ds.Result()
	require.Len(t, res.Result, 1)
	assert.Equal(t, "r2", res.Result[0].ID)
	assert.Equal(t, model.StateReady, ds.State())
	assert.Zero(t, rec.errCount())

	re, ok := rec.last().RowEvents().At(0)
	require.True(t, ok)
	assert.Equal(t, "r2", re.Row.ID)
}

func TestSupersededLoadIsCanceled(t *testing.T) {
	canceled := make(chan struct{})
	src := newSource(func(ctx context.Context, n int, _ dao.Query) (dao.DataResult[dao.Asset], error) {
		switch n {
		case 0:
			return page(1, "init"), nil
		case 1:
			<-ctx.Done()
			close(canceled)
			return dao.DataResult[dao.Asset]{}, ctx.Err()
		default:
			<-canceled
			return page(1, "r2"), nil
		}
	})
	rec := recorder{}
	ds := model.NewTableDataSource[dao.Asset](src, zap.NewNop(), model.Options{})
	ds.AddListener(&rec)
	defer ds.Stop()

	ctx := context.Background()
	require.NoError(t, ds.Init(ctx))

	r1 := make(chan error, 1)
	go func() { r1 <- ds.Refresh(ctx) }()
	require.Eventually(t, func() bool { return src.calls() == 2 }, time.Second, time.Millisecond)

	require.NoError(t, ds.Refresh(ctx))
	assert.ErrorIs(t, <-r1, model.ErrSuperseded)
	assert.Zero(t, rec.errCount())
	assert.Equal(t, "r2", ds.Result().Result[0].ID)
}

func TestBuildFilterValues(t *testing.T) {
	logo := filter.NewDropdown("logo", "WithLogo", "Logo", []filter.Item{{Key: "true"}, {Key: "false"}}, "false")
	site := filter.NewSite()
	src := newSource(static(page(0)))
	src.filters = []filter.Filter{logo, site}
	src.static = filter.Values{"WithLogo": "true", "WithSiteArea": "true"}

	ds := model.NewTableDataSource[dao.Asset](src, zap.NewNop(), model.Options{})
	defer ds.Stop()
	require.NoError(t, ds.Init(context.Background()))
	ds.SetSearch("solar")

	assert.Empty(t, cmp.Diff(filter.Values{
		"WithLogo":     "true",
		"WithSiteArea": "true",
		"Search":       "solar",
	}, ds.BuildFilterValues()))

	require.NoError(t, ds.SetFilterValue("sites", []filter.Item{{Key: "s1"}, {Key: "s2"}}))
	ds.SetStaticFilters(filter.Values{"Search": "fixed"})
	assert.Empty(t, cmp.Diff(filter.Values{
		"WithLogo":     "true",
		"WithSiteArea": "true",
		"SiteID":       "s1|s2",
		"Search":       "fixed",
	}, ds.BuildFilterValues()))

	require.NoError(t, ds.Refresh(context.Background()))
	assert.Equal(t, "true", src.query(1).Filters["WithLogo"])
	assert.Equal(t, "s1|s2", src.query(1).Filters["SiteID"])

	assert.ErrorIs(t, ds.SetFilterValue("nope", "x"), model.ErrUnknownFilter)
}

func TestResetFiltersRecomputesToday(t *testing.T) {
	now := time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)
	date := filter.NewDate(func() time.Time { return now })
	src := newSource(static(page(0)))
	src.filters = []filter.Filter{date}

	ds := model.NewTableDataSource[dao.Asset](src, zap.NewNop(), model.Options{PageSize: 10})
	defer ds.Stop()
	require.NoError(t, ds.Init(context.Background()))

	ds.SetSearch("x")
	ds.SetPaging(dao.Paging{Index: 3, Size: 10})
	now = now.Add(24 * time.Hour)
	ds.ResetFilters()

	vv := ds.BuildFilterValues()
	assert.Equal(t, "2024-03-11T00:00:00Z", vv["Date"])
	assert.NotContains(t, vv, filter.SearchKey)
	assert.Zero(t, ds.Paging().Index)
}

func TestSorting(t *testing.T) {
	ds := model.NewTableDataSource[dao.Asset](newSource(static(page(0))), zap.NewNop(), model.Options{})
	defer ds.Stop()
	require.NoError(t, ds.Init(context.Background()))

	assert.Equal(t, []dao.Sorting{{Field: "name"}}, ds.Sorting())
	assert.True(t, ds.SetSorting("name"))
	assert.Equal(t, []dao.Sorting{{Field: "name", Desc: true}}, ds.Sorting())
	assert.True(t, ds.SetSorting("currentInstantWatts"))
	assert.Equal(t, []dao.Sorting{{Field: "currentInstantWatts"}}, ds.Sorting())
	assert.False(t, ds.SetSorting("assetType"))
	assert.Equal(t, []dao.Sorting{{Field: "currentInstantWatts"}}, ds.Sorting())
}

func TestForegroundFailure(t *testing.T) {
	fail := true
	var mx sync.Mutex
	src := newSource(func(context.Context, int, dao.Query) (dao.DataResult[dao.Asset], error) {
		mx.Lock()
		defer mx.Unlock()
		if fail {
			return dao.DataResult[dao.Asset]{}, &central.HTTPError{Status: central.StatusObjectDoesNotExist}
		}
		return page(1, "a1"), nil
	})
	rec := recorder{}
	ds := model.NewTableDataSource[dao.Asset](src, zap.NewNop(), model.Options{})
	ds.AddListener(&rec)
	defer ds.Stop()

	err := ds.Init(context.Background())
	var le *model.LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, central.KindNotFound, le.Kind)
	assert.Equal(t, "The object does not exist anymore", le.Message)
	assert.Equal(t, model.StateError, ds.State())
	assert.Equal(t, 1, rec.errCount())

	mx.Lock()
	fail = false
	mx.Unlock()
	require.NoError(t, ds.Refresh(context.Background()))
	assert.Equal(t, model.StateReady, ds.State())
}

func TestChangeNotificationRefreshes(t *testing.T) {
	src := newChangingSource(func(_ context.Context, n int, _ dao.Query) (dao.DataResult[dao.Asset], error) {
		return page(1, fmt.Sprintf("a%d", n)), nil
	})
	ds := model.NewTableDataSource[dao.Asset](src, zap.NewNop(), model.Options{Debounce: 20 * time.Millisecond})
	require.NoError(t, ds.Init(context.Background()))

	for range 5 {
		src.changes <- central.Notification{Entity: "assets", Action: "update", ID: "a0"}
	}
	require.Eventually(t, func() bool { return src.calls() == 2 }, time.Second, time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 2, src.calls())
	require.Eventually(t, func() bool { return ds.State() == model.StateReady }, time.Second, time.Millisecond)
	assert.Equal(t, "a1", ds.Result().Result[0].ID)

	ds.Stop()
	select {
	case <-src.unsubscribed:
	case <-time.After(time.Second):
		t.Fatal("not unsubscribed")
	}
	assert.ErrorIs(t, ds.Refresh(context.Background()), model.ErrStopped)
}

func TestBackgroundFailureIsSilent(t *testing.T) {
	src := newChangingSource(func(_ context.Context, n int, _ dao.Query) (dao.DataResult[dao.Asset], error) {
		if n == 0 {
			return page(1, "a1"), nil
		}
		return dao.DataResult[dao.Asset]{}, errors.New("boom")
	})
	rec := recorder{}
	ds := model.NewTableDataSource[dao.Asset](src, zap.NewNop(), model.Options{Debounce: 5 * time.Millisecond})
	ds.AddListener(&rec)
	defer ds.Stop()
	require.NoError(t, ds.Init(context.Background()))

	src.changes <- central.Notification{Entity: "assets"}
	require.Eventually(t, func() bool { return src.calls() == 2 }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return ds.State() == model.StateReady }, time.Second, time.Millisecond)

	assert.Zero(t, rec.errCount())
	assert.Equal(t, "a1", ds.Result().Result[0].ID)
}

func TestAutoRefresh(t *testing.T) {
	src := newSource(static(page(1, "a1")))
	src.auto = true
	ds := model.NewTableDataSource[dao.Asset](src, zap.NewNop(), model.Options{RefreshRate: 10 * time.Millisecond})
	defer ds.Stop()

	ctx := context.Background()
	require.NoError(t, ds.Init(ctx))
	assert.True(t, ds.AutoRefresh())
	require.Eventually(t, func() bool { return src.calls() >= 3 }, time.Second, time.Millisecond)

	d, ok := action.Find(ds.ActionsRight(), action.AutoRefresh)
	require.True(t, ok)
	assert.True(t, d.Active)

	require.NoError(t, ds.ActionTriggered(ctx, d))
	assert.False(t, ds.AutoRefresh())
	n := src.calls()
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, src.calls(), n+1)
}

func TestRowActions(t *testing.T) {
	uu := map[string]struct {
		admin bool
		e     []action.ID
	}{
		"admin":    {admin: true, e: []action.ID{action.Edit, action.More}},
		"nonadmin": {e: []action.ID{action.View}},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			src := newSource(static(page(1, "a1")))
			src.admin = u.admin
			ds := model.NewTableDataSource[dao.Asset](src, zap.NewNop(), model.Options{})
			defer ds.Stop()
			require.NoError(t, ds.Init(context.Background()))

			row, ok := ds.Row("a1")
			require.True(t, ok)
			assert.Equal(t, u.e, action.IDs(ds.RowActions(row)))
		})
	}
}

func TestUnavailableRowActionIsNoop(t *testing.T) {
	src := newSource(static(page(1, "a1")))
	ds := model.NewTableDataSource[dao.Asset](src, zap.NewNop(), model.Options{})
	defer ds.Stop()

	ctx := context.Background()
	require.NoError(t, ds.Init(ctx))
	row, _ := ds.Row("a1")
	before := ds.Result()

	require.NoError(t, ds.RowActionTriggered(ctx, action.NewRevoke(), row))
	require.NoError(t, ds.RowActionTriggered(ctx, action.NewDelete(), row))
	require.NoError(t, ds.ActionTriggered(ctx, action.NewCreate()))

	assert.Empty(t, src.actions())
	assert.Equal(t, 1, src.calls())
	assert.Equal(t, model.StateReady, ds.State())
	assert.Equal(t, before, ds.Result())
}

func TestRowActionDispatch(t *testing.T) {
	src := newSource(static(page(1, "a1")))
	src.admin = true
	ds := model.NewTableDataSource[dao.Asset](src, zap.NewNop(), model.Options{})
	defer ds.Stop()

	ctx := context.Background()
	require.NoError(t, ds.Init(ctx))
	row, _ := ds.Row("a1")

	require.NoError(t, ds.RowActionTriggered(ctx, action.NewDelete(), row))
	require.NoError(t, ds.ActionTriggered(ctx, action.NewCreate()))
	assert.Equal(t, []action.ID{action.Delete, action.Create}, src.actions())
	assert.Equal(t, 2, src.calls())

	require.NoError(t, ds.ActionTriggered(ctx, action.NewRefresh()))
	assert.Equal(t, 3, src.calls())
}

func TestRowEventsAcrossRefresh(t *testing.T) {
	src := newSource(func(_ context.Context, n int, _ dao.Query) (dao.DataResult[dao.Asset], error) {
		if n == 0 {
			return dao.DataResult[dao.Asset]{Count: 1, Result: []dao.Asset{{ID: "a1", Name: "a1", CurrentInstantWatts: 10}}}, nil
		}
		return dao.DataResult[dao.Asset]{Count: 2, Result: []dao.Asset{
			{ID: "a1", Name: "a1", CurrentInstantWatts: 20},
			{ID: "a2", Name: "a2"},
		}}, nil
	})
	ds := model.NewTableDataSource[dao.Asset](src, zap.NewNop(), model.Options{})
	defer ds.Stop()

	require.NoError(t, ds.Init(context.Background()))
	require.NoError(t, ds.Refresh(context.Background()))

	data := ds.Peek()
	a1, ok := data.RowEvents().Get("a1")
	require.True(t, ok)
	assert.Equal(t, model1.EventUpdate, a1.Kind)
	assert.Equal(t, "10 W", a1.Deltas[1])
	a2, ok := data.RowEvents().Get("a2")
	require.True(t, ok)
	assert.Equal(t, model1.EventAdd, a2.Kind)

	id, dir := data.Sort()
	assert.Equal(t, "name", id)
	assert.Equal(t, model1.SortAsc, dir)
}
