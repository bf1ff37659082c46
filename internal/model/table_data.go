package model

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/evcon/evcon/internal/action"
	"github.com/evcon/evcon/internal/central"
	"github.com/evcon/evcon/internal/dao"
	"github.com/evcon/evcon/internal/filter"
	"github.com/evcon/evcon/internal/model1"
)

const (
	DefaultPageSize    = 50
	DefaultRefreshRate = 10 * time.Second
	DefaultDebounce    = 500 * time.Millisecond
)

// Options tunes a data source. Zero values pick the defaults.
type Options struct {
	PageSize    int
	RefreshRate time.Duration
	Debounce    time.Duration
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.RefreshRate <= 0 {
		o.RefreshRate = DefaultRefreshRate
	}
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	return o
}

// StaticFilterer is implemented by sources constraining every request.
type StaticFilterer interface {
	StaticFilters() filter.Values
}

// TableDataSource owns the paging, sorting, search and filter state of a grid
// and is the only component that loads its data.
type TableDataSource[T dao.Object] struct {
	src         Source[T]
	log         *zap.Logger
	opts        Options
	def         TableDef
	columns     []ColumnDef[T]
	filters     []filter.Filter
	static      filter.Values
	search      string
	paging      dao.Paging
	sorting     []dao.Sorting
	result      dao.DataResult[T]
	data        *model1.TableData
	state       State
	settled     State
	initialized bool
	stopped     bool
	token       uint64
	fgPending   bool
	cancelFn    context.CancelFunc
	ctx         context.Context
	stopFn      context.CancelFunc
	autoRefresh bool
	autoCancel  context.CancelFunc
	unsubscribe func()
	debounce    *Debouncer
	passive     bool
	onResult    func([]T)
	listeners   []TableListener
	mx          sync.RWMutex
}

// NewTableDataSource returns a data source for the given entity capability.
func NewTableDataSource[T dao.Object](src Source[T], log *zap.Logger, opts Options) *TableDataSource[T] {
	opts = opts.withDefaults()

	return &TableDataSource[T]{
		src:       src,
		log:       log,
		opts:      opts,
		static:    make(filter.Values),
		paging:    dao.Paging{Size: opts.PageSize},
		data:      model1.NewTableData(),
		listeners: make([]TableListener, 0, 2),
	}
}

// Init registers the descriptors of the source, subscribes to its change
// notifications and performs the first load. ctx bounds every background
// refresh of the data source.
func (t *TableDataSource[T]) Init(ctx context.Context) error {
	t.mx.Lock()
	if t.initialized {
		t.mx.Unlock()
		return ErrAlreadyInitialized
	}
	t.initialized = true
	t.ctx, t.stopFn = context.WithCancel(ctx)
	t.def = t.src.TableDef()
	t.columns = t.src.Columns()
	t.filters = t.src.Filters()
	t.sorting = sortingFrom(t.columns)
	if s, ok := t.src.(StaticFilterer); ok {
		for k, v := range s.StaticFilters() {
			t.static[k] = v
		}
	}
	var auto bool
	if !t.passive {
		if d, ok := action.Find(t.src.ActionsRight(), action.AutoRefresh); ok {
			auto = d.Active
		}
	}
	t.mx.Unlock()

	if c, ok := t.src.(Changer); ok && !t.passive {
		t.subscribe(c)
	}
	err := t.Refresh(ctx)
	if auto {
		t.SetAutoRefresh(true)
	}

	return err
}

// Refresh reloads the current page. A refresh supersedes the one in flight,
// whose result is discarded and which returns ErrSuperseded.
func (t *TableDataSource[T]) Refresh(ctx context.Context) error {
	return t.refresh(ctx, true)
}

func (t *TableDataSource[T]) backgroundRefresh() {
	t.mx.RLock()
	ctx := t.ctx
	t.mx.RUnlock()
	if ctx == nil {
		return
	}
	_ = t.refresh(ctx, false)
}

func (t *TableDataSource[T]) refresh(ctx context.Context, foreground bool) error {
	token, loadCtx, err := t.begin(ctx, foreground)
	if err != nil {
		return err
	}
	if foreground {
		t.notifyLoading()
	}
	res, err := t.load(loadCtx, token)

	return t.finish(token, res, err, foreground)
}

func (t *TableDataSource[T]) begin(ctx context.Context, foreground bool) (uint64, context.Context, error) {
	t.mx.Lock()
	defer t.mx.Unlock()

	if !t.initialized {
		return 0, nil, ErrNotInitialized
	}
	if t.stopped {
		return 0, nil, ErrStopped
	}
	if t.cancelFn != nil {
		t.cancelFn()
	}
	t.token++
	loadCtx, cancel := context.WithCancel(ctx)
	t.cancelFn = cancel
	t.state = StateLoading
	if foreground {
		t.fgPending = true
	}

	return t.token, loadCtx, nil
}

// load fetches the page and, when the page index fell out of range for the
// returned count, moves to the last valid page and fetches it.
func (t *TableDataSource[T]) load(ctx context.Context, token uint64) (dao.DataResult[T], error) {
	q := t.query()
	res, err := t.src.Load(ctx, q)
	if err != nil {
		return res, err
	}

	t.mx.Lock()
	if token != t.token {
		t.mx.Unlock()
		return res, ErrSuperseded
	}
	last := q.Paging.LastIndex(res.Count)
	if q.Paging.Index <= last {
		t.mx.Unlock()
		return res, nil
	}
	t.paging.Index = last
	t.mx.Unlock()

	t.log.Debug("Page out of range, loading last page",
		zap.String("table", t.def.ID.String()),
		zap.Int("index", q.Paging.Index),
		zap.Int("last", last),
		zap.Int("count", res.Count),
	)

	return t.src.Load(ctx, t.query())
}

func (t *TableDataSource[T]) finish(token uint64, res dao.DataResult[T], err error, foreground bool) error {
	t.mx.Lock()
	if t.stopped {
		t.mx.Unlock()
		return ErrStopped
	}
	if token != t.token || errors.Is(err, ErrSuperseded) {
		t.mx.Unlock()
		return ErrSuperseded
	}
	t.cancelFn()
	t.cancelFn = nil
	foreground = foreground || t.fgPending
	t.fgPending = false

	if err != nil {
		if !foreground {
			t.state = t.settled
			t.mx.Unlock()
			t.log.Warn("Background refresh failed", zap.String("table", t.def.ID.String()), zap.Error(err))
			return err
		}
		t.state, t.settled = StateError, StateError
		lerr := newLoadError(err, t.def.Title)
		t.mx.Unlock()
		t.log.Error("Load failed", zap.String("table", t.def.ID.String()), zap.Error(err))
		t.notifyLoadFailed(lerr)
		return lerr
	}

	t.result = res
	t.data = t.buildData(res)
	t.state, t.settled = StateReady, StateReady
	if t.onResult != nil {
		t.onResult(res.Result)
	}
	data := t.data
	t.mx.Unlock()
	t.notifyDataChanged(data)

	return nil
}

func (t *TableDataSource[T]) query() dao.Query {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return dao.Query{
		Filters: t.buildFilterValues(),
		Paging:  t.paging,
		Sorting: append([]dao.Sorting(nil), t.sorting...),
	}
}

func (t *TableDataSource[T]) buildData(res dao.DataResult[T]) *model1.TableData {
	h := make(model1.Header, 0, len(t.columns))
	for _, c := range t.columns {
		h = append(h, model1.HeaderColumn{
			ID:   c.ID,
			Name: c.Name,
			Attrs: model1.Attrs{
				Align:    c.Align,
				Sortable: c.Sortable,
				Capacity: c.Capacity,
				Time:     c.Time,
			},
		})
	}
	rows := make(model1.Rows, 0, len(res.Result))
	for _, o := range res.Result {
		row := model1.NewRow(len(t.columns))
		row.ID = o.GetID()
		for i, c := range t.columns {
			if c.Value == nil {
				row.Fields[i] = model1.NAValue
				continue
			}
			row.Fields[i] = c.Value(o)
		}
		rows = append(rows, row)
	}

	var prev *model1.RowEvents
	if t.data != nil && !t.data.Header().Diff(h) && t.data.RowCount() > 0 {
		prev = t.data.RowEvents()
	}
	data := model1.NewTableData()
	data.SetHeader(h)
	data.SetRowEvents(model1.Reconcile(prev, h, rows))
	data.SetPage(res.Count, t.paging.Index, t.paging.Size)
	if len(t.sorting) > 0 {
		dir := model1.SortAsc
		if t.sorting[0].Desc {
			dir = model1.SortDesc
		}
		data.SetSort(t.sorting[0].Field, dir)
	}

	return data
}

func sortingFrom[T any](cc []ColumnDef[T]) []dao.Sorting {
	for _, c := range cc {
		if c.Sorted {
			return []dao.Sorting{{Field: c.ID, Desc: c.Direction == model1.SortDesc}}
		}
	}
	return nil
}

// BuildFilterValues merges the dynamic filters, the search text and the
// static filters. Static filters are never overridden.
func (t *TableDataSource[T]) BuildFilterValues() filter.Values {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return t.buildFilterValues()
}

func (t *TableDataSource[T]) buildFilterValues() filter.Values {
	vv := make(filter.Values, len(t.filters)+len(t.static)+1)
	for _, f := range t.filters {
		if f.IsAll() {
			continue
		}
		f.Encode(vv)
	}
	if t.search != "" {
		vv[filter.SearchKey] = t.search
	}
	for k, v := range t.static {
		vv[k] = v
	}

	return vv
}

// SetStaticFilters adds fixed constraints to every request.
func (t *TableDataSource[T]) SetStaticFilters(ff ...filter.Values) {
	t.mx.Lock()
	defer t.mx.Unlock()

	for _, f := range ff {
		for k, v := range f {
			t.static[k] = v
		}
	}
}

// Paging returns the current page request.
func (t *TableDataSource[T]) Paging() dao.Paging {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return t.paging
}

// SetPaging sets the page request. Invalid values are ignored.
func (t *TableDataSource[T]) SetPaging(p dao.Paging) {
	if p.Index < 0 || p.Size <= 0 {
		return
	}
	t.mx.Lock()
	defer t.mx.Unlock()

	t.paging = p
}

// Sorting returns the current sort criteria.
func (t *TableDataSource[T]) Sorting() []dao.Sorting {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return append([]dao.Sorting(nil), t.sorting...)
}

// SetSorting sorts on the given column, toggling the direction when it is
// already the sort column. It returns false if the column cannot be sorted.
func (t *TableDataSource[T]) SetSorting(field string) bool {
	t.mx.Lock()
	defer t.mx.Unlock()

	var ok bool
	for _, c := range t.columns {
		if c.ID == field && c.Sortable {
			ok = true
			break
		}
	}
	if !ok {
		return false
	}
	if len(t.sorting) > 0 && t.sorting[0].Field == field {
		t.sorting = []dao.Sorting{{Field: field, Desc: !t.sorting[0].Desc}}
	} else {
		t.sorting = []dao.Sorting{{Field: field}}
	}
	t.paging.Index = 0

	return true
}

// Search returns the search text.
func (t *TableDataSource[T]) Search() string {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return t.search
}

// SetSearch sets the search text and goes back to the first page.
func (t *TableDataSource[T]) SetSearch(s string) {
	t.mx.Lock()
	defer t.mx.Unlock()

	t.search = s
	t.paging.Index = 0
}

// Filters returns the dynamic filters.
func (t *TableDataSource[T]) Filters() []filter.Filter {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return append([]filter.Filter(nil), t.filters...)
}

// SetFilterValue assigns a dynamic filter and goes back to the first page.
func (t *TableDataSource[T]) SetFilterValue(id string, v any) error {
	t.mx.Lock()
	defer t.mx.Unlock()

	f, ok := filter.Find(t.filters, id)
	if !ok {
		return ErrUnknownFilter
	}
	if err := f.Set(v); err != nil {
		return err
	}
	t.paging.Index = 0

	return nil
}

// ResetFilters restores every dynamic filter default and clears the search.
func (t *TableDataSource[T]) ResetFilters() {
	t.mx.Lock()
	defer t.mx.Unlock()

	for _, f := range t.filters {
		f.Reset()
	}
	t.search = ""
	t.paging.Index = 0
}

// State returns the load state.
func (t *TableDataSource[T]) State() State {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return t.state
}

// TableDef returns the grid description.
func (t *TableDataSource[T]) TableDef() TableDef {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return t.def
}

// Columns returns the column descriptors.
func (t *TableDataSource[T]) Columns() []ColumnDef[T] {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return t.columns
}

// Peek returns the published page.
func (t *TableDataSource[T]) Peek() *model1.TableData {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return t.data.Clone()
}

// Result returns the published envelope.
func (t *TableDataSource[T]) Result() dao.DataResult[T] {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return t.result
}

// Row returns the published entity with the given id.
func (t *TableDataSource[T]) Row(id string) (T, bool) {
	t.mx.RLock()
	defer t.mx.RUnlock()

	for _, o := range t.result.Result {
		if o.GetID() == id {
			return o, true
		}
	}
	var zero T

	return zero, false
}

// Actions returns the table level actions.
func (t *TableDataSource[T]) Actions() []action.Def {
	return t.src.Actions()
}

// ActionsRight returns the refresh actions, reflecting the auto refresh state.
func (t *TableDataSource[T]) ActionsRight() []action.Def {
	dd := t.src.ActionsRight()
	auto := t.AutoRefresh()
	for i := range dd {
		if dd[i].ID == action.AutoRefresh {
			dd[i].Active = auto
		}
	}

	return dd
}

// RowActions returns the actions available on a row.
func (t *TableDataSource[T]) RowActions(row T) []action.Def {
	return t.src.RowActions(row)
}

// ActionTriggered runs a table level action. Refresh, auto refresh and filter
// reset are handled here, the rest is dispatched to the source. Actions the
// source does not currently offer are ignored.
func (t *TableDataSource[T]) ActionTriggered(ctx context.Context, def action.Def) error {
	switch def.ID {
	case action.Refresh:
		return t.Refresh(ctx)
	case action.AutoRefresh:
		t.SetAutoRefresh(!t.AutoRefresh())
		return nil
	case action.ResetFilters:
		t.ResetFilters()
		return t.Refresh(ctx)
	}

	all := append(t.src.Actions(), t.src.ActionsRight()...)
	d, ok := action.Find(all, def.ID)
	if !ok || d.Disabled {
		t.log.Debug("Ignoring unavailable action", zap.String("action", string(def.ID)))
		return nil
	}

	return t.src.ActionTriggered(ctx, d, t)
}

// RowActionTriggered runs a row action. Actions the row does not currently
// offer are ignored.
func (t *TableDataSource[T]) RowActionTriggered(ctx context.Context, def action.Def, row T) error {
	d, ok := action.Find(t.src.RowActions(row), def.ID)
	if !ok || d.Disabled {
		t.log.Debug("Ignoring unavailable row action",
			zap.String("action", string(def.ID)),
			zap.String("row", row.GetID()),
		)
		return nil
	}

	return t.src.RowActionTriggered(ctx, d, row, t)
}

// AutoRefresh returns true if the periodic refresh is on.
func (t *TableDataSource[T]) AutoRefresh() bool {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return t.autoRefresh
}

// SetAutoRefresh turns the periodic refresh on or off.
func (t *TableDataSource[T]) SetAutoRefresh(on bool) {
	t.mx.Lock()
	defer t.mx.Unlock()

	if t.autoCancel != nil {
		t.autoCancel()
		t.autoCancel = nil
	}
	t.autoRefresh = on
	if !on || t.ctx == nil || t.stopped || t.passive {
		return
	}
	ctx, cancel := context.WithCancel(t.ctx)
	t.autoCancel = cancel
	go t.watchLoop(ctx, t.opts.RefreshRate)
}

// watchLoop periodically refreshes data.
func (t *TableDataSource[T]) watchLoop(ctx context.Context, rate time.Duration) {
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.backgroundRefresh()
		}
	}
}

func (t *TableDataSource[T]) subscribe(c Changer) {
	ch, cancel := c.Changes()

	t.mx.Lock()
	t.unsubscribe = cancel
	t.debounce = NewDebouncer(t.opts.Debounce, t.backgroundRefresh)
	ctx, deb := t.ctx, t.debounce
	t.mx.Unlock()

	go t.watchChanges(ctx, ch, deb)
}

func (t *TableDataSource[T]) watchChanges(ctx context.Context, ch <-chan central.Notification, deb *Debouncer) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			t.log.Debug("Change notification",
				zap.String("entity", n.Entity),
				zap.String("action", n.Action),
				zap.String("id", n.ID),
			)
			deb.Trigger()
		}
	}
}

// Stop cancels the load in flight, the change subscription, the pending
// debounced refresh and the auto refresh.
func (t *TableDataSource[T]) Stop() {
	t.mx.Lock()
	if t.stopped {
		t.mx.Unlock()
		return
	}
	t.stopped = true
	t.token++
	for _, cancel := range []context.CancelFunc{t.cancelFn, t.autoCancel, t.stopFn} {
		if cancel != nil {
			cancel()
		}
	}
	t.cancelFn, t.autoCancel = nil, nil
	unsubscribe, deb := t.unsubscribe, t.debounce
	t.mx.Unlock()

	if deb != nil {
		deb.Stop()
	}
	if unsubscribe != nil {
		unsubscribe()
	}
}

// AddListener registers a table listener.
func (t *TableDataSource[T]) AddListener(l TableListener) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.listeners = append(t.listeners, l)
}

// RemoveListener unregisters a table listener.
func (t *TableDataSource[T]) RemoveListener(l TableListener) {
	t.mx.Lock()
	defer t.mx.Unlock()

	for i, listener := range t.listeners {
		if listener == l {
			t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
			return
		}
	}
}

func (t *TableDataSource[T]) snapshotListeners() []TableListener {
	t.mx.RLock()
	defer t.mx.RUnlock()

	ll := make([]TableListener, len(t.listeners))
	copy(ll, t.listeners)

	return ll
}

func (t *TableDataSource[T]) notifyLoading() {
	for _, l := range t.snapshotListeners() {
		l.TableLoading()
	}
}

func (t *TableDataSource[T]) notifyDataChanged(data *model1.TableData) {
	for _, l := range t.snapshotListeners() {
		l.TableDataChanged(data)
	}
}

func (t *TableDataSource[T]) notifyLoadFailed(err error) {
	for _, l := range t.snapshotListeners() {
		l.TableLoadFailed(err)
	}
}
