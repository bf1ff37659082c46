package model1

import "sync"

// TableData is one published page of a grid.
type TableData struct {
	header    Header
	rowEvents *RowEvents
	count     int
	pageIndex int
	pageSize  int
	sortID    string
	sortDir   SortDirection
	errMsg    string
	mx        sync.RWMutex
}

// NewTableData returns a new table.
func NewTableData() *TableData {
	return &TableData{
		rowEvents: NewRowEvents(10),
	}
}

// Header returns the table header.
func (t *TableData) Header() Header {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.header
}

// SetHeader sets the table header.
func (t *TableData) SetHeader(h Header) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.header = h
}

// RowEvents returns the row events.
func (t *TableData) RowEvents() *RowEvents {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.rowEvents
}

// SetRowEvents sets the row events.
func (t *TableData) SetRowEvents(re *RowEvents) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.rowEvents = re
}

// SetPage records the total count and the page being shown.
func (t *TableData) SetPage(count, index, size int) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.count, t.pageIndex, t.pageSize = count, index, size
}

// Count returns the total number of matching rows on the server.
func (t *TableData) Count() int {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.count
}

// Page returns the page index and page size.
func (t *TableData) Page() (int, int) {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.pageIndex, t.pageSize
}

// PageCount returns the number of pages, at least one.
func (t *TableData) PageCount() int {
	t.mx.RLock()
	defer t.mx.RUnlock()
	if t.pageSize <= 0 || t.count == 0 {
		return 1
	}
	return (t.count + t.pageSize - 1) / t.pageSize
}

// SetSort records the active sort column.
func (t *TableData) SetSort(id string, dir SortDirection) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.sortID, t.sortDir = id, dir
}

// Sort returns the active sort column.
func (t *TableData) Sort() (string, SortDirection) {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.sortID, t.sortDir
}

// Empty returns true if no data is available.
func (t *TableData) Empty() bool {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.rowEvents.Empty()
}

// RowCount returns the number of rows on this page.
func (t *TableData) RowCount() int {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.rowEvents.Len()
}

// Clone returns a shallow copy of the table data.
func (t *TableData) Clone() *TableData {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return &TableData{
		header:    t.header,
		rowEvents: t.rowEvents,
		count:     t.count,
		pageIndex: t.pageIndex,
		pageSize:  t.pageSize,
		sortID:    t.sortID,
		sortDir:   t.sortDir,
		errMsg:    t.errMsg,
	}
}

// SetError sets an error message to display instead of data.
func (t *TableData) SetError(msg string) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.errMsg = msg
}

// Error returns the error message, if any.
func (t *TableData) Error() string {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.errMsg
}
