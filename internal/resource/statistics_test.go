package resource_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcon/evcon/internal/action"
	"github.com/evcon/evcon/internal/dao"
	"github.com/evcon/evcon/internal/filter"
	"github.com/evcon/evcon/internal/resource"
)

const consumption = `[{"month":1,"CS-1":2.5},{"month":0,"CS-1":10,"CS-2":5}]`

type fakeExporter struct {
	name   string
	header []string
	rows   [][]string
}

func (f *fakeExporter) Export(_ context.Context, name string, header []string, rows [][]string) (string, error) {
	f.name, f.header, f.rows = name, header, rows
	return "/tmp/" + name + ".csv", nil
}

func TestPivot(t *testing.T) {
	rows := resource.Pivot([]dao.ConsumptionStat{
		{Month: 0, Values: map[string]float64{"CS-1": 10, "CS-2": 5}},
		{Month: 1, Values: map[string]float64{"CS-1": 2.5}},
		{Month: 12, Values: map[string]float64{"CS-2": 1}},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, "CS-1", rows[0].Key)
	assert.Equal(t, 12.5, rows[0].Total)
	assert.Equal(t, 2.5, rows[0].Months[1])
	assert.Equal(t, "CS-2", rows[1].Key)
	assert.Equal(t, 6.0, rows[1].Total)
	assert.Equal(t, 5.0, rows[1].Months[0])
}

func TestStatisticsLoad(t *testing.T) {
	conn := fakeConn{dflt: reply{body: consumption}}
	src := resource.NewStatistics(deps(t, &conn, &fakePrompter{}, authorizer(t, dao.RoleAdmin, nil)))

	res, err := src.Load(context.Background(), dao.Query{
		Filters: filter.Values{"GroupBy": "users", "ChargingStationID": "CS-1|CS-2"},
		Paging:  dao.Paging{Index: 1, Size: 1},
		Sorting: []dao.Sorting{{Field: "total", Desc: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)
	require.Len(t, res.Result, 1)
	assert.Equal(t, "CS-2", res.Result[0].Key)

	cc := conn.recorded()
	require.Len(t, cc, 1)
	assert.Equal(t, "/v1/api/statistics/users/consumption", cc[0].path)
	assert.Equal(t, map[string]string{"ChargingStationID": "CS-1|CS-2"}, cc[0].params)

	res, err = src.Load(context.Background(), dao.Query{Sorting: []dao.Sorting{{Field: "key", Desc: true}}})
	require.NoError(t, err)
	require.Len(t, res.Result, 2)
	assert.Equal(t, "CS-2", res.Result[0].Key)
	assert.Equal(t, "/v1/api/statistics/charging-stations/consumption", conn.recorded()[1].path)
}

func TestStatisticsExport(t *testing.T) {
	conn := fakeConn{dflt: reply{body: consumption}}
	p := fakePrompter{}
	exp := fakeExporter{}
	d := deps(t, &conn, &p, authorizer(t, dao.RoleBasic, nil))
	d.Exporter = &exp
	src := resource.NewStatistics(d)

	require.Equal(t, []action.ID{action.Export}, action.IDs(src.Actions()))
	_, err := src.Load(context.Background(), dao.Query{Paging: dao.Paging{Size: 1}})
	require.NoError(t, err)
	require.NoError(t, src.ActionTriggered(context.Background(), action.NewExport(), &refresher{}))

	assert.Equal(t, "consumption", exp.name)
	assert.Len(t, exp.header, 14)
	assert.Equal(t, "NAME", exp.header[0])
	assert.Equal(t, "Jan", exp.header[1])
	assert.Equal(t, "TOTAL", exp.header[13])
	require.Len(t, exp.rows, 2)
	assert.Equal(t, "CS-1", exp.rows[0][0])
	assert.Equal(t, "12.50", exp.rows[0][13])
	assert.Equal(t, []string{"Statistics exported to /tmp/consumption.csv"}, p.flashes)
}

func TestStatisticsExportKeepsLatestLoad(t *testing.T) {
	hold := make(chan struct{})
	conn := fakeConn{
		queue: []reply{{body: `[{"month":0,"CS-OLD":1}]`, hold: hold}},
		dflt:  reply{body: consumption},
	}
	exp := fakeExporter{}
	d := deps(t, &conn, &fakePrompter{}, authorizer(t, dao.RoleAdmin, nil))
	d.Exporter = &exp
	src := resource.NewStatistics(d)

	done := make(chan error, 1)
	go func() {
		_, err := src.Load(context.Background(), dao.Query{})
		done <- err
	}()
	require.Eventually(t, func() bool { return len(conn.recorded()) == 1 }, time.Second, time.Millisecond)

	_, err := src.Load(context.Background(), dao.Query{})
	require.NoError(t, err)
	close(hold)
	require.NoError(t, <-done)

	require.NoError(t, src.ActionTriggered(context.Background(), action.NewExport(), &refresher{}))
	require.Len(t, exp.rows, 2)
	assert.Equal(t, "CS-1", exp.rows[0][0])
	assert.Equal(t, "CS-2", exp.rows[1][0])
}

func TestStatisticsExportSkipsCanceledLoad(t *testing.T) {
	conn := fakeConn{dflt: reply{body: consumption}}
	exp := fakeExporter{}
	d := deps(t, &conn, &fakePrompter{}, authorizer(t, dao.RoleAdmin, nil))
	d.Exporter = &exp
	src := resource.NewStatistics(d)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := src.Load(ctx, dao.Query{})
	require.NoError(t, err)

	require.NoError(t, src.ActionTriggered(context.Background(), action.NewExport(), &refresher{}))
	assert.Empty(t, exp.rows)
}

func TestStatisticsFilters(t *testing.T) {
	src := resource.NewStatistics(deps(t, &fakeConn{}, &fakePrompter{}, authorizer(t, dao.RoleBasic, nil)))

	ids := make([]string, 0)
	for _, f := range src.Filters() {
		ids = append(ids, f.ID())
	}
	assert.Equal(t, []string{"groupBy", "dateRange", "charger"}, ids)
	assert.Empty(t, src.Actions())
}
