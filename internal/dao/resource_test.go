package dao_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcon/evcon/internal/central"
	"github.com/evcon/evcon/internal/dao"
)

type call struct {
	method, path string
	params       map[string]string
	body         any
}

type fakeConn struct {
	calls []call
	reply string
	err   error
}

var _ central.Connection = (*fakeConn)(nil)

func (f *fakeConn) Config() *central.ClientConfig          { return &central.ClientConfig{Tenant: "t1"} }
func (f *fakeConn) ConnectionOK() bool                     { return true }
func (f *fakeConn) CheckConnectivity(context.Context) bool { return true }

func (f *fakeConn) Get(_ context.Context, path string, params map[string]string, out any) error {
	f.calls = append(f.calls, call{method: "GET", path: path, params: params})
	return f.answer(out)
}

func (f *fakeConn) Post(_ context.Context, path string, body, out any) error {
	f.calls = append(f.calls, call{method: "POST", path: path, body: body})
	return f.answer(out)
}

func (f *fakeConn) Put(_ context.Context, path string, body, out any) error {
	f.calls = append(f.calls, call{method: "PUT", path: path, body: body})
	return f.answer(out)
}

func (f *fakeConn) Delete(_ context.Context, path string, params map[string]string) error {
	f.calls = append(f.calls, call{method: "DELETE", path: path, params: params})
	return f.err
}

func (f *fakeConn) answer(out any) error {
	if f.err != nil {
		return f.err
	}
	if out == nil || f.reply == "" {
		return nil
	}
	return json.Unmarshal([]byte(f.reply), out)
}

func TestAssetsList(t *testing.T) {
	conn := fakeConn{reply: `{"count":25,"result":[{"id":"a1","name":"Solar","assetType":"PR","dynamicAsset":true}]}`}
	assets := dao.NewAssets(dao.NewFactory(&conn))

	res, err := assets.List(context.Background(), dao.Query{Paging: dao.Paging{Index: 1, Size: 10}})
	require.NoError(t, err)
	assert.Equal(t, 25, res.Count)
	require.Len(t, res.Result, 1)
	assert.Equal(t, "a1", res.Result[0].GetID())
	assert.True(t, res.Result[0].DynamicAsset)

	require.Len(t, conn.calls, 1)
	assert.Equal(t, "/v1/api/assets", conn.calls[0].path)
	assert.Equal(t, "10", conn.calls[0].params["Skip"])
}

func TestResourceErrorsWrapped(t *testing.T) {
	conn := fakeConn{err: &central.HTTPError{Status: central.StatusObjectDoesNotExist}}
	cars := dao.NewCars(dao.NewFactory(&conn))

	err := cars.Delete(context.Background(), "c 1")
	require.Error(t, err)
	assert.Equal(t, central.KindNotFound, central.Classify(err))
	assert.Equal(t, "/v1/api/cars/c%201", conn.calls[0].path)
}

func TestCarsCreateForced(t *testing.T) {
	conn := fakeConn{reply: `{"id":"c9"}`}
	cars := dao.NewCars(dao.NewFactory(&conn))

	id, err := cars.CreateForced(context.Background(), dao.Car{VIN: "VIN1"}, true)
	require.NoError(t, err)
	assert.Equal(t, "c9", id)
	assert.Equal(t, "POST", conn.calls[0].method)
	assert.True(t, conn.calls[0].body.(dao.Car).Forced)
}

func TestCarMakersCached(t *testing.T) {
	conn := fakeConn{reply: `{"count":3,"result":[{"carMaker":"Tesla"},{"carMaker":"audi"},{"carMaker":"BMW"}]}`}
	makers := dao.NewCarMakers(dao.NewFactory(&conn))

	q := dao.Query{Paging: dao.Paging{Size: 50}, Sorting: []dao.Sorting{{Field: "carMaker"}}}
	res, err := makers.List(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []dao.CarMaker{{CarMaker: "BMW"}, {CarMaker: "Tesla"}, {CarMaker: "audi"}}, res.Result)

	_, err = makers.List(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, conn.calls, 1)
}

func TestEntityActions(t *testing.T) {
	conn := fakeConn{}
	f := dao.NewFactory(&conn)
	ctx := context.Background()

	require.NoError(t, dao.NewTransactions(f).Stop(ctx, "42"))
	require.NoError(t, dao.NewRegistrationTokens(f).Revoke(ctx, "rt1"))
	require.NoError(t, dao.NewAssets(f).RetrieveConsumption(ctx, "a1"))

	paths := make([]string, 0, len(conn.calls))
	for _, c := range conn.calls {
		assert.Equal(t, "PUT", c.method)
		paths = append(paths, c.path)
	}
	assert.Equal(t, []string{
		"/v1/api/transactions/42/stop",
		"/v1/api/registration-tokens/rt1/revoke",
		"/v1/api/assets/a1/consumption/retrieve",
	}, paths)
	assert.Equal(t, "t1", f.Tenant())
}
