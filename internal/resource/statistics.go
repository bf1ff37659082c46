package resource

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/evcon/evcon/internal/action"
	"github.com/evcon/evcon/internal/auth"
	"github.com/evcon/evcon/internal/dao"
	"github.com/evcon/evcon/internal/filter"
	"github.com/evcon/evcon/internal/model"
	"github.com/evcon/evcon/internal/model1"
)

const groupByKey = "GroupBy"

// StatRow is the yearly consumption of one charging station or user, in kWh.
type StatRow struct {
	Key    string
	Months [12]float64
	Total  float64
}

func (s StatRow) GetID() string { return s.Key }

// Pivot turns monthly statistics into one row per key, sorted by key.
func Pivot(ss []dao.ConsumptionStat) []StatRow {
	totals := dao.Totals(ss)
	rows := make([]StatRow, 0, len(totals.Keys))
	index := make(map[string]int, len(totals.Keys))
	for i, k := range totals.Keys {
		rows = append(rows, StatRow{Key: k, Total: totals.PerKey[k]})
		index[k] = i
	}
	for _, s := range ss {
		if s.Month < 0 || s.Month > 11 {
			continue
		}
		for k, v := range s.Values {
			rows[index[k]].Months[s.Month] += v
		}
	}

	return rows
}

// Statistics shows the consumption per month, by charging station or user.
type Statistics struct {
	base
	acc  *dao.Statistics
	mx   sync.Mutex
	seq  uint64
	last []StatRow
}

var _ model.Source[StatRow] = (*Statistics)(nil)

// NewStatistics returns the consumption statistics source.
func NewStatistics(d Deps) *Statistics {
	return &Statistics{base: newBase(d, dao.StatisticRID), acc: dao.NewStatistics(d.Factory)}
}

// Load fetches the whole year and pages it locally, the backend does not page
// statistics. Only the most recent load keeps its rows for the export.
func (s *Statistics) Load(ctx context.Context, q dao.Query) (dao.DataResult[StatRow], error) {
	s.mx.Lock()
	s.seq++
	seq := s.seq
	s.mx.Unlock()

	ff := q.Filters.Clone()
	group := dao.StatGroup(ff[groupByKey])
	if group == "" {
		group = dao.StatByChargingStation
	}
	delete(ff, groupByKey)

	ss, err := s.acc.Consumption(ctx, group, ff)
	if err != nil {
		return dao.DataResult[StatRow]{}, err
	}
	rows := Pivot(ss)
	sortStats(rows, q.Sorting)

	s.mx.Lock()
	if seq == s.seq && ctx.Err() == nil {
		s.last = rows
	}
	s.mx.Unlock()

	res := dao.DataResult[StatRow]{Count: len(rows), Result: []StatRow{}}
	from := min(q.Paging.Skip(), len(rows))
	to := len(rows)
	if q.Paging.Size > 0 {
		to = min(from+q.Paging.Size, len(rows))
	}
	res.Result = append(res.Result, rows[from:to]...)

	return res, nil
}

func statValue(r StatRow, field string) (string, bool) {
	switch field {
	case "key":
		return r.Key, false
	case "total":
		return strconv.FormatFloat(r.Total, 'f', 2, 64), true
	}
	if m, err := strconv.Atoi(field); err == nil && m >= 0 && m < 12 {
		return strconv.FormatFloat(r.Months[m], 'f', 2, 64), true
	}
	return r.Key, false
}

func sortStats(rows []StatRow, ss []dao.Sorting) {
	if len(ss) == 0 {
		return
	}
	field, desc := ss[0].Field, ss[0].Desc
	sort.SliceStable(rows, func(i, j int) bool {
		v1, num := statValue(rows[i], field)
		v2, _ := statValue(rows[j], field)
		if desc {
			return model1.Less(num, rows[j].Key, rows[i].Key, v2, v1)
		}
		return model1.Less(num, rows[i].Key, rows[j].Key, v1, v2)
	})
}

func (s *Statistics) TableDef() model.TableDef {
	return model.TableDef{ID: dao.StatisticRID, Title: "Consumption (kWh)"}
}

func kWh(v float64) string {
	if v == 0 {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func (s *Statistics) Columns() []model.ColumnDef[StatRow] {
	cc := []model.ColumnDef[StatRow]{
		{ID: "key", Name: "NAME", Sortable: true, Value: func(r StatRow) string { return r.Key }},
	}
	for m := range 12 {
		cc = append(cc, model.ColumnDef[StatRow]{
			ID:       strconv.Itoa(m),
			Name:     time.Month(m + 1).String()[:3],
			Sortable: true,
			Capacity: true,
			Value:    func(r StatRow) string { return kWh(r.Months[m]) },
		})
	}

	return append(cc, model.ColumnDef[StatRow]{
		ID: "total", Name: "TOTAL", Sortable: true, Sorted: true, Direction: model1.SortDesc, Capacity: true,
		Value: func(r StatRow) string { return kWh(r.Total) },
	})
}

func (s *Statistics) Filters() []filter.Filter {
	group := filter.NewDropdown("groupBy", groupByKey, "Group by", []filter.Item{
		{Key: string(dao.StatByChargingStation), Value: "Charging stations"},
		{Key: string(dao.StatByUser), Value: "Users"},
	}, string(dao.StatByChargingStation))

	ff := []filter.Filter{group, filter.NewDateRange(s.Clock)}
	if s.isOrganization() {
		ff = append(ff, filter.NewSite(), filter.NewSiteArea())
	}
	ff = append(ff, filter.NewChargingStation())
	if s.Auth.IsAdmin() || s.Auth.HasSitesAdminRights() {
		ff = append(ff, filter.NewUser(s.Auth.SitesAdmin()))
	}

	return ff
}

func (s *Statistics) Actions() []action.Def {
	if s.Exporter == nil || !s.Auth.Can(dao.StatisticRID, auth.ActExport) {
		return nil
	}
	return []action.Def{action.NewExport()}
}

func (s *Statistics) ActionsRight() []action.Def {
	return []action.Def{action.NewRefresh()}
}

func (s *Statistics) RowActions(StatRow) []action.Def { return nil }

// ActionTriggered exports the rows of the last load, every page included.
func (s *Statistics) ActionTriggered(ctx context.Context, def action.Def, _ model.Refresher) error {
	switch def.ID {
	case action.Export:
		header, rows := s.table()
		loc, err := s.Exporter.Export(ctx, "consumption", header, rows)
		if err != nil {
			return s.fail(err, "Unable to export the statistics")
		}
		s.Prompter.Flash(LevelInfo, fmt.Sprintf("Statistics exported to %s", loc))
	}

	return nil
}

func (s *Statistics) table() ([]string, [][]string) {
	cc := s.Columns()
	header := make([]string, 0, len(cc))
	for _, c := range cc {
		header = append(header, c.Name)
	}

	s.mx.Lock()
	defer s.mx.Unlock()

	rows := make([][]string, 0, len(s.last))
	for _, r := range s.last {
		row := make([]string, 0, len(cc))
		row = append(row, r.Key)
		for _, v := range r.Months {
			row = append(row, strconv.FormatFloat(v, 'f', 2, 64))
		}
		rows = append(rows, append(row, strconv.FormatFloat(r.Total, 'f', 2, 64)))
	}

	return header, rows
}

func (s *Statistics) RowActionTriggered(context.Context, action.Def, StatRow, model.Refresher) error {
	return nil
}
