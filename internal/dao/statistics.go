package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/evcon/evcon/internal/filter"
)

// StatGroup selects how consumption statistics are broken down.
type StatGroup string

const (
	StatByChargingStation StatGroup = "charging-stations"
	StatByUser            StatGroup = "users"
)

// ConsumptionStat holds the consumption in kWh of one month, per charging station or user.
type ConsumptionStat struct {
	Month  int
	Values map[string]float64
}

// UnmarshalJSON decodes rows shaped like {"month":0,"CS-1":12.5,"CS-2":3}.
func (c *ConsumptionStat) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	c.Values = make(map[string]float64, len(raw))
	for k, v := range raw {
		if k == "month" {
			if err := json.Unmarshal(v, &c.Month); err != nil {
				return fmt.Errorf("month: %w", err)
			}
			continue
		}
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		c.Values[k] = f
	}

	return nil
}

// Statistics accesses consumption statistics.
type Statistics struct {
	factory Factory
	path    string
}

// NewStatistics returns the statistics accessor.
func NewStatistics(f Factory) *Statistics {
	m, _ := MetaFor(StatisticRID)
	return &Statistics{factory: f, path: m.Path}
}

// Consumption fetches the monthly consumption matching the filters.
func (s *Statistics) Consumption(ctx context.Context, group StatGroup, ff filter.Values) ([]ConsumptionStat, error) {
	var out []ConsumptionStat
	if err := s.factory.Client().Get(ctx, s.path+"/"+string(group)+"/consumption", ff, &out); err != nil {
		return nil, fmt.Errorf("load %s consumption: %w", group, err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })

	return out, nil
}

// StatTotals summarises consumption statistics.
type StatTotals struct {
	Keys     []string
	PerMonth map[int]float64
	PerKey   map[string]float64
	Total    float64
}

// Totals sums statistics per month, per key and overall.
func Totals(ss []ConsumptionStat) StatTotals {
	t := StatTotals{
		PerMonth: make(map[int]float64),
		PerKey:   make(map[string]float64),
	}
	for _, s := range ss {
		for k, v := range s.Values {
			t.PerMonth[s.Month] += v
			t.PerKey[k] += v
			t.Total += v
		}
	}
	t.Keys = make([]string, 0, len(t.PerKey))
	for k := range t.PerKey {
		t.Keys = append(t.Keys, k)
	}
	sort.Strings(t.Keys)

	return t
}
