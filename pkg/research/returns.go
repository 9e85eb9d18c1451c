// Package research screens a universe of normalized quotes for
// cointegrated instrument pairs.
package research

import (
	"math"
	"sort"
	"time"

	"github.com/nketiah1717/openminerals/pkg/marketdata"
)

// ReturnMatrix holds per-instrument log-return series pivoted wide over
// the union of observation timestamps. Gaps are NaN.
type ReturnMatrix struct {
	Timestamps []time.Time
	Columns    []string
	values     map[string][]float64
}

// Series returns the return series for one instrument, NaN-padded to the
// matrix timestamps. The slice must not be modified.
func (m *ReturnMatrix) Series(instrument string) []float64 {
	return m.values[instrument]
}

// BuildReturnMatrix computes log returns of mid prices per instrument and
// pivots them over the union of timestamps. Duplicate (timestamp, id)
// rows are removed first, keeping the first occurrence.
func BuildReturnMatrix(table *marketdata.Table) *ReturnMatrix {
	dedup := table.Deduplicate()

	// Per-instrument mid series in time order.
	type obs struct {
		ts  time.Time
		mid float64
	}
	byInstrument := make(map[string][]obs)
	tsSet := make(map[int64]time.Time)

	for _, q := range dedup.Quotes {
		if !q.HasMid() {
			continue
		}
		byInstrument[q.Instrument] = append(byInstrument[q.Instrument], obs{q.Timestamp, q.Mid})
	}

	// Log return needs the previous observation, so the first row of each
	// instrument yields no value but its timestamp still counts toward
	// the union index (as a gap).
	returns := make(map[string]map[int64]float64, len(byInstrument))
	for id, series := range byInstrument {
		sort.SliceStable(series, func(i, j int) bool {
			return series[i].ts.Before(series[j].ts)
		})

		rets := make(map[int64]float64, len(series))
		for i, o := range series {
			tsSet[o.ts.UnixNano()] = o.ts
			if i == 0 {
				continue
			}
			rets[o.ts.UnixNano()] = math.Log(o.mid) - math.Log(series[i-1].mid)
		}
		returns[id] = rets
	}

	timestamps := make([]time.Time, 0, len(tsSet))
	for _, ts := range tsSet {
		timestamps = append(timestamps, ts)
	}
	sort.Slice(timestamps, func(i, j int) bool {
		return timestamps[i].Before(timestamps[j])
	})

	columns := make([]string, 0, len(returns))
	for id := range returns {
		columns = append(columns, id)
	}
	sort.Strings(columns)

	values := make(map[string][]float64, len(columns))
	for _, id := range columns {
		col := make([]float64, len(timestamps))
		for i, ts := range timestamps {
			if v, ok := returns[id][ts.UnixNano()]; ok {
				col[i] = v
			} else {
				col[i] = math.NaN()
			}
		}
		values[id] = col
	}

	return &ReturnMatrix{
		Timestamps: timestamps,
		Columns:    columns,
		values:     values,
	}
}

// overlap collects the paired observations where both columns are
// non-NaN, preserving time order.
func (m *ReturnMatrix) overlap(a, b string) (x, y []float64) {
	sa := m.values[a]
	sb := m.values[b]
	for i := range m.Timestamps {
		if math.IsNaN(sa[i]) || math.IsNaN(sb[i]) {
			continue
		}
		x = append(x, sa[i])
		y = append(y, sb[i])
	}
	return x, y
}
