package engine

import (
	"math"
	"time"

	"github.com/emiliopalmerini/polymer-explorer/internal/domain"
	"github.com/emiliopalmerini/polymer-explorer/internal/util"
)

// RangeGroup is one half-open bucket [Low, High) and the experiments inside it.
type RangeGroup struct {
	Label string   `json:"label"`
	Low   float64  `json:"low"`
	High  float64  `json:"high"`
	IDs   []string `json:"ids"`
}

// RangeGroups holds the buckets of one property in boundary order.
type RangeGroups struct {
	Property string       `json:"property"`
	Groups   []RangeGroup `json:"groups"`
}

// ByLabel returns the buckets keyed by label. Buckets sharing a label are merged.
func (g RangeGroups) ByLabel() map[string][]string {
	out := make(map[string][]string, len(g.Groups))
	for _, grp := range g.Groups {
		out[grp.Label] = append(out[grp.Label], grp.IDs...)
	}
	return out
}

// Total returns the number of experiments placed in any bucket.
func (g RangeGroups) Total() int {
	n := 0
	for _, grp := range g.Groups {
		n += len(grp.IDs)
	}
	return n
}

// GroupByRanges buckets experiments by property using consecutive boundary
// pairs. Bucket i covers [boundaries[i], boundaries[i+1]); values outside every
// bucket are left out. Fewer than two boundaries yield no buckets.
// An experiment lands in the first bucket that covers it, so overlapping or
// unsorted boundaries never place it twice.
func (e *Engine) GroupByRanges(property string, boundaries []float64) (RangeGroups, error) {
	start := time.Now()
	groups, err := e.groupByRanges(property, boundaries)
	e.observe("group_by_ranges", start, groups.Total(), err)
	return groups, err
}

func (e *Engine) groupByRanges(property string, boundaries []float64) (RangeGroups, error) {
	p, err := e.ds.Schema().Lookup(property)
	if err != nil {
		return RangeGroups{}, err
	}

	result := RangeGroups{Property: property, Groups: []RangeGroup{}}
	for i := 0; i+1 < len(boundaries); i++ {
		lo, hi := boundaries[i], boundaries[i+1]
		result.Groups = append(result.Groups, RangeGroup{
			Label: util.FormatBound(lo) + "-" + util.FormatBound(hi),
			Low:   lo,
			High:  hi,
			IDs:   []string{},
		})
	}

	for _, exp := range e.ds.Experiments() {
		v := exp.Value(p)
		for i := range result.Groups {
			g := &result.Groups[i]
			if v >= g.Low && v < g.High {
				g.IDs = append(g.IDs, exp.ID)
				break
			}
		}
	}
	return result, nil
}

// MaxBuckets bounds the bucket count accepted by EvenBoundaries.
const MaxBuckets = 1000

// EvenBoundaries splits r into n equal buckets, returning n+1 boundaries.
// The last boundary is nudged past r.Max so the maximum lands in the final bucket.
// n outside [1, MaxBuckets] yields nil.
func EvenBoundaries(r domain.Range, n int) []float64 {
	if n < 1 || n > MaxBuckets {
		return nil
	}
	step := r.Span() / float64(n)
	out := make([]float64, n+1)
	for i := range out {
		out[i] = r.Min + step*float64(i)
	}
	out[n] = nextAbove(r.Max)
	return out
}

func nextAbove(v float64) float64 {
	return math.Nextafter(v, math.Inf(1))
}
