// Package curve aggregates leaf-task weights into group and category
// summaries and derives the cumulative plan/actual progress series (the
// S-curve) for a project.
package curve

import (
	"time"

	"tableflip.dev/gantt/pkg/task"
	"tableflip.dev/gantt/pkg/timeutil"
	"tableflip.dev/gantt/pkg/tree"
)

// Basis is the project-wide weighting scheme. It is decided once from the
// full leaf set and applied uniformly: cost when any leaf carries cost,
// duration otherwise.
type Basis string

const (
	BasisCost     Basis = "cost"
	BasisDuration Basis = "duration"
)

// Weights maps leaf task id to its normalized share (0..100) of the
// project.
type Weights map[string]float64

// WeightBasis picks the weighting scheme for the given leaves.
func WeightBasis(leaves []*task.Task) Basis {
	for _, l := range leaves {
		if l.Cost > 0 {
			return BasisCost
		}
	}
	return BasisDuration
}

// LeafWeights computes each leaf's normalized weight. Leaves with
// unparsable plan dates contribute nothing and receive zero weight; they
// stay out of every downstream aggregate.
func LeafWeights(leaves []*task.Task) (Weights, Basis) {
	basis := WeightBasis(leaves)
	w := make(Weights, len(leaves))

	var total float64
	for _, l := range leaves {
		w[l.ID] = 0
		switch basis {
		case BasisCost:
			total += l.Cost
		default:
			if l.HasValidPlan() {
				total += float64(l.Duration())
			}
		}
	}
	if total <= 0 {
		return w, basis
	}
	for _, l := range leaves {
		switch basis {
		case BasisCost:
			w[l.ID] = l.Cost / total * 100
		default:
			if l.HasValidPlan() {
				w[l.ID] = float64(l.Duration()) / total * 100
			}
		}
	}
	return w, basis
}

// Summary is a roll-up over a set of leaves.
type Summary struct {
	Start       task.Date
	End         task.Date
	TotalCost   float64
	TotalWeight float64
	AvgProgress float64
	Leaves      int
}

// summarize folds the leaves into a Summary. weighted selects a
// weight-adjusted progress mean (group roll-ups) instead of a simple mean
// (category summaries).
func summarize(leaves []*task.Task, w Weights, weighted bool) Summary {
	var s Summary
	var progressSum, weightSum float64
	for _, l := range leaves {
		s.TotalCost += l.Cost
		s.TotalWeight += w[l.ID]
		if l.HasValidPlan() {
			if s.Start.IsZero() || l.PlanStart.Before(s.Start.Time) {
				s.Start = l.PlanStart
			}
			if s.End.IsZero() || l.PlanEnd.After(s.End.Time) {
				s.End = l.PlanEnd
			}
		}
		if weighted {
			progressSum += float64(l.Progress) * w[l.ID]
			weightSum += w[l.ID]
		} else {
			progressSum += float64(l.Progress)
			weightSum++
		}
		s.Leaves++
	}
	if weightSum > 0 {
		s.AvgProgress = progressSum / weightSum
	}
	return s
}

// GroupSummary rolls up the leaf descendants of a group task using the
// weight-adjusted progress mean.
func GroupSummary(idx *tree.Index, id string, w Weights) Summary {
	return summarize(idx.LeavesUnder(id), w, true)
}

// CategorySummary folds an explicit leaf set with a simple progress mean.
func CategorySummary(leaves []*task.Task, w Weights) Summary {
	return summarize(leaves, w, false)
}

// ProjectSummary rolls up every leaf in the project, weighted.
func ProjectSummary(idx *tree.Index, w Weights) Summary {
	return summarize(idx.Leaves(), w, true)
}

// Series is the daily cumulative plan/actual progress. Plan covers every
// day in [Start, Start+len(Plan)); Actual is truncated at the latest known
// actual date and is never extrapolated beyond it.
type Series struct {
	Start  time.Time
	Days   []time.Time
	Plan   []float64
	Actual []float64
}

// SCurve builds the cumulative series over [rangeStart, rangeEnd]. refDate
// caps the fallback actual interval for tasks that started but have not
// finished; pass today for live data.
func SCurve(idx *tree.Index, rangeStart, rangeEnd, refDate time.Time) Series {
	days := timeutil.DaysIn(rangeStart, rangeEnd)
	out := Series{Start: timeutil.Midnight(rangeStart), Days: days}
	if len(days) == 0 {
		return out
	}

	leaves := idx.Leaves()
	weights, _ := LeafWeights(leaves)

	plan := make([]float64, len(days))
	actual := make([]float64, len(days))
	lastActual := -1

	spread := func(bucket []float64, from, to time.Time, amount float64) int {
		a := timeutil.DaysBetween(out.Start, from)
		b := timeutil.DaysBetween(out.Start, to)
		if b < a {
			b = a
		}
		perDay := amount / float64(b-a+1)
		hi := -1
		for i := a; i <= b; i++ {
			if i < 0 || i >= len(bucket) {
				continue
			}
			bucket[i] += perDay
			hi = i
		}
		return hi
	}

	for _, l := range leaves {
		w := weights[l.ID]
		if w <= 0 {
			continue
		}
		if l.HasValidPlan() {
			spread(plan, l.PlanStart.Time, l.PlanEnd.Time, w)
		}
		if l.Progress <= 0 {
			continue
		}
		from, to, ok := actualInterval(l, refDate)
		if !ok {
			continue
		}
		if hi := spread(actual, from, to, w*float64(l.Progress)/100); hi > lastActual {
			lastActual = hi
		}
	}

	out.Plan = accumulate(plan)
	if lastActual >= 0 {
		out.Actual = accumulate(actual[:lastActual+1])
	}
	return out
}

// actualInterval resolves the interval actual progress is distributed
// over: actual start through actual end, or through refDate while the task
// is unfinished. Tasks with no actual start fall back to their plan start.
func actualInterval(l *task.Task, refDate time.Time) (from, to time.Time, ok bool) {
	switch {
	case l.ActualStart != nil:
		from = l.ActualStart.Time
	case l.HasValidPlan():
		from = l.PlanStart.Time
	default:
		return time.Time{}, time.Time{}, false
	}
	if l.ActualEnd != nil {
		to = l.ActualEnd.Time
	} else {
		to = timeutil.Midnight(refDate)
	}
	if to.Before(from) {
		to = from
	}
	return from, to, true
}

// accumulate prefix-sums the bucket and clamps to [0, 100]. Contributions
// are non-negative, so the result is monotonically non-decreasing.
func accumulate(bucket []float64) []float64 {
	out := make([]float64, len(bucket))
	sum := 0.0
	for i, v := range bucket {
		sum += v
		if sum > 100 {
			sum = 100
		}
		out[i] = sum
	}
	return out
}
