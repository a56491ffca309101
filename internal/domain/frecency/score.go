// Package frecency computes frequency/recency ranking scores for history
// entries. The scoring function is pure: given the same inputs and the same
// clock instant it always returns the same value.
package frecency

import (
	"math"
	"time"
)

// Visit-type weights. A visit where the user typed the URL directly counts
// more than a click-through; the bookmark weight exists for callers that
// score a visit by declared type rather than by typed/clicked ratio.
const (
	TypedWeight    = 100.0
	ClickedWeight  = 50.0
	BookmarkWeight = 75.0
)

// halfLifeDays controls the exponential decay: a score roughly halves every
// halfLifeDays days since the last visit.
const halfLifeDays = 7.0

var lambda = math.Ln2 / halfLifeDays

// Score computes the frecency score for a history entry.
//
//	score = visitWeight * visitCount * e^(-lambda * daysSinceLastVisit)
//
// visitWeight is the visit-count-weighted blend of the typed and clicked
// weights, proportional to the fraction of visits that were typed. Elapsed
// time is continuous (fractional days), evaluated against now.
func Score(visitCount, typedCount int64, lastVisited, now time.Time) float64 {
	weight := ClickedWeight
	if visitCount > 0 {
		ratio := float64(typedCount) / float64(visitCount)
		weight = ratio*TypedWeight + (1-ratio)*ClickedWeight
	}

	days := now.Sub(lastVisited).Hours() / 24
	return weight * float64(visitCount) * math.Exp(-lambda*days)
}

// ScoreByType computes a score for a single visit of a declared type
// ("typed", "bookmark", anything else counts as clicked).
func ScoreByType(visitType string, lastVisited, now time.Time) float64 {
	weight := ClickedWeight
	switch visitType {
	case "typed":
		weight = TypedWeight
	case "bookmark":
		weight = BookmarkWeight
	}
	days := now.Sub(lastVisited).Hours() / 24
	return weight * math.Exp(-lambda*days)
}
