package optimizer

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/stitts-dev/nfl-stacker/internal/models"
)

// DefaultSelectCount is the classic max-entry contest size.
const DefaultSelectCount = 150

// SelectTop orders lineups by score descending, keeps at most n and assigns ranks
// starting at 1. Equal scores keep their acceptance order. The input is not modified.
func SelectTop(lineups []models.RankedLineup, n int) []models.RankedLineup {
	sorted := make([]models.RankedLineup, len(lineups))
	copy(sorted, lineups)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	for i := range sorted {
		sorted[i].Rank = i + 1
	}
	return sorted
}

// LineupSummary describes the spread of a lineup set.
type LineupSummary struct {
	Count           int     `json:"count"`
	MeanScore       float64 `json:"mean_score"`
	StdDevScore     float64 `json:"stddev_score"`
	MinScore        float64 `json:"min_score"`
	MaxScore        float64 `json:"max_score"`
	MeanSalary      float64 `json:"mean_salary"`
	MeanOwnership   float64 `json:"mean_ownership"`
	MedianOwnership float64 `json:"median_ownership"`
	MeanProjection  float64 `json:"mean_projection"`
}

// Summarize computes score, salary and ownership statistics.
func Summarize(lineups []models.RankedLineup) LineupSummary {
	summary := LineupSummary{Count: len(lineups)}
	if len(lineups) == 0 {
		return summary
	}

	scores := make([]float64, len(lineups))
	salaries := make([]float64, len(lineups))
	owns := make([]float64, len(lineups))
	projections := make([]float64, len(lineups))
	for i, l := range lineups {
		scores[i] = l.Score
		salaries[i] = float64(l.TotalSalary)
		owns[i] = l.TotalOwnership
		projections[i] = l.TotalProjection()
	}

	summary.MeanScore = stat.Mean(scores, nil)
	if len(scores) > 1 {
		summary.StdDevScore = stat.StdDev(scores, nil)
	}
	summary.MeanSalary = stat.Mean(salaries, nil)
	summary.MeanOwnership = stat.Mean(owns, nil)
	summary.MeanProjection = stat.Mean(projections, nil)

	sort.Float64s(owns)
	summary.MedianOwnership = stat.Quantile(0.5, stat.Empirical, owns, nil)

	sort.Float64s(scores)
	summary.MinScore = scores[0]
	summary.MaxScore = scores[len(scores)-1]
	return summary
}
