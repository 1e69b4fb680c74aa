// Package quality grades a computed layout.
//
// The grade combines how many tables are positioned, how many overlap and
// how far apart tables are on average into a score from 0 to 100:
//
//	a := quality.Analyze(res.Positions, len(res.Categorization.Placed()), 1400, 900)
//	fmt.Println(a.Score, a.Rating)
package quality

import (
	"fmt"
	"math"

	"github.com/matzehuels/tmdlayout/pkg/model"
)

// Rating is the verbal grade of a score.
type Rating string

// Ratings, best first.
const (
	RatingExcellent Rating = "EXCELLENT"
	RatingGood      Rating = "GOOD"
	RatingFair      Rating = "FAIR"
	RatingPoor      Rating = "POOR"
	RatingVeryPoor  Rating = "VERY POOR"
)

// Spacing bands for the average distance between table origins.
const (
	cramped     = 200
	comfortable = 500
	spread      = 1000
	sprawling   = 2000
)

// Analysis is the quality report of a layout.
type Analysis struct {
	TotalTables       int      `json:"total_tables" yaml:"total_tables"`
	PositionedTables  int      `json:"positioned_tables" yaml:"positioned_tables"`
	OverlappingTables int      `json:"overlapping_tables" yaml:"overlapping_tables"`
	OutsideCanvas     int      `json:"tables_outside_canvas" yaml:"tables_outside_canvas"`
	AverageSpacing    float64  `json:"average_spacing" yaml:"average_spacing"`
	Efficiency        float64  `json:"layout_efficiency" yaml:"layout_efficiency"`
	Score             float64  `json:"quality_score" yaml:"quality_score"`
	Rating            Rating   `json:"rating" yaml:"rating"`
	Recommendations   []string `json:"recommendations" yaml:"recommendations"`
}

// Analyze grades positions for a model of total tables. Tables that extend
// beyond the canvas are counted but not penalized.
func Analyze(positions []model.Position, total, canvasWidth, canvasHeight int) Analysis {
	a := Analysis{TotalTables: total, PositionedTables: len(positions)}
	if a.TotalTables < a.PositionedTables {
		a.TotalTables = a.PositionedTables
	}

	overlapping := make(map[string]bool)
	var sum float64
	var pairs int
	for i, p := range positions {
		if p.Right() > float64(canvasWidth) || p.Bottom() > float64(canvasHeight) {
			a.OutsideCanvas++
		}
		for _, q := range positions[i+1:] {
			if p.Overlaps(q) {
				overlapping[p.Table], overlapping[q.Table] = true, true
			}
			sum += math.Hypot(q.X-p.X, q.Y-p.Y)
			pairs++
		}
	}
	a.OverlappingTables = len(overlapping)
	if pairs > 0 {
		a.AverageSpacing = round1(sum / float64(pairs))
	}

	if a.TotalTables > 0 {
		n := float64(a.TotalTables)
		eff := float64(a.PositionedTables) / n * 100
		eff -= float64(a.OverlappingTables) / n * 20
		a.Efficiency = max(0, round1(eff))
	}
	a.Score = score(a)
	a.Rating = RatingFor(a.Score)
	a.Recommendations = recommend(a)
	return a
}

func score(a Analysis) float64 {
	var s float64
	if a.TotalTables > 0 {
		n := float64(a.TotalTables)
		s += float64(a.PositionedTables) / n * 40
		s -= float64(a.OverlappingTables) / n * 30
	}
	switch {
	case a.AverageSpacing > spread:
		s += 20
	case a.AverageSpacing > comfortable:
		s += 30
	case a.AverageSpacing > cramped:
		s += 25
	default:
		s += 10
	}
	s += a.Efficiency * 0.1
	return math.Max(0, math.Min(100, round1(s)))
}

// RatingFor returns the rating of score.
func RatingFor(score float64) Rating {
	switch {
	case score >= 80:
		return RatingExcellent
	case score >= 60:
		return RatingGood
	case score >= 40:
		return RatingFair
	case score >= 20:
		return RatingPoor
	}
	return RatingVeryPoor
}

func recommend(a Analysis) []string {
	var out []string
	if a.OverlappingTables > 0 {
		out = append(out, "Resolve overlapping tables by adjusting positions")
	}
	if a.AverageSpacing < cramped {
		out = append(out, "Increase spacing between tables for better readability")
	} else if a.AverageSpacing > sprawling {
		out = append(out, "Reduce spacing to make the diagram more compact")
	}
	if missing := a.TotalTables - a.PositionedTables; missing > 0 {
		out = append(out, fmt.Sprintf("Position %d unpositioned tables", missing))
	}
	if a.Efficiency < 50 {
		out = append(out, "Rerun the layout to group tables by category")
	}
	if len(out) == 0 {
		out = append(out, "Layout looks good")
	}
	return out
}

func round1(f float64) float64 { return math.Round(f*10) / 10 }
