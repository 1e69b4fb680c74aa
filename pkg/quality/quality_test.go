package quality

import (
	"slices"
	"testing"

	"github.com/matzehuels/tmdlayout/pkg/model"
)

func box(name string, x, y float64) model.Position {
	return model.Position{Table: name, X: x, Y: y, Width: 200, Height: 180}
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name        string
		positions   []model.Position
		total       int
		overlapping int
		spacing     float64
		score       float64
		rating      Rating
	}{
		{
			name:      "two apart",
			positions: []model.Position{box("A", 0, 0), box("B", 600, 0)},
			total:     2,
			spacing:   600,
			// 40 + 30 + 100*0.1
			score:  80,
			rating: RatingExcellent,
		},
		{
			name:        "overlapping",
			positions:   []model.Position{box("A", 0, 0), box("B", 100, 0)},
			total:       2,
			overlapping: 2,
			spacing:     100,
			// 40 - 30 + 10 + 80*0.1
			score:  28,
			rating: RatingPoor,
		},
		{
			name:      "half missing",
			positions: []model.Position{box("A", 0, 0), box("B", 300, 400)},
			total:     4,
			spacing:   500,
			// 20 + 25 + 50*0.1
			score:  50,
			rating: RatingFair,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Analyze(tt.positions, tt.total, 1400, 900)
			if a.OverlappingTables != tt.overlapping {
				t.Errorf("OverlappingTables = %d, want %d", a.OverlappingTables, tt.overlapping)
			}
			if a.AverageSpacing != tt.spacing {
				t.Errorf("AverageSpacing = %v, want %v", a.AverageSpacing, tt.spacing)
			}
			if a.Score != tt.score || a.Rating != tt.rating {
				t.Errorf("Score = %v (%s), want %v (%s)", a.Score, a.Rating, tt.score, tt.rating)
			}
			if len(a.Recommendations) == 0 {
				t.Error("no recommendations")
			}
		})
	}
}

func TestAnalyzeRecommendations(t *testing.T) {
	a := Analyze([]model.Position{box("A", 0, 0)}, 3, 100, 100)
	want := []string{
		"Increase spacing between tables for better readability",
		"Position 2 unpositioned tables",
		"Rerun the layout to group tables by category",
	}
	if !slices.Equal(a.Recommendations, want) {
		t.Errorf("Recommendations = %q", a.Recommendations)
	}
	if a.OutsideCanvas != 1 {
		t.Errorf("OutsideCanvas = %d", a.OutsideCanvas)
	}
}

func TestRatingFor(t *testing.T) {
	tests := []struct {
		score float64
		want  Rating
	}{
		{100, RatingExcellent}, {80, RatingExcellent}, {79.9, RatingGood},
		{60, RatingGood}, {40, RatingFair}, {20, RatingPoor}, {19.9, RatingVeryPoor}, {0, RatingVeryPoor},
	}
	for _, tt := range tests {
		if got := RatingFor(tt.score); got != tt.want {
			t.Errorf("RatingFor(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
