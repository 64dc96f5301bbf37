package chart

import (
	"testing"

	"github.com/desertthunder/sentix/internal/models"
	"github.com/google/go-cmp/cmp"
)

func TestSeries(t *testing.T) {
	t.Run("canonical order with zeros", func(t *testing.T) {
		series := Series(models.Counts{models.Neutral: 5, models.Positive: 3})

		want := []Slice{
			{Category: models.VeryPositive, Label: "Very Positive", Value: 0, ColorKey: "#10B981"},
			{Category: models.Positive, Label: "Positive", Value: 3, ColorKey: "#34D399"},
			{Category: models.Neutral, Label: "Neutral", Value: 5, ColorKey: "#6B7280"},
			{Category: models.Negative, Label: "Negative", Value: 0, ColorKey: "#EF4444"},
			{Category: models.VeryNegative, Label: "Very Negative", Value: 0, ColorKey: "#DC2626"},
		}
		if diff := cmp.Diff(want, series); diff != "" {
			t.Errorf("Series() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("labels and colors", func(t *testing.T) {
		series := Series(nil)
		colors := []string{"#10B981", "#34D399", "#6B7280", "#EF4444", "#DC2626"}
		labels := []string{"Very Positive", "Positive", "Neutral", "Negative", "Very Negative"}

		for i := range series {
			if series[i].ColorKey != colors[i] {
				t.Errorf("slice %d color = %s, want %s", i, series[i].ColorKey, colors[i])
			}
			if series[i].Label != labels[i] {
				t.Errorf("slice %d label = %s, want %s", i, series[i].Label, labels[i])
			}
		}
	})

	t.Run("nil and empty counts", func(t *testing.T) {
		for _, counts := range []models.Counts{nil, {}} {
			series := Series(counts)
			if len(series) != 5 || Total(series) != 0 {
				t.Errorf("expected five zero slices, got %+v", series)
			}
		}
	})

	t.Run("does not mutate input and ignores unknown keys", func(t *testing.T) {
		counts := models.Counts{models.Neutral: 1, "mixed": 7}
		series := Series(counts)

		if len(counts) != 2 || counts["mixed"] != 7 {
			t.Errorf("input was modified: %v", counts)
		}
		if Total(series) != 1 {
			t.Errorf("expected unknown keys to be ignored, total %d", Total(series))
		}
	})
}

func TestAggregates(t *testing.T) {
	series := Series(models.Counts{models.Positive: 1, models.Neutral: 3})

	if got := Total(series); got != 4 {
		t.Errorf("Total() = %d, want 4", got)
	}
	if got := Max(series); got != 3 {
		t.Errorf("Max() = %d, want 3", got)
	}
	if got := Percent(series[2], 4); got != 75 {
		t.Errorf("Percent() = %v, want 75", got)
	}
	if got := Percent(series[2], 0); got != 0 {
		t.Errorf("Percent() with zero total = %v, want 0", got)
	}
	if Label("mixed") != "mixed" || Color("mixed") != "" {
		t.Error("unknown category should fall back to its key and no color")
	}
}
