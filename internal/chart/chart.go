// Package chart folds import counts into a fixed, render-ready series.
package chart

import "github.com/desertthunder/sentix/internal/models"

// Slice is one category's entry in a series.
type Slice struct {
	Category models.Category `json:"category"`
	Label    string          `json:"label"`
	Value    int             `json:"value"`
	ColorKey string          `json:"color"`
}

type style struct {
	label string
	color string
}

var styles = map[models.Category]style{
	models.VeryPositive: {label: "Very Positive", color: "#10B981"},
	models.Positive:     {label: "Positive", color: "#34D399"},
	models.Neutral:      {label: "Neutral", color: "#6B7280"},
	models.Negative:     {label: "Negative", color: "#EF4444"},
	models.VeryNegative: {label: "Very Negative", color: "#DC2626"},
}

// Series returns one [Slice] per known category in canonical order, with missing categories as zero.
// counts is never modified and unknown keys are ignored.
func Series(counts models.Counts) []Slice {
	cats := models.Categories()
	out := make([]Slice, 0, len(cats))
	for _, c := range cats {
		s := styles[c]
		out = append(out, Slice{Category: c, Label: s.label, Value: counts.Get(c), ColorKey: s.color})
	}
	return out
}

// Label returns the display name of a category.
func Label(c models.Category) string {
	if s, ok := styles[c]; ok {
		return s.label
	}
	return string(c)
}

// Color returns the hex color of a category, or an empty string for unknown categories.
func Color(c models.Category) string {
	return styles[c].color
}

// Total sums the values of a series.
func Total(series []Slice) int {
	total := 0
	for _, s := range series {
		total += s.Value
	}
	return total
}

// Percent returns the share of total a slice represents, 0 when total is 0.
func Percent(s Slice, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(s.Value) * 100 / float64(total)
}

// Max returns the largest value in a series.
func Max(series []Slice) int {
	m := 0
	for _, s := range series {
		m = max(m, s.Value)
	}
	return m
}
