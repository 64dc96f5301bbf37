package server

import (
	"strings"
	"unicode"

	"github.com/desertthunder/sentix/internal/models"
)

// lexicon scores are in [-1, 1].
var lexicon = map[string]float64{
	"amazing": 0.9, "awesome": 1.0, "best": 1.0, "excellent": 1.0, "fantastic": 0.9,
	"fine": 0.4, "good": 0.7, "great": 0.8, "happy": 0.8, "love": 0.5,
	"nice": 0.6, "perfect": 1.0, "pleasant": 0.7, "recommend": 0.3, "wonderful": 1.0,
	"awful": -1.0, "bad": -0.7, "boring": -1.0, "broken": -0.4, "disappointing": -0.6,
	"hate": -0.8, "horrible": -1.0, "poor": -0.4, "slow": -0.3, "terrible": -1.0,
	"ugly": -0.7, "useless": -0.5, "worst": -1.0, "worse": -0.4,
}

var negations = map[string]bool{"not": true, "never": true, "no": true, "isn't": true, "don't": true, "wasn't": true}

// polarity averages the scores of recognized words. A negation halves and flips the next scored word.
func polarity(text string) float64 {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})

	var sum float64
	var n int
	negate := false
	for _, w := range words {
		if negations[w] {
			negate = true
			continue
		}
		score, ok := lexicon[w]
		if !ok {
			continue
		}
		if negate {
			score *= -0.5
			negate = false
		}
		sum += score
		n++
	}

	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// categorize buckets a polarity score.
func categorize(p float64) models.Category {
	switch {
	case p > 0.5:
		return models.VeryPositive
	case p > 0:
		return models.Positive
	case p == 0:
		return models.Neutral
	case p > -0.5:
		return models.Negative
	default:
		return models.VeryNegative
	}
}
