// Package sentiment turns critic reviews into polarity verdicts.
package sentiment

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/temcen/cineai/pkg/models"
)

// Verdict thresholds on compound polarity.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

var verdictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cineai_review_verdicts_total",
	Help: "Per-review sentiment verdicts",
}, []string{"verdict"})

// PolarityAnalyzer returns a compound polarity in [-1, 1] for one text.
type PolarityAnalyzer interface {
	Polarity(text string) float64
}

// Scorer applies verdict thresholds to an analyzer's polarities.
type Scorer struct {
	analyzer PolarityAnalyzer
}

// NewScorer returns a Scorer backed by analyzer, or by VADER when analyzer
// is nil.
func NewScorer(analyzer PolarityAnalyzer) *Scorer {
	if analyzer == nil {
		analyzer = NewVaderAnalyzer()
	}
	return &Scorer{analyzer: analyzer}
}

// Score rates every review and the batch as a whole. It returns nil for an
// empty batch.
func (s *Scorer) Score(reviews []string) *models.SentimentReport {
	if len(reviews) == 0 {
		return nil
	}

	report := &models.SentimentReport{
		Reviews: make([]models.ReviewSentiment, 0, len(reviews)),
	}

	total := 0.0
	for _, text := range reviews {
		polarity := clamp(s.analyzer.Polarity(text))
		verdict := VerdictFor(polarity)
		verdictsTotal.WithLabelValues(string(verdict)).Inc()

		report.Reviews = append(report.Reviews, models.ReviewSentiment{
			Text:     text,
			Polarity: polarity,
			Verdict:  verdict,
		})
		total += polarity
	}

	report.AveragePolarity = total / float64(len(reviews))
	report.OverallVerdict = VerdictFor(report.AveragePolarity)
	return report
}

// VerdictFor maps a polarity to GOOD, BAD or NEUTRAL.
func VerdictFor(polarity float64) models.Verdict {
	switch {
	case polarity >= PositiveThreshold:
		return models.VerdictGood
	case polarity <= NegativeThreshold:
		return models.VerdictBad
	default:
		return models.VerdictNeutral
	}
}

func clamp(p float64) float64 {
	if p > 1 {
		return 1
	}
	if p < -1 {
		return -1
	}
	return p
}
