package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"
)

// typographic apostrophes are folded to ASCII so contractions such as
// "isn’t" still count as negations.
var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "ʼ", "'")

// VaderAnalyzer scores text with the VADER lexicon and rules. It is safe for
// concurrent use; the lexicon is read-only after construction.
type VaderAnalyzer struct {
	sia *govader.SentimentIntensityAnalyzer
}

func NewVaderAnalyzer() *VaderAnalyzer {
	return &VaderAnalyzer{sia: govader.NewSentimentIntensityAnalyzer()}
}

// Polarity returns VADER's compound score.
func (a *VaderAnalyzer) Polarity(text string) float64 {
	return a.sia.PolarityScores(apostrophes.Replace(text)).Compound
}
