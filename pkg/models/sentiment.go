package models

type Verdict string

const (
	VerdictGood    Verdict = "GOOD"
	VerdictBad     Verdict = "BAD"
	VerdictNeutral Verdict = "NEUTRAL"
)

type ReviewSentiment struct {
	Text     string  `json:"text"`
	Polarity float64 `json:"polarity"`
	Verdict  Verdict `json:"verdict"`
}

type SentimentReport struct {
	Reviews         []ReviewSentiment `json:"reviews"`
	AveragePolarity float64           `json:"average_polarity"`
	OverallVerdict  Verdict           `json:"overall_verdict"`
}
