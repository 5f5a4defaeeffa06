package models

import "time"

// Recommendation is a single ranked neighbour of the query title.
type Recommendation struct {
	Title    string  `json:"title"`
	MovieID  int64   `json:"movie_id"`
	Score    float64 `json:"score"`
	Position int     `json:"position"`
}

// RecommendedMovie is a Recommendation enriched with poster art.
type RecommendedMovie struct {
	Recommendation
	PosterURL string `json:"poster_url"`
	HasPoster bool   `json:"has_poster"`
}

type RecommendationResult struct {
	Query       string             `json:"query"`
	Movies      []RecommendedMovie `json:"movies"`
	Reviews     []string           `json:"reviews,omitempty"`
	Sentiment   *SentimentReport   `json:"sentiment,omitempty"`
	GeneratedAt time.Time          `json:"generated_at"`
	CacheHit    bool               `json:"cache_hit"`
}

type ReviewsResponse struct {
	Title     string           `json:"title"`
	Reviews   []string         `json:"reviews"`
	Sentiment *SentimentReport `json:"sentiment,omitempty"`
}
