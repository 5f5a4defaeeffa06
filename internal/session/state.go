// Package session holds the per-session view state a client builds up while
// browsing: the selected title, its recommendations, the trailer being shown
// and the reviews of the selection. It is loaded per request and saved back
// after a transition.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/temcen/cineai/pkg/models"
)

type State struct {
	ID              uuid.UUID                 `json:"id"`
	Owner           string                    `json:"owner"`
	Guest           bool                      `json:"guest"`
	SelectedTitle   string                    `json:"selected_title,omitempty"`
	Recommendations []models.RecommendedMovie `json:"recommendations,omitempty"`
	TrailerToShow   string                    `json:"trailer_to_show,omitempty"`
	Reviews         []string                  `json:"reviews,omitempty"`
	Sentiment       *models.SentimentReport   `json:"sentiment,omitempty"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

// New returns the empty state of a fresh session.
func New(identity models.Identity) *State {
	return &State{
		ID:        identity.SessionID,
		Owner:     identity.OwnerKey(),
		Guest:     identity.Guest,
		UpdatedAt: time.Now().UTC(),
	}
}

// SelectTitle changes the current selection. Results computed for a
// different title no longer apply and are cleared.
func (s *State) SelectTitle(title string) {
	if title != s.SelectedTitle {
		s.Recommendations = nil
		s.Reviews = nil
		s.Sentiment = nil
		s.TrailerToShow = ""
	}
	s.SelectedTitle = title
	s.touch()
}

// SetRecommendations records the result of a recommendation request, which
// also selects its query title.
func (s *State) SetRecommendations(result *models.RecommendationResult) {
	s.SelectTitle(result.Query)
	s.Recommendations = result.Movies
	s.Reviews = result.Reviews
	s.Sentiment = result.Sentiment
	s.touch()
}

func (s *State) ShowTrailer(url string) {
	s.TrailerToShow = url
	s.touch()
}

// HasRecommendations reports whether results for the selected title are held.
func (s *State) HasRecommendations() bool {
	return s.SelectedTitle != "" && len(s.Recommendations) > 0
}

func (s *State) touch() {
	s.UpdatedAt = time.Now().UTC()
}
