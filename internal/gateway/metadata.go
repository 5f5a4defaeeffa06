package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/temcen/cineai/pkg/models"
)

// Trending windows accepted by TMDB.
const (
	WindowDay  = "day"
	WindowWeek = "week"
)

const youtubeWatchURL = "https://www.youtube.com/watch?v="

type movieDetails struct {
	ID         int64   `json:"id"`
	PosterPath *string `json:"poster_path"`
}

type searchResponse struct {
	Results []struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	} `json:"results"`
}

type videosResponse struct {
	Results []struct {
		Key  string `json:"key"`
		Site string `json:"site"`
		Type string `json:"type"`
	} `json:"results"`
}

type reviewsResponse struct {
	Results []struct {
		Author  string `json:"author"`
		Content string `json:"content"`
	} `json:"results"`
}

type trendingResponse struct {
	Results []struct {
		ID          int64   `json:"id"`
		Title       string  `json:"title"`
		PosterPath  *string `json:"poster_path"`
		VoteAverage float64 `json:"vote_average"`
	} `json:"results"`
}

// PosterURL returns the w500 poster for a TMDB movie id. The second result is
// false when TMDB has no poster or could not be reached.
func (c *Client) PosterURL(ctx context.Context, movieID int64) (string, bool) {
	cacheKey := fmt.Sprintf("tmdb:poster:%d", movieID)
	if c.cache != nil {
		cached, err := c.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			cacheOperations.WithLabelValues("hit").Inc()
			return cached, cached != ""
		}
		if !errors.Is(err, redis.Nil) {
			c.logger.WithError(err).Debug("Poster cache read failed")
		}
		cacheOperations.WithLabelValues("miss").Inc()
	}

	params := url.Values{}
	params.Set("language", "en-US")
	body, err := c.get(ctx, "movie", "/movie/"+strconv.FormatInt(movieID, 10), params)
	if err != nil {
		c.degrade(ctx, err, logrus.Fields{"movie_id": movieID, "lookup": "poster"})
		return "", false
	}

	var details movieDetails
	if err := json.Unmarshal(body, &details); err != nil {
		c.degrade(ctx, err, logrus.Fields{"movie_id": movieID, "lookup": "poster"})
		return "", false
	}

	poster := ""
	if details.PosterPath != nil && *details.PosterPath != "" {
		poster = c.imageBaseURL + trimSlash(*details.PosterPath)
	}

	// A missing poster is a real answer and is cached like one.
	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, poster, c.cacheTTL).Err(); err != nil {
			c.logger.WithError(err).Debug("Poster cache write failed")
		}
	}
	return poster, poster != ""
}

// TrailerURL returns the first YouTube trailer for the best search match of
// title.
func (c *Client) TrailerURL(ctx context.Context, title string) (string, bool) {
	movieID, ok := c.searchMovieID(ctx, title)
	if !ok {
		return "", false
	}

	body, err := c.get(ctx, "videos", fmt.Sprintf("/movie/%d/videos", movieID), nil)
	if err != nil {
		c.degrade(ctx, err, logrus.Fields{"title": title, "lookup": "trailer"})
		return "", false
	}

	var videos videosResponse
	if err := json.Unmarshal(body, &videos); err != nil {
		c.degrade(ctx, err, logrus.Fields{"title": title, "lookup": "trailer"})
		return "", false
	}

	for _, v := range videos.Results {
		if v.Type == "Trailer" && v.Site == "YouTube" && v.Key != "" {
			return youtubeWatchURL + v.Key, true
		}
	}
	return "", false
}

// Reviews returns up to limit review bodies for the best search match of
// title. The result is never nil.
func (c *Client) Reviews(ctx context.Context, title string, limit int) []string {
	out := []string{}
	if limit <= 0 {
		return out
	}

	movieID, ok := c.searchMovieID(ctx, title)
	if !ok {
		return out
	}

	body, err := c.get(ctx, "reviews", fmt.Sprintf("/movie/%d/reviews", movieID), nil)
	if err != nil {
		c.degrade(ctx, err, logrus.Fields{"title": title, "lookup": "reviews"})
		return out
	}

	var reviews reviewsResponse
	if err := json.Unmarshal(body, &reviews); err != nil {
		c.degrade(ctx, err, logrus.Fields{"title": title, "lookup": "reviews"})
		return out
	}

	for _, r := range reviews.Results {
		if len(out) == limit {
			break
		}
		out = append(out, r.Content)
	}
	return out
}

// Trending returns TMDB's trending movies for window ("day" or "week"), in
// TMDB's order. Unknown windows fall back to "day".
func (c *Client) Trending(ctx context.Context, window string) []models.TrendingMovie {
	if window != WindowWeek {
		window = WindowDay
	}

	out := []models.TrendingMovie{}
	body, err := c.get(ctx, "trending", "/trending/movie/"+window, nil)
	if err != nil {
		c.degrade(ctx, err, logrus.Fields{"window": window, "lookup": "trending"})
		return out
	}

	var trending trendingResponse
	if err := json.Unmarshal(body, &trending); err != nil {
		c.degrade(ctx, err, logrus.Fields{"window": window, "lookup": "trending"})
		return out
	}

	for _, m := range trending.Results {
		movie := models.TrendingMovie{ID: m.ID, Title: m.Title, Rating: m.VoteAverage}
		if m.PosterPath != nil && *m.PosterPath != "" {
			poster := c.imageBaseURL + trimSlash(*m.PosterPath)
			movie.PosterURL = &poster
		}
		out = append(out, movie)
	}
	return out
}

func (c *Client) searchMovieID(ctx context.Context, title string) (int64, bool) {
	params := url.Values{}
	params.Set("query", title)
	body, err := c.get(ctx, "search", "/search/movie", params)
	if err != nil {
		c.degrade(ctx, err, logrus.Fields{"title": title, "lookup": "search"})
		return 0, false
	}

	var search searchResponse
	if err := json.Unmarshal(body, &search); err != nil {
		c.degrade(ctx, err, logrus.Fields{"title": title, "lookup": "search"})
		return 0, false
	}
	if len(search.Results) == 0 {
		return 0, false
	}
	return search.Results[0].ID, true
}

func trimSlash(p string) string {
	for len(p) > 0 && p[0] == '/' {
		p = p[1:]
	}
	return p
}
