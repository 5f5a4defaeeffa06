package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/cineai/internal/config"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testConfig(baseURL string) config.TMDBConfig {
	return config.TMDBConfig{
		APIKey:           "test-key",
		BaseURL:          baseURL,
		ImageBaseURL:     "https://img.test/w500/",
		Timeout:          2 * time.Second,
		MaxRetries:       3,
		BackoffFactor:    time.Millisecond,
		BreakerThreshold: 100,
		BreakerTimeout:   time.Minute,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate ...func(*config.TMDBConfig)) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := testConfig(srv.URL)
	for _, m := range mutate {
		m(&cfg)
	}
	return NewClient(cfg, testLogger())
}

func TestPosterURL(t *testing.T) {
	t.Run("poster path present", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/movie/19995", r.URL.Path)
			assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
			assert.Equal(t, "en-US", r.URL.Query().Get("language"))
			_, _ = w.Write([]byte(`{"id":19995,"poster_path":"/kyeqWdyUXW608qlYkRqosgbbJyK.jpg"}`))
		})

		poster, ok := client.PosterURL(context.Background(), 19995)
		assert.True(t, ok)
		assert.Equal(t, "https://img.test/w500/kyeqWdyUXW608qlYkRqosgbbJyK.jpg", poster)
	})

	t.Run("no poster path is absent, not an error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":1,"poster_path":null}`))
		})

		poster, ok := client.PosterURL(context.Background(), 1)
		assert.False(t, ok)
		assert.Empty(t, poster)
	})
}

func TestRetry(t *testing.T) {
	t.Run("recovers after transient failures", func(t *testing.T) {
		var calls int32
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) <= 2 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`{"poster_path":"/p.jpg"}`))
		})

		poster, ok := client.PosterURL(context.Background(), 7)
		assert.True(t, ok)
		assert.Equal(t, "https://img.test/w500/p.jpg", poster)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("gives up after max retries and degrades", func(t *testing.T) {
		var calls int32
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, ok := client.PosterURL(context.Background(), 7)
		assert.False(t, ok)
		assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		var calls int32
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusNotFound)
		})

		_, ok := client.PosterURL(context.Background(), 7)
		assert.False(t, ok)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("cancelled context stops backoff", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}, func(cfg *config.TMDBConfig) {
			cfg.BackoffFactor = time.Hour
		})

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, ok := client.PosterURL(ctx, 7)
		assert.False(t, ok)
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}

func TestCircuitBreakerOpens(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}, func(cfg *config.TMDBConfig) {
		cfg.MaxRetries = 0
		cfg.BreakerThreshold = 2
	})

	for i := 0; i < 5; i++ {
		_, ok := client.PosterURL(context.Background(), int64(i))
		assert.False(t, ok)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestTrailerURL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/movie":
			assert.Equal(t, "Inception", r.URL.Query().Get("query"))
			_, _ = w.Write([]byte(`{"results":[{"id":27205,"title":"Inception"},{"id":1,"title":"Other"}]}`))
		case "/movie/27205/videos":
			_, _ = w.Write([]byte(`{"results":[
				{"key":"teaser","site":"YouTube","type":"Teaser"},
				{"key":"vimeo","site":"Vimeo","type":"Trailer"},
				{"key":"YoGHzAIFiWE","site":"YouTube","type":"Trailer"}
			]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	trailer, ok := client.TrailerURL(context.Background(), "Inception")
	assert.True(t, ok)
	assert.Equal(t, "https://www.youtube.com/watch?v=YoGHzAIFiWE", trailer)
}

func TestTrailerURL_NoSearchResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	_, ok := client.TrailerURL(context.Background(), "Nothing")
	assert.False(t, ok)
}

func TestReviews(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/movie":
			_, _ = w.Write([]byte(`{"results":[{"id":155}]}`))
		case "/movie/155/reviews":
			_, _ = w.Write([]byte(`{"results":[
				{"author":"a","content":"Great film"},
				{"author":"b","content":"Terrible pacing"},
				{"author":"c","content":"Fine"}
			]}`))
		}
	})

	reviews := client.Reviews(context.Background(), "The Dark Knight", 2)
	assert.Equal(t, []string{"Great film", "Terrible pacing"}, reviews)

	assert.Equal(t, []string{}, client.Reviews(context.Background(), "The Dark Knight", 0))
}

func TestReviews_FailureIsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	reviews := client.Reviews(context.Background(), "Avatar", 5)
	require.NotNil(t, reviews)
	assert.Empty(t, reviews)
}

func TestTrending(t *testing.T) {
	var gotPath atomic.Value
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.Path)
		_, _ = w.Write([]byte(`{"results":[
			{"id":1,"title":"First","poster_path":"/one.jpg","vote_average":8.1},
			{"id":2,"title":"Second","poster_path":null,"vote_average":6.5}
		]}`))
	})

	movies := client.Trending(context.Background(), "fortnight")
	assert.Equal(t, "/trending/movie/day", gotPath.Load())
	require.Len(t, movies, 2)

	assert.Equal(t, "First", movies[0].Title)
	require.NotNil(t, movies[0].PosterURL)
	assert.Equal(t, "https://img.test/w500/one.jpg", *movies[0].PosterURL)
	assert.Equal(t, 8.1, movies[0].Rating)
	assert.Nil(t, movies[1].PosterURL)

	client.Trending(context.Background(), WindowWeek)
	assert.Equal(t, "/trending/movie/week", gotPath.Load())
}

func TestOutcome_SeparatesFailureFromAbsence(t *testing.T) {
	t.Run("missing poster is an answer", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":1,"poster_path":null}`))
		})

		ctx, outcome := TrackOutcome(context.Background())
		_, ok := client.PosterURL(ctx, 1)
		assert.False(t, ok)
		assert.False(t, outcome.Degraded())
	})

	t.Run("failed lookup is marked", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		ctx, outcome := TrackOutcome(context.Background())
		_, ok := client.PosterURL(ctx, 1)
		assert.False(t, ok)
		assert.True(t, outcome.Degraded())
	})

	t.Run("untracked context is ignored", func(t *testing.T) {
		assert.NotPanics(t, func() { MarkDegraded(context.Background()) })
	})
}
