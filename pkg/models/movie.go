package models

// CatalogEntry is one title of the precomputed similarity artifact.
type CatalogEntry struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Index int    `json:"index"`
}

type TrendingMovie struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	PosterURL *string `json:"poster_url,omitempty"`
	Rating    float64 `json:"rating"`
}

type Trailer struct {
	Title    string  `json:"title"`
	URL      *string `json:"url,omitempty"`
	EmbedURL *string `json:"embed_url,omitempty"`
}

type MovieSearchResponse struct {
	Query  string         `json:"query"`
	Movies []CatalogEntry `json:"movies"`
}
