package services

import "errors"

var (
	ErrAlreadyInWatchlist = errors.New("title already in watchlist")
	ErrNotInWatchlist     = errors.New("title not in watchlist")
	ErrInvalidName        = errors.New("watchlist name is blank")
	ErrWatchlistSave      = errors.New("failed to save watchlist")
	ErrWatchlistLoad      = errors.New("failed to load watchlist")
	ErrInvalidSort        = errors.New("invalid watchlist sort")
	ErrInvalidWindow      = errors.New("invalid trending window")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSessionExpired     = errors.New("session not found or expired")
)
