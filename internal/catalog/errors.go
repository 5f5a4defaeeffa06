package catalog

import "errors"

var (
	// ErrArtifactMissing means an artifact file could not be located or read.
	ErrArtifactMissing = errors.New("artifact missing")
	// ErrArtifactCorrupt means an artifact could not be decoded into the expected shape.
	ErrArtifactCorrupt = errors.New("artifact corrupt")
	// ErrDimensionMismatch means matrix rows, columns and catalog size disagree.
	ErrDimensionMismatch = errors.New("similarity matrix dimension mismatch")
	ErrTitleNotFound     = errors.New("title not found")
	ErrIndexOutOfRange   = errors.New("index out of range")
	// ErrNoCandidates is returned by RandomEntry when every title is excluded.
	ErrNoCandidates = errors.New("no candidate titles")
)
