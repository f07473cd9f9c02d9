package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Tenant represents a tenant row, including its pipeline tunables.
type Tenant struct {
	ID                  string
	Name                string
	TopK                int
	ConfidenceThreshold float64
	ChunkSize           int
	ChunkOverlap        int
	HyDEEnabled         bool
	KeywordsEnabled     bool
	TwoPassEnabled      bool
	DebugEnabled        bool
	SummariesEnabled    bool
	CreatedAt           time.Time
}

// Document represents a source document owned by a tenant.
type Document struct {
	ID        string
	TenantID  string
	Title     string
	CreatedAt time.Time
}

// ChunkRecord represents a chunk row. The embedding itself lives in the vector
// store under the same id; SQLite holds the text and positional metadata.
type ChunkRecord struct {
	ID         string
	TenantID   string
	DocumentID string
	ChunkIndex int
	StartChar  int
	EndChar    int
	TokenCount int
	Text       string
}
