package storage

import (
	"github.com/taxfolio/ledgerlink-backend/internal/domain/document"
)

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite, PostgreSQL, etc.)
// and makes testing with mocks straightforward.
type Repository interface {
	// SaveDocument inserts or updates a single document
	SaveDocument(doc *document.Document) error

	// SaveDocuments upserts a batch of documents in one transaction
	SaveDocuments(docs []document.Document) error

	// GetDocument retrieves a document by id, nil when missing
	GetDocument(id string) (*document.Document, error)

	// ListDocuments returns all documents ordered by created_at, id
	ListDocuments() ([]document.Document, error)

	// DeleteDocument removes a document by id
	DeleteDocument(id string) error

	// GetStats returns aggregate counts over the stored collection
	GetStats() (*Stats, error)

	Close() error
}

// Stats contains aggregate counts over the document collection
type Stats struct {
	TotalDocuments int            `json:"total_documents"`
	Receipts       int            `json:"receipts"`
	Transactions   int            `json:"transactions"`
	Linked         int            `json:"linked"`
	Excluded       int            `json:"excluded"`
	ByVerification map[string]int `json:"by_verification"`
}
