package storage

import (
	"sort"

	"github.com/taxfolio/ledgerlink-backend/internal/domain/document"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in a map, making tests fast and isolated.
type MockRepository struct {
	documents map[string]document.Document

	// Hooks for test assertions
	SaveDocumentCalled  bool
	SaveDocumentsCalled bool
	LastSavedBatch      []document.Document

	// Error injection for testing error paths
	SaveDocumentErr  error
	SaveDocumentsErr error
	GetDocumentErr   error
	ListDocumentsErr error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		documents: make(map[string]document.Document),
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// AddDocument seeds a document directly (test setup helper)
func (m *MockRepository) AddDocument(doc document.Document) {
	m.documents[doc.ID] = doc
}

// SaveDocument inserts or updates a single document
func (m *MockRepository) SaveDocument(doc *document.Document) error {
	m.SaveDocumentCalled = true
	if m.SaveDocumentErr != nil {
		return m.SaveDocumentErr
	}
	m.documents[doc.ID] = *doc
	return nil
}

// SaveDocuments upserts a batch of documents
func (m *MockRepository) SaveDocuments(docs []document.Document) error {
	m.SaveDocumentsCalled = true
	m.LastSavedBatch = docs
	if m.SaveDocumentsErr != nil {
		return m.SaveDocumentsErr
	}
	for _, doc := range docs {
		m.documents[doc.ID] = doc
	}
	return nil
}

// GetDocument retrieves a document by id, nil when missing
func (m *MockRepository) GetDocument(id string) (*document.Document, error) {
	if m.GetDocumentErr != nil {
		return nil, m.GetDocumentErr
	}
	doc, ok := m.documents[id]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

// ListDocuments returns all documents ordered by created_at, id
func (m *MockRepository) ListDocuments() ([]document.Document, error) {
	if m.ListDocumentsErr != nil {
		return nil, m.ListDocumentsErr
	}
	docs := make([]document.Document, 0, len(m.documents))
	for _, doc := range m.documents {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.Before(docs[j].CreatedAt)
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

// DeleteDocument removes a document by id
func (m *MockRepository) DeleteDocument(id string) error {
	delete(m.documents, id)
	return nil
}

// GetStats returns aggregate counts over the stored collection
func (m *MockRepository) GetStats() (*Stats, error) {
	stats := &Stats{ByVerification: make(map[string]int)}
	for _, doc := range m.documents {
		stats.TotalDocuments++
		switch doc.Kind {
		case document.KindReceipt:
			stats.Receipts++
		case document.KindTransaction:
			stats.Transactions++
		}
		if doc.IsLinked() {
			stats.Linked++
		}
		if doc.IsDuplicateOfLinked {
			stats.Excluded++
		}
		stats.ByVerification[string(doc.VerificationLevel)]++
	}
	return stats, nil
}

// Close is a no-op for the mock
func (m *MockRepository) Close() error {
	return nil
}
