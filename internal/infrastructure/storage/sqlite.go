// Package storage persists the document collection in SQLite.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/taxfolio/ledgerlink-backend/internal/domain/document"
)

// Storage provides database access for document records
type Storage struct {
	db *sql.DB
}

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	// Run all pending migrations
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

const upsertDocumentSQL = `
	INSERT INTO documents (
		id, kind, amount, date, vendor, transaction_number, order_number,
		filename, document_type, has_attachment, created_at,
		linked_transaction_id, verification_level, is_duplicate_of_linked
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		kind = excluded.kind,
		amount = excluded.amount,
		date = excluded.date,
		vendor = excluded.vendor,
		transaction_number = excluded.transaction_number,
		order_number = excluded.order_number,
		filename = excluded.filename,
		document_type = excluded.document_type,
		has_attachment = excluded.has_attachment,
		created_at = excluded.created_at,
		linked_transaction_id = excluded.linked_transaction_id,
		verification_level = excluded.verification_level,
		is_duplicate_of_linked = excluded.is_duplicate_of_linked
`

// SaveDocument inserts or updates a single document
func (s *Storage) SaveDocument(doc *document.Document) error {
	_, err := s.db.Exec(upsertDocumentSQL, documentArgs(*doc)...)
	if err != nil {
		return fmt.Errorf("failed to save document %s: %w", doc.ID, err)
	}
	return nil
}

// SaveDocuments upserts a batch of documents in one transaction.
// Link commits touch two or three records at once; writing them in a
// single transaction keeps the symmetric-pointer invariant durable.
func (s *Storage) SaveDocuments(docs []document.Document) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(upsertDocumentSQL)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range docs {
		if _, err := stmt.Exec(documentArgs(docs[i])...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to save document %s: %w", docs[i].ID, err)
		}
	}

	return tx.Commit()
}

// GetDocument retrieves a document by id, nil when missing
func (s *Storage) GetDocument(id string) (*document.Document, error) {
	row := s.db.QueryRow(selectDocumentSQL+" WHERE id = ?", id)
	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", id, err)
	}
	return doc, nil
}

// ListDocuments returns all documents ordered by created_at, id
func (s *Storage) ListDocuments() ([]document.Document, error) {
	rows, err := s.db.Query(selectDocumentSQL + " ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	docs := make([]document.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document by id
func (s *Storage) DeleteDocument(id string) error {
	_, err := s.db.Exec("DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	return nil
}

// GetStats returns aggregate counts over the stored collection
func (s *Storage) GetStats() (*Stats, error) {
	stats := &Stats{ByVerification: make(map[string]int)}

	row := s.db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN kind = 'receipt' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = 'transaction' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN linked_transaction_id != '' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN is_duplicate_of_linked THEN 1 ELSE 0 END), 0)
		FROM documents
	`)
	if err := row.Scan(&stats.TotalDocuments, &stats.Receipts, &stats.Transactions, &stats.Linked, &stats.Excluded); err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	rows, err := s.db.Query("SELECT verification_level, COUNT(*) FROM documents GROUP BY verification_level")
	if err != nil {
		return nil, fmt.Errorf("failed to get verification breakdown: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var level string
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			return nil, err
		}
		stats.ByVerification[level] = count
	}
	return stats, rows.Err()
}

const selectDocumentSQL = `
	SELECT id, kind, amount, date, vendor, transaction_number, order_number,
		filename, document_type, has_attachment, created_at,
		linked_transaction_id, verification_level, is_duplicate_of_linked
	FROM documents
`

// documentArgs flattens a document into upsert parameters.
// Absent amounts and dates are stored as NULL.
func documentArgs(d document.Document) []interface{} {
	var amount interface{}
	if d.Amount != nil {
		amount = *d.Amount
	}
	var date interface{}
	if !d.Date.IsZero() {
		date = d.Date.UTC().Format(time.RFC3339Nano)
	}
	return []interface{}{
		d.ID, string(d.Kind), amount, date, d.Vendor,
		d.TransactionNumber, d.OrderNumber, d.Filename, string(d.DocumentType),
		d.HasAttachment, d.CreatedAt.UTC().Format(time.RFC3339Nano),
		d.LinkedTransactionID, string(d.VerificationLevel), d.IsDuplicateOfLinked,
	}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDocument(row rowScanner) (*document.Document, error) {
	var d document.Document
	var kind, docType, level string
	var amount sql.NullFloat64
	var date sql.NullString
	var createdAt string

	err := row.Scan(
		&d.ID, &kind, &amount, &date, &d.Vendor,
		&d.TransactionNumber, &d.OrderNumber, &d.Filename, &docType,
		&d.HasAttachment, &createdAt,
		&d.LinkedTransactionID, &level, &d.IsDuplicateOfLinked,
	)
	if err != nil {
		return nil, err
	}

	d.Kind = document.Kind(kind)
	d.DocumentType = document.Type(docType)
	d.VerificationLevel = document.VerificationLevel(level)

	if amount.Valid {
		v := amount.Float64
		d.Amount = &v
	}
	if date.Valid && date.String != "" {
		t, err := time.Parse(time.RFC3339Nano, date.String)
		if err != nil {
			return nil, fmt.Errorf("invalid date for document %s: %w", d.ID, err)
		}
		d.Date = t
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at for document %s: %w", d.ID, err)
	}
	d.CreatedAt = t

	return &d, nil
}
