// Package linker commits duplicate-link decisions between documents.
//
// Linking pairs two documents so that exactly one of them (the
// duplicate) is excluded from income totals. The linker is the only
// writer of the link fields: LinkedTransactionID, IsDuplicateOfLinked,
// and VerificationLevel. Operations take the document collection as an
// explicit parameter and return an updated copy; nothing is mutated in
// place.
package linker

import (
	"errors"
	"fmt"

	"github.com/taxfolio/ledgerlink-backend/internal/domain/document"
)

var (
	// ErrNotFound is returned when a referenced document id is not in
	// the collection. The collection is left untouched.
	ErrNotFound = errors.New("document not found")

	// ErrSelfLink is returned when primary and duplicate ids are the same.
	ErrSelfLink = errors.New("cannot link a document to itself")
)

// PrimaryStrategy decides which of a candidate pair stays primary
// (counted in totals) during bulk auto-linking. It returns the id of
// the chosen primary.
type PrimaryStrategy func(a, b document.Document) string

// EarlierCreatedWins keeps the earlier-created document as primary,
// since it more often corresponds to the original check or invoice.
// Ties fall back to the lower id.
func EarlierCreatedWins(a, b document.Document) string {
	if a.CreatedAt.Before(b.CreatedAt) {
		return a.ID
	}
	if b.CreatedAt.Before(a.CreatedAt) {
		return b.ID
	}
	if a.ID < b.ID {
		return a.ID
	}
	return b.ID
}

// LinkDocuments commits a duplicate link between primaryID and
// duplicateID and returns the updated collection.
//
// The primary keeps counting toward totals; the duplicate is flagged
// excluded. If either side already carries a link to a third document,
// that stale link is severed symmetrically first: relinking is a move,
// not an accumulation. Both parties' verification levels are re-derived
// after the commit. The operation is idempotent and fails closed: on
// error the input collection is returned unchanged.
func LinkDocuments(primaryID, duplicateID string, pool []document.Document) ([]document.Document, error) {
	if primaryID == duplicateID {
		return pool, ErrSelfLink
	}

	docs := clone(pool)

	pi := indexOf(docs, primaryID)
	if pi < 0 {
		return pool, fmt.Errorf("primary %q: %w", primaryID, ErrNotFound)
	}
	di := indexOf(docs, duplicateID)
	if di < 0 {
		return pool, fmt.Errorf("duplicate %q: %w", duplicateID, ErrNotFound)
	}

	severStaleLink(docs, pi, duplicateID)
	severStaleLink(docs, di, primaryID)

	docs[pi].LinkedTransactionID = docs[di].ID
	docs[pi].IsDuplicateOfLinked = false
	docs[di].LinkedTransactionID = docs[pi].ID
	docs[di].IsDuplicateOfLinked = true

	docs[pi].VerificationLevel = verificationFor(docs[pi], &docs[di])
	docs[di].VerificationLevel = verificationFor(docs[di], &docs[pi])

	return docs, nil
}

// UnlinkDocuments reverses a link from either end and returns the
// updated collection. Both sides have their link fields reset and
// their verification levels re-derived. Unlinking an already-unlinked
// document is a no-op.
func UnlinkDocuments(id string, pool []document.Document) ([]document.Document, error) {
	docs := clone(pool)

	i := indexOf(docs, id)
	if i < 0 {
		return pool, fmt.Errorf("document %q: %w", id, ErrNotFound)
	}

	if !docs[i].IsLinked() {
		return docs, nil
	}

	if j := indexOf(docs, docs[i].LinkedTransactionID); j >= 0 {
		resetLink(&docs[j])
	}
	resetLink(&docs[i])

	return docs, nil
}

// severStaleLink clears an existing link on docs[i] when it points at
// anything other than expectedCounterpartID, resetting the old
// counterpart as well.
func severStaleLink(docs []document.Document, i int, expectedCounterpartID string) {
	linked := docs[i].LinkedTransactionID
	if linked == "" || linked == expectedCounterpartID {
		return
	}
	if j := indexOf(docs, linked); j >= 0 {
		resetLink(&docs[j])
	}
	docs[i].LinkedTransactionID = ""
	docs[i].IsDuplicateOfLinked = false
}

// resetLink restores a document's link fields to their unlinked
// defaults and re-derives its verification level.
func resetLink(d *document.Document) {
	d.LinkedTransactionID = ""
	d.IsDuplicateOfLinked = false
	d.VerificationLevel = verificationFor(*d, nil)
}

func indexOf(docs []document.Document, id string) int {
	for i := range docs {
		if docs[i].ID == id {
			return i
		}
	}
	return -1
}

func clone(docs []document.Document) []document.Document {
	out := make([]document.Document, len(docs))
	copy(out, docs)
	return out
}
