// Package service orchestrates duplicate detection and link commits
// against the persistent document store.
//
// The domain packages are pure functions over in-memory collections;
// LinkService is the single writer that loads a snapshot, applies a
// mutation, and persists the result. A mutex serializes commits so two
// link operations can never interleave against the same snapshot.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taxfolio/ledgerlink-backend/internal/domain/document"
	"github.com/taxfolio/ledgerlink-backend/internal/domain/linker"
	"github.com/taxfolio/ledgerlink-backend/internal/domain/matcher"
	"github.com/taxfolio/ledgerlink-backend/internal/infrastructure/storage"
)

// ErrDocumentNotFound is returned when a requested document id does not exist.
var ErrDocumentNotFound = errors.New("document not found")

// Suggestion pairs a target document with its ranked duplicate candidates.
type Suggestion struct {
	Target     document.Document            `json:"target"`
	Candidates []matcher.PotentialDuplicate `json:"candidates"`
}

// AutoLinkResult summarizes a bulk auto-link pass.
type AutoLinkResult struct {
	Linked  int `json:"linked"`
	Skipped int `json:"skipped"`
}

// LinkService manages duplicate detection and link commits.
type LinkService struct {
	repo     storage.Repository
	matcher  *matcher.Matcher
	strategy linker.PrimaryStrategy
	logger   *slog.Logger

	// Serializes load-mutate-save sequences. The domain operations
	// take and return complete snapshots, so interleaved commits
	// would silently drop each other's writes.
	mu sync.Mutex
}

// NewLinkService creates a new link service.
// A nil strategy defaults to earlier-created-wins.
func NewLinkService(
	repo storage.Repository,
	m *matcher.Matcher,
	strategy linker.PrimaryStrategy,
	logger *slog.Logger,
) *LinkService {
	if strategy == nil {
		strategy = linker.EarlierCreatedWins
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LinkService{
		repo:     repo,
		matcher:  m,
		strategy: strategy,
		logger:   logger,
	}
}

// AddDocument stores a new document, assigning an id and created
// timestamp when absent, and deriving the initial verification level.
func (s *LinkService) AddDocument(doc document.Document) (*document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if doc.Kind == "" {
		doc.Kind = document.KindTransaction
	}
	if doc.DocumentType == "" && doc.Kind == document.KindReceipt {
		doc.DocumentType = document.TypeGeneric
	}
	doc.VerificationLevel = linker.CalculateVerificationLevel(doc, nil)

	if err := s.repo.SaveDocument(&doc); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	s.logger.Info("document added", "id", doc.ID, "kind", doc.Kind)
	return &doc, nil
}

// GetDocument retrieves a single document.
func (s *LinkService) GetDocument(id string) (*document.Document, error) {
	doc, err := s.repo.GetDocument(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	return doc, nil
}

// ListDocuments returns the full stored collection.
func (s *LinkService) ListDocuments() ([]document.Document, error) {
	return s.repo.ListDocuments()
}

// DuplicatesFor returns ranked duplicate candidates for one document.
// Pass threshold <= 0 for the configured default.
func (s *LinkService) DuplicatesFor(id string, threshold int) ([]matcher.PotentialDuplicate, error) {
	target, err := s.GetDocument(id)
	if err != nil {
		return nil, err
	}
	pool, err := s.repo.ListDocuments()
	if err != nil {
		return nil, err
	}
	return s.matcher.FindPotentialDuplicates(*target, pool, threshold), nil
}

// Suggestions scans the whole collection for high-confidence duplicate
// pairs. Documents already linked are skipped as targets; candidates
// linked elsewhere are excluded by the matcher.
func (s *LinkService) Suggestions(threshold int) ([]Suggestion, error) {
	pool, err := s.repo.ListDocuments()
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0)
	for _, target := range pool {
		if target.IsLinked() {
			continue
		}
		candidates := s.matcher.FindPotentialDuplicates(target, pool, threshold)
		if len(candidates) == 0 {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Target:     target,
			Candidates: candidates,
		})
	}
	return suggestions, nil
}

// Link commits a duplicate link and persists the affected records.
func (s *LinkService) Link(primaryID, duplicateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool, err := s.repo.ListDocuments()
	if err != nil {
		return err
	}

	updated, err := linker.LinkDocuments(primaryID, duplicateID, pool)
	if err != nil {
		return err
	}

	if err := s.repo.SaveDocuments(updated); err != nil {
		return fmt.Errorf("failed to persist link: %w", err)
	}

	s.logger.Info("documents linked", "primary", primaryID, "duplicate", duplicateID)
	return nil
}

// Unlink reverses a link from either end and persists the result.
func (s *LinkService) Unlink(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool, err := s.repo.ListDocuments()
	if err != nil {
		return err
	}

	updated, err := linker.UnlinkDocuments(id, pool)
	if err != nil {
		return err
	}

	if err := s.repo.SaveDocuments(updated); err != nil {
		return fmt.Errorf("failed to persist unlink: %w", err)
	}

	s.logger.Info("document unlinked", "id", id)
	return nil
}

// AutoLink commits the best candidate for every high-confidence
// suggestion, choosing the primary via the configured strategy.
// Per-pair failures are skipped so one bad pair doesn't abort the run.
func (s *LinkService) AutoLink(threshold int) (*AutoLinkResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool, err := s.repo.ListDocuments()
	if err != nil {
		return nil, err
	}

	result := &AutoLinkResult{}

	for _, target := range pool {
		// Re-check link state against the evolving pool: an earlier
		// pair in this pass may have claimed this document.
		i := indexOf(pool, target.ID)
		if i < 0 || pool[i].IsLinked() {
			continue
		}

		candidates := s.matcher.FindPotentialDuplicates(pool[i], pool, threshold)
		if len(candidates) == 0 {
			continue
		}

		best := candidates[0].Document
		primaryID := s.strategy(pool[i], best)
		duplicateID := best.ID
		if primaryID == best.ID {
			duplicateID = pool[i].ID
		}

		updated, err := linker.LinkDocuments(primaryID, duplicateID, pool)
		if err != nil {
			s.logger.Warn("auto-link pair skipped",
				"primary", primaryID, "duplicate", duplicateID, "error", err)
			result.Skipped++
			continue
		}
		pool = updated
		result.Linked++
	}

	if err := s.repo.SaveDocuments(pool); err != nil {
		return nil, fmt.Errorf("failed to persist auto-link results: %w", err)
	}

	s.logger.Info("auto-link completed", "linked", result.Linked, "skipped", result.Skipped)
	return result, nil
}

// CheckUpload reports prior uploads whose filenames suggest the given
// filename is a re-upload.
func (s *LinkService) CheckUpload(filename string) ([]document.Document, error) {
	pool, err := s.repo.ListDocuments()
	if err != nil {
		return nil, err
	}
	probe := document.Document{Filename: filename}
	return matcher.FindDuplicatesByFilename(probe, pool), nil
}

// MatchPayment finds the itemized receipt covering a payment receipt.
// Returns nil without error when nothing qualifies.
func (s *LinkService) MatchPayment(id string) (*document.Document, error) {
	payment, err := s.GetDocument(id)
	if err != nil {
		return nil, err
	}
	pool, err := s.repo.ListDocuments()
	if err != nil {
		return nil, err
	}
	return s.matcher.FindItemizedReceiptForPayment(*payment, pool, true), nil
}

// Stats returns aggregate counts from the repository.
func (s *LinkService) Stats() (*storage.Stats, error) {
	return s.repo.GetStats()
}

func indexOf(docs []document.Document, id string) int {
	for i := range docs {
		if docs[i].ID == id {
			return i
		}
	}
	return -1
}
