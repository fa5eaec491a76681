package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxfolio/ledgerlink-backend/internal/domain/document"
	"github.com/taxfolio/ledgerlink-backend/internal/domain/linker"
	"github.com/taxfolio/ledgerlink-backend/internal/domain/matcher"
	"github.com/taxfolio/ledgerlink-backend/internal/infrastructure/storage"
)

func newTestService(repo storage.Repository) *LinkService {
	return NewLinkService(repo, matcher.NewMatcher(matcher.DefaultConfig()), nil, nil)
}

func seedDocument(repo *storage.MockRepository, id, txnNumber, vendor string, createdAt time.Time) document.Document {
	doc := document.Document{
		ID:                id,
		Kind:              document.KindTransaction,
		TransactionNumber: txnNumber,
		Vendor:            vendor,
		CreatedAt:         createdAt,
		HasAttachment:     true,
		VerificationLevel: document.VerificationBank,
	}
	repo.AddDocument(doc)
	return doc
}

func TestLinkService_AddDocument(t *testing.T) {
	repo := storage.NewMockRepository()
	svc := newTestService(repo)

	created, err := svc.AddDocument(document.Document{
		Kind:   document.KindTransaction,
		Vendor: "Acme",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, document.VerificationSelfReported, created.VerificationLevel)
	assert.True(t, repo.SaveDocumentCalled)
}

func TestLinkService_AddDocument_ReceiptIsDocumented(t *testing.T) {
	repo := storage.NewMockRepository()
	svc := newTestService(repo)

	created, err := svc.AddDocument(document.Document{
		Kind:          document.KindReceipt,
		Filename:      "receipt.jpg",
		HasAttachment: true,
	})

	require.NoError(t, err)
	assert.Equal(t, document.VerificationBank, created.VerificationLevel)
	assert.Equal(t, document.TypeGeneric, created.DocumentType)
}

func TestLinkService_Link_PersistsBothSides(t *testing.T) {
	// Arrange
	repo := storage.NewMockRepository()
	now := time.Now()
	seedDocument(repo, "a", "TXN-1", "Acme", now)
	seedDocument(repo, "b", "TXN-1", "Acme", now)
	svc := newTestService(repo)

	// Act
	err := svc.Link("a", "b")

	// Assert
	require.NoError(t, err)
	assert.True(t, repo.SaveDocumentsCalled)

	a, err := repo.GetDocument("a")
	require.NoError(t, err)
	b, err := repo.GetDocument("b")
	require.NoError(t, err)

	assert.Equal(t, "b", a.LinkedTransactionID)
	assert.Equal(t, "a", b.LinkedTransactionID)
	assert.True(t, b.IsDuplicateOfLinked)
	assert.Equal(t, document.VerificationStrong, a.VerificationLevel)
}

func TestLinkService_Link_NotFound(t *testing.T) {
	repo := storage.NewMockRepository()
	svc := newTestService(repo)

	err := svc.Link("a", "b")

	assert.ErrorIs(t, err, linker.ErrNotFound)
}

func TestLinkService_Unlink_RoundTrip(t *testing.T) {
	// Arrange
	repo := storage.NewMockRepository()
	now := time.Now()
	seedDocument(repo, "a", "TXN-1", "Acme", now)
	seedDocument(repo, "b", "TXN-1", "Acme", now)
	svc := newTestService(repo)
	require.NoError(t, svc.Link("a", "b"))

	// Act
	err := svc.Unlink("a")

	// Assert
	require.NoError(t, err)
	for _, id := range []string{"a", "b"} {
		doc, err := repo.GetDocument(id)
		require.NoError(t, err)
		assert.False(t, doc.IsLinked())
		assert.False(t, doc.IsDuplicateOfLinked)
		assert.Equal(t, document.VerificationBank, doc.VerificationLevel)
	}
}

func TestLinkService_DuplicatesFor(t *testing.T) {
	repo := storage.NewMockRepository()
	now := time.Now()
	seedDocument(repo, "a", "TXN-1", "Acme", now)
	seedDocument(repo, "b", "TXN-1", "Acme", now)
	seedDocument(repo, "c", "", "Unrelated Vendor", now)
	svc := newTestService(repo)

	candidates, err := svc.DuplicatesFor("a", 0)

	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "b", candidates[0].Document.ID)
	assert.GreaterOrEqual(t, candidates[0].MatchScore, 75)
}

func TestLinkService_DuplicatesFor_MissingTarget(t *testing.T) {
	repo := storage.NewMockRepository()
	svc := newTestService(repo)

	_, err := svc.DuplicatesFor("ghost", 0)

	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestLinkService_Suggestions_SkipsLinkedTargets(t *testing.T) {
	// Arrange - one linked pair, one unlinked pair
	repo := storage.NewMockRepository()
	now := time.Now()
	seedDocument(repo, "a", "TXN-1", "Acme", now)
	seedDocument(repo, "b", "TXN-1", "Acme", now)
	svc := newTestService(repo)
	require.NoError(t, svc.Link("a", "b"))

	seedDocument(repo, "c", "TXN-2", "Beta", now)
	seedDocument(repo, "d", "TXN-2", "Beta", now)

	// Act
	suggestions, err := svc.Suggestions(75)

	// Assert - only the unlinked pair is suggested (from both ends)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	targets := []string{suggestions[0].Target.ID, suggestions[1].Target.ID}
	assert.ElementsMatch(t, []string{"c", "d"}, targets)
}

func TestLinkService_AutoLink(t *testing.T) {
	// Arrange - two obvious pairs, one loner
	repo := storage.NewMockRepository()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	seedDocument(repo, "a1", "TXN-1", "Acme", base)
	seedDocument(repo, "a2", "TXN-1", "Acme", base.Add(time.Hour))
	seedDocument(repo, "b1", "TXN-2", "Beta", base)
	seedDocument(repo, "b2", "TXN-2", "Beta", base.Add(time.Hour))
	seedDocument(repo, "loner", "", "Gamma", base)
	svc := newTestService(repo)

	// Act
	result, err := svc.AutoLink(75)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.Linked)
	assert.Equal(t, 0, result.Skipped)

	// Earlier-created documents stay primary
	a1, err := repo.GetDocument("a1")
	require.NoError(t, err)
	assert.False(t, a1.IsDuplicateOfLinked)
	assert.Equal(t, "a2", a1.LinkedTransactionID)

	a2, err := repo.GetDocument("a2")
	require.NoError(t, err)
	assert.True(t, a2.IsDuplicateOfLinked)

	loner, err := repo.GetDocument("loner")
	require.NoError(t, err)
	assert.False(t, loner.IsLinked())
}

func TestLinkService_AutoLink_Idempotent(t *testing.T) {
	repo := storage.NewMockRepository()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	seedDocument(repo, "a1", "TXN-1", "Acme", base)
	seedDocument(repo, "a2", "TXN-1", "Acme", base.Add(time.Hour))
	svc := newTestService(repo)

	first, err := svc.AutoLink(75)
	require.NoError(t, err)
	second, err := svc.AutoLink(75)
	require.NoError(t, err)

	assert.Equal(t, 1, first.Linked)
	assert.Equal(t, 0, second.Linked)
}

func TestLinkService_CheckUpload(t *testing.T) {
	repo := storage.NewMockRepository()
	repo.AddDocument(document.Document{
		ID:        "r1",
		Kind:      document.KindReceipt,
		Filename:  "receipt-001.jpg",
		CreatedAt: time.Now(),
	})
	svc := newTestService(repo)

	matches, err := svc.CheckUpload("receipt-001-copy.jpg")

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "r1", matches[0].ID)
}

func TestLinkService_MatchPayment(t *testing.T) {
	repo := storage.NewMockRepository()
	now := time.Now()
	repo.AddDocument(document.Document{
		ID:                "pay",
		Kind:              document.KindReceipt,
		DocumentType:      document.TypePaymentReceipt,
		TransactionNumber: "TXN-12345",
		CreatedAt:         now,
	})
	repo.AddDocument(document.Document{
		ID:                "item",
		Kind:              document.KindReceipt,
		DocumentType:      document.TypeItemizedReceipt,
		TransactionNumber: "TXN-12345",
		CreatedAt:         now,
	})
	svc := newTestService(repo)

	match, err := svc.MatchPayment("pay")

	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "item", match.ID)
}
