package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxfolio/ledgerlink-backend/internal/api"
	"github.com/taxfolio/ledgerlink-backend/internal/api/dto"
	"github.com/taxfolio/ledgerlink-backend/internal/application/service"
	"github.com/taxfolio/ledgerlink-backend/internal/domain/document"
	"github.com/taxfolio/ledgerlink-backend/internal/domain/matcher"
	"github.com/taxfolio/ledgerlink-backend/internal/infrastructure/storage"
)

func newTestServer(repo *storage.MockRepository) *api.Server {
	svc := service.NewLinkService(repo, matcher.NewMatcher(matcher.DefaultConfig()), nil, nil)
	return api.NewServer(api.DefaultConfig(), svc, nil)
}

func seedPair(repo *storage.MockRepository) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	repo.AddDocument(document.Document{
		ID: "a", Kind: document.KindTransaction, TransactionNumber: "TXN-1",
		Vendor: "Acme", CreatedAt: now, HasAttachment: true,
		VerificationLevel: document.VerificationBank,
	})
	repo.AddDocument(document.Document{
		ID: "b", Kind: document.KindTransaction, TransactionNumber: "TXN-1",
		Vendor: "Acme", CreatedAt: now.Add(time.Hour), HasAttachment: true,
		VerificationLevel: document.VerificationBank,
	})
}

func doRequest(t *testing.T, server *api.Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(storage.NewMockRepository())

	rec := doRequest(t, server, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "ok", response.Status)
}

func TestListDocuments(t *testing.T) {
	t.Run("empty collection", func(t *testing.T) {
		server := newTestServer(storage.NewMockRepository())

		rec := doRequest(t, server, http.MethodGet, "/api/documents", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var response dto.DocumentListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Empty(t, response.Documents)
		assert.Equal(t, 0, response.TotalCount)
	})

	t.Run("seeded collection", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedPair(repo)
		server := newTestServer(repo)

		rec := doRequest(t, server, http.MethodGet, "/api/documents", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var response dto.DocumentListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, 2, response.TotalCount)
	})
}

func TestGetDocument(t *testing.T) {
	repo := storage.NewMockRepository()
	seedPair(repo)
	server := newTestServer(repo)

	t.Run("found", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodGet, "/api/documents/a", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var response dto.DocumentResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "a", response.ID)
		assert.Equal(t, "bank", response.VerificationLevel)
	})

	t.Run("missing", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodGet, "/api/documents/ghost", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var apiErr dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
		assert.Equal(t, dto.ErrCodeNotFound, apiErr.Code)
	})
}

func TestCreateDocument(t *testing.T) {
	server := newTestServer(storage.NewMockRepository())

	t.Run("valid transaction", func(t *testing.T) {
		amount := 150.0
		rec := doRequest(t, server, http.MethodPost, "/api/documents", dto.CreateDocumentRequest{
			Kind:   "transaction",
			Amount: &amount,
			Date:   "2025-06-10",
			Vendor: "Acme",
		})

		assert.Equal(t, http.StatusCreated, rec.Code)
		var response dto.DocumentResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.NotEmpty(t, response.ID)
		assert.Equal(t, "2025-06-10", response.Date)
		assert.Equal(t, "self_reported", response.VerificationLevel)
	})

	t.Run("invalid kind rejected", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/documents", map[string]string{
			"kind": "invoice",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad date rejected", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/documents", dto.CreateDocumentRequest{
			Kind: "transaction",
			Date: "June 10th",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDuplicatesEndpoint(t *testing.T) {
	repo := storage.NewMockRepository()
	seedPair(repo)
	server := newTestServer(repo)

	rec := doRequest(t, server, http.MethodGet, "/api/documents/a/duplicates", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var response dto.DuplicateListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "a", response.TargetID)
	require.Len(t, response.Candidates, 1)
	assert.Equal(t, "b", response.Candidates[0].Document.ID)
	assert.GreaterOrEqual(t, response.Candidates[0].MatchScore, 75)
}

func TestLinkEndpoints(t *testing.T) {
	repo := storage.NewMockRepository()
	seedPair(repo)
	server := newTestServer(repo)

	t.Run("commit link", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/links", dto.CreateLinkRequest{
			PrimaryID:   "a",
			DuplicateID: "b",
		})

		assert.Equal(t, http.StatusOK, rec.Code)

		b, err := repo.GetDocument("b")
		require.NoError(t, err)
		assert.True(t, b.IsDuplicateOfLinked)
	})

	t.Run("self link rejected", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/links", dto.CreateLinkRequest{
			PrimaryID:   "a",
			DuplicateID: "a",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var apiErr dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
		assert.Equal(t, dto.ErrCodeValidation, apiErr.Code)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/links", dto.CreateLinkRequest{
			PrimaryID:   "a",
			DuplicateID: "ghost",
		})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unlink", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodDelete, "/api/links/a", nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)

		a, err := repo.GetDocument("a")
		require.NoError(t, err)
		assert.False(t, a.IsLinked())
	})
}

func TestAutoLinkEndpoint(t *testing.T) {
	repo := storage.NewMockRepository()
	seedPair(repo)
	server := newTestServer(repo)

	rec := doRequest(t, server, http.MethodPost, "/api/links/auto", dto.AutoLinkRequest{})

	assert.Equal(t, http.StatusOK, rec.Code)
	var response dto.AutoLinkResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, 1, response.Linked)
}

func TestUploadCheckEndpoint(t *testing.T) {
	repo := storage.NewMockRepository()
	repo.AddDocument(document.Document{
		ID:        "r1",
		Kind:      document.KindReceipt,
		Filename:  "receipt-001.jpg",
		CreatedAt: time.Now(),
	})
	server := newTestServer(repo)

	t.Run("similar filename flagged", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodGet, "/api/uploads/check?filename=receipt-001-copy.jpg", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var response dto.UploadCheckResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		require.Len(t, response.Duplicates, 1)
		assert.Equal(t, "r1", response.Duplicates[0].ID)
	})

	t.Run("missing filename rejected", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodGet, "/api/uploads/check", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestStatsEndpoint(t *testing.T) {
	repo := storage.NewMockRepository()
	seedPair(repo)
	server := newTestServer(repo)

	rec := doRequest(t, server, http.MethodGet, "/api/stats", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var stats storage.Stats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Equal(t, 2, stats.TotalDocuments)
	assert.Equal(t, 2, stats.Transactions)
}
