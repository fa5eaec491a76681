package dto

import (
	"time"

	"github.com/taxfolio/ledgerlink-backend/internal/domain/document"
	"github.com/taxfolio/ledgerlink-backend/internal/domain/matcher"
)

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// NewHealthResponse creates a healthy response.
func NewHealthResponse() HealthResponse {
	return HealthResponse{Status: "ok", Version: "1"}
}

// DocumentResponse is the API shape of a document.
type DocumentResponse struct {
	ID                  string   `json:"id"`
	Kind                string   `json:"kind"`
	Amount              *float64 `json:"amount,omitempty"`
	Date                string   `json:"date,omitempty"`
	Vendor              string   `json:"vendor,omitempty"`
	TransactionNumber   string   `json:"transaction_number,omitempty"`
	OrderNumber         string   `json:"order_number,omitempty"`
	Filename            string   `json:"filename,omitempty"`
	DocumentType        string   `json:"document_type,omitempty"`
	HasAttachment       bool     `json:"has_attachment"`
	CreatedAt           string   `json:"created_at"`
	LinkedTransactionID string   `json:"linked_transaction_id,omitempty"`
	VerificationLevel   string   `json:"verification_level"`
	IsDuplicateOfLinked bool     `json:"is_duplicate_of_linked"`
}

// ToDocumentResponse converts a domain document to an API response.
func ToDocumentResponse(d document.Document) DocumentResponse {
	resp := DocumentResponse{
		ID:                  d.ID,
		Kind:                string(d.Kind),
		Amount:              d.Amount,
		Vendor:              d.Vendor,
		TransactionNumber:   d.TransactionNumber,
		OrderNumber:         d.OrderNumber,
		Filename:            d.Filename,
		DocumentType:        string(d.DocumentType),
		HasAttachment:       d.HasAttachment,
		CreatedAt:           d.CreatedAt.UTC().Format(time.RFC3339),
		LinkedTransactionID: d.LinkedTransactionID,
		VerificationLevel:   string(d.VerificationLevel),
		IsDuplicateOfLinked: d.IsDuplicateOfLinked,
	}
	if !d.Date.IsZero() {
		resp.Date = d.Date.UTC().Format("2006-01-02")
	}
	return resp
}

// DocumentListResponse wraps a document collection.
type DocumentListResponse struct {
	Documents  []DocumentResponse `json:"documents"`
	TotalCount int                `json:"total_count"`
}

// DuplicateResponse is one ranked duplicate candidate.
type DuplicateResponse struct {
	Document     DocumentResponse `json:"document"`
	MatchScore   int              `json:"match_score"`
	MatchReasons []string         `json:"match_reasons"`
}

// DuplicateListResponse wraps the candidates for one target.
type DuplicateListResponse struct {
	TargetID   string              `json:"target_id"`
	Candidates []DuplicateResponse `json:"candidates"`
}

// ToDuplicateResponses converts matcher results to API responses.
func ToDuplicateResponses(candidates []matcher.PotentialDuplicate) []DuplicateResponse {
	out := make([]DuplicateResponse, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, DuplicateResponse{
			Document:     ToDocumentResponse(c.Document),
			MatchScore:   c.MatchScore,
			MatchReasons: c.MatchReasons,
		})
	}
	return out
}

// UploadCheckResponse is returned by GET /api/uploads/check.
type UploadCheckResponse struct {
	Filename   string             `json:"filename"`
	Duplicates []DocumentResponse `json:"duplicates"`
}

// AutoLinkResponse summarizes a bulk auto-link pass.
type AutoLinkResponse struct {
	Linked  int `json:"linked"`
	Skipped int `json:"skipped"`
}
