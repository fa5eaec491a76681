package dto

// CreateDocumentRequest is the payload for POST /api/documents.
// Kind selects the normalization path; receipt-only fields are ignored
// for transactions.
type CreateDocumentRequest struct {
	Kind              string   `json:"kind" binding:"required,oneof=receipt transaction"`
	Amount            *float64 `json:"amount"`
	Date              string   `json:"date"`    // RFC 3339 or YYYY-MM-DD
	Vendor            string   `json:"vendor"`
	TransactionNumber string   `json:"transaction_number"`
	OrderNumber       string   `json:"order_number"`
	Filename          string   `json:"filename"`
	DocumentType      string   `json:"document_type"`
	HasAttachment     bool     `json:"has_attachment"`
}

// CreateLinkRequest is the payload for POST /api/links.
type CreateLinkRequest struct {
	PrimaryID   string `json:"primary_id" binding:"required"`
	DuplicateID string `json:"duplicate_id" binding:"required"`
}

// AutoLinkRequest is the payload for POST /api/links/auto.
// Threshold 0 uses the configured default.
type AutoLinkRequest struct {
	Threshold int `json:"threshold"`
}
