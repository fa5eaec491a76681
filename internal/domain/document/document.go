// Package document defines the unified Document record shared by the
// matching, linking, and verification logic.
//
// Receipts and transactions enter the system with different shapes
// (OCR-extracted fields vs. manually entered fields). The adapters in
// this package normalize both into a single Document so the matcher
// never has to care which variant it is scoring.
package document

import "time"

// Kind discriminates the two source record variants.
type Kind string

const (
	KindReceipt     Kind = "receipt"
	KindTransaction Kind = "transaction"
)

// Type classifies receipts for payment/itemized pairing.
type Type string

const (
	TypeItemizedReceipt Type = "itemized_receipt"
	TypePaymentReceipt  Type = "payment_receipt"
	TypeGeneric         Type = "generic"
)

// VerificationLevel classifies how well an income entry is documented.
type VerificationLevel string

const (
	VerificationStrong       VerificationLevel = "strong"
	VerificationBank         VerificationLevel = "bank"
	VerificationSelfReported VerificationLevel = "self_reported"
)

// Document is a single financial event record (receipt or transaction).
//
// Optional fields use zero values for absence: empty string for text
// fields, nil for Amount, the zero time for Date. The matcher treats
// absent fields as non-scoring, never as matching each other.
type Document struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`

	Amount            *float64  `json:"amount,omitempty"`
	Date              time.Time `json:"date,omitzero"`
	Vendor            string    `json:"vendor,omitempty"`
	TransactionNumber string    `json:"transaction_number,omitempty"`
	OrderNumber       string    `json:"order_number,omitempty"`

	// Receipt-only fields.
	Filename     string `json:"filename,omitempty"`
	DocumentType Type   `json:"document_type,omitempty"`

	// HasAttachment is true when the record carries supporting
	// documentation (receipt image, bank statement, check scan).
	HasAttachment bool `json:"has_attachment"`

	CreatedAt time.Time `json:"created_at"`

	// Link state. Written only by the linker.
	LinkedTransactionID string            `json:"linked_transaction_id,omitempty"`
	VerificationLevel   VerificationLevel `json:"verification_level"`
	IsDuplicateOfLinked bool              `json:"is_duplicate_of_linked"`
}

// HasAmount reports whether the document carries an amount.
func (d Document) HasAmount() bool {
	return d.Amount != nil
}

// HasDate reports whether the document carries an effective date.
func (d Document) HasDate() bool {
	return !d.Date.IsZero()
}

// IsLinked reports whether the document is currently paired.
func (d Document) IsLinked() bool {
	return d.LinkedTransactionID != ""
}

// Receipt is the raw OCR-backed upload shape.
type Receipt struct {
	ID                string
	OCRAmount         *float64
	OCRDate           time.Time
	OCRVendor         string
	TransactionNumber string
	OrderNumber       string
	Filename          string
	DocumentType      Type
	CreatedAt         time.Time
}

// Transaction is the raw manually-entered or bank-imported shape.
type Transaction struct {
	ID                string
	Amount            float64
	Date              time.Time
	Payer             string
	TransactionNumber string
	HasAttachment     bool
	CreatedAt         time.Time
}

// FromReceipt normalizes a receipt into the common Document shape.
// The OCR date falls back to the upload time when extraction failed.
func FromReceipt(r Receipt) Document {
	date := r.OCRDate
	if date.IsZero() {
		date = r.CreatedAt
	}
	docType := r.DocumentType
	if docType == "" {
		docType = TypeGeneric
	}
	return Document{
		ID:                r.ID,
		Kind:              KindReceipt,
		Amount:            r.OCRAmount,
		Date:              date,
		Vendor:            r.OCRVendor,
		TransactionNumber: r.TransactionNumber,
		OrderNumber:       r.OrderNumber,
		Filename:          r.Filename,
		DocumentType:      docType,
		HasAttachment:     true, // the upload itself is the documentation
		CreatedAt:         r.CreatedAt,
		VerificationLevel: VerificationBank,
	}
}

// FromTransaction normalizes a transaction into the common Document shape.
func FromTransaction(t Transaction) Document {
	amount := t.Amount
	level := VerificationSelfReported
	if t.HasAttachment {
		level = VerificationBank
	}
	return Document{
		ID:                t.ID,
		Kind:              KindTransaction,
		Amount:            &amount,
		Date:              t.Date,
		Vendor:            t.Payer,
		TransactionNumber: t.TransactionNumber,
		HasAttachment:     t.HasAttachment,
		CreatedAt:         t.CreatedAt,
		VerificationLevel: level,
	}
}
