package matcher

import (
	"github.com/taxfolio/ledgerlink-backend/internal/domain/document"
)

// Config holds scoring weights and tolerances.
//
// The component weights sum to 100, so a pair that matches on every
// signal scores a full 100 before clamping.
type Config struct {
	IdentifierWeight    int     // Points for an exact identifier match (default: 50)
	VendorWeight        int     // Points for a normalized vendor match (default: 25)
	DateWeight          int     // Max points for date proximity (default: 15)
	AmountWeight        int     // Points for an exact amount match (default: 10)
	AmountPartialWeight int     // Points for a near-miss amount (default: 5)
	DateWindowDays      int     // Day gap beyond which dates score zero (default: 3)
	AmountTolerance     float64 // Absolute tolerance for "equal" amounts (default: 0.01)
	AmountPartialPct    float64 // Relative tolerance for partial credit (default: 0.05)
	Threshold           int     // Default duplicate-suggestion floor (default: 75)
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		IdentifierWeight:    50,
		VendorWeight:        25,
		DateWeight:          15,
		AmountWeight:        10,
		AmountPartialWeight: 5,
		DateWindowDays:      3,
		AmountTolerance:     0.01,
		AmountPartialPct:    0.05,
		Threshold:           75,
	}
}

// MatchResult contains the confidence score for a document pair.
type MatchResult struct {
	Score   int      `json:"score"`   // 0-100
	Reasons []string `json:"reasons"` // Human-readable matching signals
}

// PotentialDuplicate is one ranked candidate from a duplicate scan.
type PotentialDuplicate struct {
	Document     document.Document `json:"document"`
	MatchScore   int               `json:"match_score"`
	MatchReasons []string          `json:"match_reasons"`
}
