// Package matcher provides duplicate-detection logic for deduplicating
// income records against receipts and bank deposits.
//
// Scoring is additive over four weighted signals:
//   - Identifier (transaction/order number) exact match: 50 points
//   - Vendor normalized match: 25 points
//   - Date proximity: up to 15 points, decaying with the day gap
//   - Amount match: 10 points exact, 5 points near-miss
//
// Example usage:
//
//	m := matcher.NewMatcher(matcher.DefaultConfig())
//	result := m.MatchConfidence(a, b)
//	if result.Score >= 75 {
//		// High-confidence duplicate
//	}
package matcher

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/taxfolio/ledgerlink-backend/internal/domain/document"
)

// Matcher scores document pairs and scans pools for duplicates
type Matcher struct {
	config Config
}

// NewMatcher creates a new matcher with the given config
func NewMatcher(config Config) *Matcher {
	return &Matcher{
		config: config,
	}
}

// MatchConfidence scores how likely two documents represent the same
// real-world payment. Pure and symmetric: swapping a and b yields the
// same result, and neither input is mutated. Missing optional fields
// simply contribute zero points.
func (m *Matcher) MatchConfidence(a, b document.Document) MatchResult {
	score := 0
	reasons := []string{}

	// Identifier match is the strongest signal. Empty identifiers are
	// absent, never equal to each other.
	if identifiersMatch(a.TransactionNumber, b.TransactionNumber) {
		score += m.config.IdentifierWeight
		reasons = append(reasons, "matching transaction number")
	} else if identifiersMatch(a.OrderNumber, b.OrderNumber) {
		score += m.config.IdentifierWeight
		reasons = append(reasons, "matching order number")
	}

	if vendorsMatch(a.Vendor, b.Vendor) {
		score += m.config.VendorWeight
		reasons = append(reasons, "vendor match")
	}

	if a.HasDate() && b.HasDate() {
		gap := dayGap(a, b)
		if points := m.datePoints(gap); points > 0 {
			score += points
			if gap == 0 {
				reasons = append(reasons, "same date")
			} else {
				reasons = append(reasons, fmt.Sprintf("dates within %d days", gap))
			}
		}
	}

	if a.HasAmount() && b.HasAmount() {
		diff := math.Abs(*a.Amount - *b.Amount)
		if diff <= m.config.AmountTolerance {
			score += m.config.AmountWeight
			reasons = append(reasons, "amount match")
		} else if withinPct(*a.Amount, *b.Amount, m.config.AmountPartialPct) {
			score += m.config.AmountPartialWeight
			reasons = append(reasons, "amount within tolerance")
		}
	}

	if score > 100 {
		score = 100
	}

	return MatchResult{Score: score, Reasons: reasons}
}

// datePoints scales the date weight down linearly as the gap grows,
// reaching zero at the window edge.
func (m *Matcher) datePoints(gapDays int) int {
	window := m.config.DateWindowDays
	if window <= 0 || gapDays >= window {
		return 0
	}
	return m.config.DateWeight * (window - gapDays) / window
}

// identifiersMatch requires case-sensitive exact equality of non-empty strings.
func identifiersMatch(a, b string) bool {
	return a != "" && b != "" && a == b
}

// vendorsMatch compares vendors after trimming, lower-casing, and
// collapsing inner whitespace.
func vendorsMatch(a, b string) bool {
	na := normalizeVendor(a)
	nb := normalizeVendor(b)
	return na != "" && nb != "" && na == nb
}

func normalizeVendor(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// dayGap returns the absolute calendar-day difference between two
// document dates. Comparing on calendar days keeps "same day" stable
// across time-of-day and timezone noise in OCR dates.
func dayGap(a, b document.Document) int {
	da := truncateToDay(a.Date)
	db := truncateToDay(b.Date)
	return int(math.Abs(da.Sub(db).Hours() / 24))
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func withinPct(a, b, pct float64) bool {
	larger := math.Max(math.Abs(a), math.Abs(b))
	if larger == 0 {
		return false
	}
	return math.Abs(a-b)/larger <= pct
}
