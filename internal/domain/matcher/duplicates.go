package matcher

import (
	"sort"

	"github.com/taxfolio/ledgerlink-backend/internal/domain/document"
)

// FindPotentialDuplicates scans the pool for candidates whose confidence
// against target clears the threshold, ranked best first.
//
// Candidates already linked to a different counterpart are skipped: an
// existing link must be explicitly undone before the document can be
// suggested elsewhere. Pass threshold <= 0 to use the configured default.
func (m *Matcher) FindPotentialDuplicates(
	target document.Document,
	pool []document.Document,
	threshold int,
) []PotentialDuplicate {
	if threshold <= 0 {
		threshold = m.config.Threshold
	}

	results := make([]PotentialDuplicate, 0)

	for _, candidate := range pool {
		if candidate.ID == target.ID {
			continue
		}
		if candidate.IsLinked() && candidate.LinkedTransactionID != target.ID {
			continue
		}

		match := m.MatchConfidence(target, candidate)
		if match.Score < threshold {
			continue
		}

		results = append(results, PotentialDuplicate{
			Document:     candidate,
			MatchScore:   match.Score,
			MatchReasons: match.Reasons,
		})
	}

	// Rank by score, then by date proximity, then by ID so re-runs
	// always produce the same ordering.
	sort.Slice(results, func(i, j int) bool {
		if results[i].MatchScore != results[j].MatchScore {
			return results[i].MatchScore > results[j].MatchScore
		}
		gi := candidateGap(target, results[i].Document)
		gj := candidateGap(target, results[j].Document)
		if gi != gj {
			return gi < gj
		}
		return results[i].Document.ID < results[j].Document.ID
	})

	return results
}

// candidateGap returns the day gap for tie-breaking. Pairs with a
// missing date sort after any pair with a known gap.
func candidateGap(target, candidate document.Document) int {
	if !target.HasDate() || !candidate.HasDate() {
		return 1 << 30
	}
	return dayGap(target, candidate)
}

// FindItemizedReceiptForPayment pairs a payment receipt (check stub,
// deposit slip) with the itemized receipt covering the same payment.
//
// The transaction number is the primary key for pairing. When the
// payment has no transaction-number match and allowFallback is set,
// vendor plus date proximity is used instead. Returns nil when called
// on anything other than a payment receipt, or when nothing qualifies.
func (m *Matcher) FindItemizedReceiptForPayment(
	payment document.Document,
	pool []document.Document,
	allowFallback bool,
) *document.Document {
	if payment.DocumentType != document.TypePaymentReceipt {
		return nil
	}

	var best *document.Document
	bestScore := -1

	if payment.TransactionNumber != "" {
		for i := range pool {
			candidate := pool[i]
			if candidate.DocumentType != document.TypeItemizedReceipt {
				continue
			}
			if !identifiersMatch(payment.TransactionNumber, candidate.TransactionNumber) {
				continue
			}
			score := m.MatchConfidence(payment, candidate).Score
			if score > bestScore {
				match := pool[i]
				best = &match
				bestScore = score
			}
		}
		if best != nil {
			return best
		}
	}

	if !allowFallback {
		return nil
	}

	for i := range pool {
		candidate := pool[i]
		if candidate.DocumentType != document.TypeItemizedReceipt {
			continue
		}
		if !vendorsMatch(payment.Vendor, candidate.Vendor) {
			continue
		}
		if !payment.HasDate() || !candidate.HasDate() {
			continue
		}
		if dayGap(payment, candidate) >= m.config.DateWindowDays {
			continue
		}
		score := m.MatchConfidence(payment, candidate).Score
		if score > bestScore {
			match := pool[i]
			best = &match
			bestScore = score
		}
	}

	return best
}
