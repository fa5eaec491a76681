package linker

import (
	"github.com/taxfolio/ledgerlink-backend/internal/domain/document"
)

// CalculateVerificationLevel classifies how well-documented a document
// is, resolving its linked counterpart from the pool:
//
//   - strong: linked, and both sides carry supporting documentation
//     (receipt image, check/deposit pairing)
//   - bank: carries documentation but no qualifying link
//   - self_reported: manual entry, no documentation, no link
func CalculateVerificationLevel(doc document.Document, pool []document.Document) document.VerificationLevel {
	var counterpart *document.Document
	if doc.IsLinked() {
		if i := indexOf(pool, doc.LinkedTransactionID); i >= 0 {
			c := pool[i]
			counterpart = &c
		}
	}
	return verificationFor(doc, counterpart)
}

func verificationFor(doc document.Document, counterpart *document.Document) document.VerificationLevel {
	if doc.IsLinked() && counterpart != nil && doc.HasAttachment && counterpart.HasAttachment {
		return document.VerificationStrong
	}
	if doc.HasAttachment {
		return document.VerificationBank
	}
	return document.VerificationSelfReported
}
