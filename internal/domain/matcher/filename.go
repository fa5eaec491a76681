package matcher

import (
	"regexp"
	"strings"

	"github.com/taxfolio/ledgerlink-backend/internal/domain/document"
)

// copySuffix matches the junk file managers and browsers append to
// re-downloaded or duplicated files: "receipt copy", "receipt-copy",
// "receipt (1)", "receipt_2".
var copySuffix = regexp.MustCompile(`(?:[ _-]copy|\s*\(\d+\)|[_-]\d)$`)

// AreFilenamesSimilar reports whether two filenames likely refer to the
// same uploaded document. The comparison ignores case, file extension,
// and trailing copy markers, so "Receipt.jpg", "receipt.png", and
// "receipt (1).jpg" all count as similar. An empty name on either side
// is never similar: absence proves nothing.
func AreFilenamesSimilar(a, b string) bool {
	na := normalizeFilename(a)
	nb := normalizeFilename(b)
	return na != "" && nb != "" && na == nb
}

// normalizeFilename lower-cases, strips the extension, then peels copy
// suffixes until none remain.
func normalizeFilename(name string) string {
	base := strings.ToLower(strings.TrimSpace(name))
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	for {
		stripped := strings.TrimSpace(copySuffix.ReplaceAllString(base, ""))
		if stripped == base {
			break
		}
		base = stripped
	}
	return base
}

// FindDuplicatesByFilename returns every existing document whose
// filename is similar to the target's. All matches are returned, not
// just the best, since multiple prior uploads may share a name pattern.
func FindDuplicatesByFilename(target document.Document, pool []document.Document) []document.Document {
	matches := make([]document.Document, 0)
	if target.Filename == "" {
		return matches
	}

	for _, candidate := range pool {
		if candidate.ID == target.ID || candidate.Filename == "" {
			continue
		}
		if AreFilenamesSimilar(target.Filename, candidate.Filename) {
			matches = append(matches, candidate)
		}
	}

	return matches
}
