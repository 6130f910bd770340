// Package identity derives a stable candidate identifier used as the
// idempotency key for all graph writes and reads within a screening run.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/spigell/resume-screen/internal/resume"
)

const (
	fingerprintPrefix = "cand-"
	fingerprintLen    = 12
)

// Resolve returns a stable identifier for a candidate. A non-empty email from
// the extracted contact block is used verbatim after trimming. Otherwise a
// deterministic fingerprint of the full résumé text is used, so the same text
// resolves to the same identifier on every run.
func Resolve(contact resume.Contact, resumeText string) string {
	if email := strings.TrimSpace(contact.Email); email != "" {
		return email
	}

	return Fingerprint(resumeText)
}

// Fingerprint computes the content-hash fallback identifier for the given
// résumé text.
func Fingerprint(resumeText string) string {
	sum := sha256.Sum256([]byte(resumeText))
	return fingerprintPrefix + hex.EncodeToString(sum[:])[:fingerprintLen]
}
