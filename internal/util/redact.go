package util

import "regexp"

var (
	reEmail = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	reToken = regexp.MustCompile(`(?i)\b(api[_-]?key|secret|token|password|key)(\s*[=:]\s*)([A-Za-z0-9_\-]{8,})`)
	reBearer = regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._\-]{8,}`)
)

// RedactPII masks e-mail addresses and credential-looking values before
// text leaves the machine.
func RedactPII(s string) string {
	s = reEmail.ReplaceAllString(s, "[redacted-email]")
	s = reToken.ReplaceAllString(s, "$1$2[redacted]")
	s = reBearer.ReplaceAllString(s, "Bearer [redacted]")
	return s
}
