package util

import "testing"

func TestRedactPII(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"mail ops@example.com now", "mail [redacted-email] now"},
		{"token=abcdef123456", "token=[redacted]"},
		{"API_KEY: sk_live_12345678", "API_KEY: [redacted]"},
		{"Authorization: Bearer abc.def.ghijkl", "Authorization: Bearer [redacted]"},
		{"key=short", "key=short"},
		{"nothing here", "nothing here"},
	}
	for _, tt := range tests {
		if got := RedactPII(tt.in); got != tt.want {
			t.Fatalf("RedactPII(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
