package internal

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// GenerateCardID creates a unique ID for a card based on timestamp and word
// Format: epochMillis_md5(word)[:8]
func GenerateCardID(word string) string {
	epochMillis := time.Now().UnixNano() / 1000000

	hash := md5.Sum([]byte(word))
	hashStr := hex.EncodeToString(hash[:])[:8]

	return fmt.Sprintf("%d_%s", epochMillis, hashStr)
}

// SanitizePrefix keeps only the ASCII letters and digits of s, truncated to
// max characters. The result may be empty.
func SanitizePrefix(s string, max int) string {
	var b strings.Builder
	for _, r := range s {
		if b.Len() >= max {
			break
		}
		if isAlphaNumeric(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isAlphaNumeric(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// isAlphaNumeric checks if a rune is an ASCII letter or digit
func isAlphaNumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
