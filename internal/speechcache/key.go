package speechcache

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"

	"codeberg.org/snonux/wordspeak/internal"
)

const (
	// Ext is the extension of every cached audio file
	Ext = ".mp3"

	prefixLen = 10
	digestLen = 16
)

// namePattern matches the file names produced by FileName
var namePattern = regexp.MustCompile(`^[A-Za-z0-9]{0,10}_[0-9a-f]{16}\.mp3$`)

// Key derives the cache key for text: up to ten ASCII letters and digits of
// the text, an underscore and the first 16 hex digits of its SHA-256 digest.
// The text is hashed exactly as given.
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	digest := hex.EncodeToString(sum[:])[:digestLen]
	return internal.SanitizePrefix(text, prefixLen) + "_" + digest
}

// FileName returns the cache file name for text
func FileName(text string) string {
	return Key(text) + Ext
}

// validName reports whether name could have been produced by FileName
func validName(name string) bool {
	return namePattern.MatchString(name)
}
