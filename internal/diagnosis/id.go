package diagnosis

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
)

const idBytes = 8

var idPattern = regexp.MustCompile(`^[0-9a-f]{16}$`)

// NewID returns 16 lowercase hex characters from crypto/rand.
func NewID() (string, error) {
	b := make([]byte, idBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func IsValidID(id string) bool {
	return idPattern.MatchString(id)
}
