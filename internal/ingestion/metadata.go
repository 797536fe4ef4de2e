package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Metadata describes where an ingested document came from.
type Metadata struct {
	Source    string    `json:"source"` // file, url or upload
	URL       string    `json:"url,omitempty"`
	Filename  string    `json:"filename,omitempty"`
	MIME      string    `json:"mime"`
	Platform  string    `json:"platform,omitempty"`
	Bytes     int       `json:"bytes"`
	Chars     int       `json:"chars"`
	Hash      string    `json:"hash"` // SHA256 of the cleaned text
	Timestamp time.Time `json:"timestamp"`
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
