package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Renderers
const (
	RendererFile    = "file"
	RendererText    = "text"
	RendererHTTP    = "http"
	RendererBrowser = "browser"
)

// Metadata describes where imported menu text came from.
type Metadata struct {
	Source    string `json:"source,omitempty"` // file path or URL
	Timestamp string `json:"timestamp"`        // RFC3339 format
	Hash      string `json:"hash"`             // SHA256 hex digest of the cleaned text
	Platform  string `json:"platform,omitempty"`
	Renderer  string `json:"renderer"`
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(content string, source string) *Metadata {
	return &Metadata{
		Source:    source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
	}
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
