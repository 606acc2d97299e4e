package api

import "github.com/segmentio/ksuid"

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ValidationResult reports the outcome of decoding a submitted document.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Entries int    `json:"entries,omitempty"`
	Bytes   int    `json:"bytes"`
	Error   string `json:"error,omitempty"`
}

// StoreResult carries the archive id assigned to a stored document.
type StoreResult struct {
	ID      string `json:"id"`
	Entries int    `json:"entries"`
	Bytes   int    `json:"bytes"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port   int
	Bind   string
	APIKey string

	// MaxDocumentSize caps accepted request bodies, in bytes. Zero means
	// the default of 16 MiB.
	MaxDocumentSize int64
}

// IArchive defines the archive operations the server depends on.
type IArchive interface {
	Store(data []byte) (ksuid.KSUID, error)
	Load(id ksuid.KSUID) ([]byte, error)
	Delete(id ksuid.KSUID) error
	Count() (int, error)
}
