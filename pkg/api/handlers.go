package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"

	"github.com/gbkf/gbkf-go/pkg/gbkf"
	"github.com/gbkf/gbkf-go/pkg/jsondoc"
)

const defaultMaxDocumentSize = 16 << 20

// Server holds the API server state
type Server struct {
	archive IArchive
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a new API server
func NewServer(archive IArchive, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		archive: archive,
		config:  config,
		metrics: metrics,
	}
}

// handleHealth reports liveness and the current archive document count.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.archive.Count()
	if err != nil {
		s.metrics.RecordHealthCheck(false)
		sendError(w, "Archive unavailable", http.StatusServiceUnavailable)
		return
	}
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]interface{}{
		"status":    "healthy",
		"documents": count,
	})
}

// handleInspect decodes the posted document and returns its JSON form.
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readBody(w, r)
	if !ok {
		return
	}

	doc, err := gbkf.Decode(data)
	if err != nil {
		s.metrics.RecordDecode(false, 0, decodeReason(err))
		sendError(w, fmt.Sprintf("Invalid document: %v", err), http.StatusUnprocessableEntity)
		return
	}
	s.metrics.RecordDecode(true, len(data), "")

	rendered, err := jsondoc.FromDocument(doc)
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to render document: %v", err), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, rendered)
}

// handleValidate decodes the posted document and reports the outcome
// without returning its contents. A malformed document is still a 200;
// the result carries the decode error text.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readBody(w, r)
	if !ok {
		return
	}

	doc, err := gbkf.Decode(data)
	if err != nil {
		s.metrics.RecordDecode(false, 0, decodeReason(err))
		sendSuccess(w, ValidationResult{
			Valid: false,
			Bytes: len(data),
			Error: err.Error(),
		})
		return
	}
	s.metrics.RecordDecode(true, len(data), "")
	sendSuccess(w, ValidationResult{
		Valid:   true,
		Entries: doc.Len(),
		Bytes:   len(data),
	})
}

// handleStore validates the posted document and stores the raw bytes in
// the archive. Invalid documents are rejected; the archive only ever
// holds decodable data.
func (s *Server) handleStore(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	data, ok := s.readBody(w, r)
	if !ok {
		return
	}

	doc, err := gbkf.Decode(data)
	if err != nil {
		s.metrics.RecordDecode(false, 0, decodeReason(err))
		sendError(w, fmt.Sprintf("Invalid document: %v", err), http.StatusUnprocessableEntity)
		return
	}
	s.metrics.RecordDecode(true, len(data), "")

	id, err := s.archive.Store(data)
	if err != nil {
		s.metrics.RecordArchiveOperation("store", false, time.Since(start))
		sendError(w, fmt.Sprintf("Failed to store document: %v", err), http.StatusInternalServerError)
		return
	}
	s.metrics.RecordArchiveOperation("store", true, time.Since(start))

	sendSuccess(w, StoreResult{
		ID:      id.String(),
		Entries: doc.Len(),
		Bytes:   len(data),
	})
}

// handleFetch returns the stored document bytes verbatim.
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	data, err := s.archive.Load(id)
	if err != nil {
		s.metrics.RecordArchiveOperation("load", false, time.Since(start))
		sendError(w, "Document not found", http.StatusNotFound)
		return
	}
	s.metrics.RecordArchiveOperation("load", true, time.Since(start))

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleDelete removes a stored document. Deleting an absent id succeeds.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := s.archive.Delete(id); err != nil {
		s.metrics.RecordArchiveOperation("delete", false, time.Since(start))
		sendError(w, fmt.Sprintf("Failed to delete document: %v", err), http.StatusInternalServerError)
		return
	}
	s.metrics.RecordArchiveOperation("delete", true, time.Since(start))
	sendSuccess(w, map[string]string{"id": id.String()})
}

// readBody reads the request body up to the configured size cap. On
// failure it writes the error response and returns ok=false.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	limit := s.config.MaxDocumentSize
	if limit <= 0 {
		limit = defaultMaxDocumentSize
	}
	body := http.MaxBytesReader(w, r.Body, limit)
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sendError(w, fmt.Sprintf("Document exceeds %d byte limit", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return nil, false
		}
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return nil, false
	}
	return data, true
}

func parseID(w http.ResponseWriter, r *http.Request) (ksuid.KSUID, bool) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid document id", http.StatusBadRequest)
		return ksuid.Nil, false
	}
	return id, true
}

// decodeReason labels a decode failure by its sentinel for metrics.
func decodeReason(err error) string {
	switch {
	case errors.Is(err, gbkf.ErrTruncated):
		return "truncated"
	case errors.Is(err, gbkf.ErrBadMagic):
		return "bad_magic"
	case errors.Is(err, gbkf.ErrUnsupportedVersion):
		return "unsupported_version"
	case errors.Is(err, gbkf.ErrUnknownTypeTag):
		return "unknown_type_tag"
	case errors.Is(err, gbkf.ErrTrailingBytes):
		return "trailing_bytes"
	case errors.Is(err, gbkf.ErrDuplicateKey):
		return "duplicate_key"
	case errors.Is(err, gbkf.ErrChecksumMismatch):
		return "checksum_mismatch"
	case errors.Is(err, gbkf.ErrTypeMismatch):
		return "type_mismatch"
	default:
		return "other"
	}
}

// startMetricsUpdater refreshes archive gauges in the background.
func (s *Server) startMetricsUpdater() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if count, err := s.archive.Count(); err == nil {
			s.metrics.UpdateArchiveStats(count)
		}
	}
}
