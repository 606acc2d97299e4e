package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/ksuid"

	"github.com/gbkf/gbkf-go/pkg/gbkf"
)

// fakeArchive is an in-memory IArchive for handler tests.
type fakeArchive struct {
	docs map[ksuid.KSUID][]byte
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{docs: make(map[ksuid.KSUID][]byte)}
}

func (f *fakeArchive) Store(data []byte) (ksuid.KSUID, error) {
	id := ksuid.New()
	f.docs[id] = append([]byte(nil), data...)
	return id, nil
}

func (f *fakeArchive) Load(id ksuid.KSUID) ([]byte, error) {
	data, ok := f.docs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func (f *fakeArchive) Delete(id ksuid.KSUID) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeArchive) Count() (int, error) {
	return len(f.docs), nil
}

func setupTestServer(t *testing.T) (*Server, *fakeArchive) {
	t.Helper()

	archive := newFakeArchive()
	metrics := NewMetrics(prometheus.NewRegistry())
	server := NewServer(archive, ServerConfig{APIKey: "test-key"}, metrics)

	return server, archive
}

// encodeTestDocument builds a small valid document for request bodies.
func encodeTestDocument(t *testing.T) []byte {
	t.Helper()

	doc := gbkf.NewDocument(7, 2)
	if err := doc.Append("name", gbkf.StringValue("probe")); err != nil {
		t.Fatalf("Failed to append entry: %v", err)
	}
	if err := doc.Append("count", gbkf.Uint16Value(512)); err != nil {
		t.Fatalf("Failed to append entry: %v", err)
	}

	data, err := gbkf.Encode(doc)
	if err != nil {
		t.Fatalf("Failed to encode document: %v", err)
	}
	return data
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()

	var response APIResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return response
}

func TestServer_handleHealth(t *testing.T) {
	server, _ := setupTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	server.handleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	response := decodeResponse(t, w)
	if !response.Success {
		t.Error("Expected success to be true")
	}
}

func TestServer_handleInspect(t *testing.T) {
	server, _ := setupTestServer(t)

	t.Run("valid document", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/documents/inspect", bytes.NewReader(encodeTestDocument(t)))
		w := httptest.NewRecorder()

		server.handleInspect(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		response := decodeResponse(t, w)
		if !response.Success {
			t.Error("Expected success to be true")
		}

		data, ok := response.Data.(map[string]interface{})
		if !ok {
			t.Fatalf("Expected object data, got %T", response.Data)
		}
		if data["spec_id"] != float64(7) {
			t.Errorf("Expected spec_id 7, got %v", data["spec_id"])
		}
		entries, ok := data["entries"].([]interface{})
		if !ok || len(entries) != 2 {
			t.Errorf("Expected 2 entries, got %v", data["entries"])
		}
	})

	t.Run("malformed document", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/documents/inspect", bytes.NewReader([]byte("not gbkf")))
		w := httptest.NewRecorder()

		server.handleInspect(w, req)

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected status 422, got %d", w.Code)
		}
	})
}

func TestServer_handleValidate(t *testing.T) {
	server, _ := setupTestServer(t)

	t.Run("valid document", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/documents/validate", bytes.NewReader(encodeTestDocument(t)))
		w := httptest.NewRecorder()

		server.handleValidate(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		response := decodeResponse(t, w)
		data := response.Data.(map[string]interface{})
		if data["valid"] != true {
			t.Errorf("Expected valid true, got %v", data["valid"])
		}
		if data["entries"] != float64(2) {
			t.Errorf("Expected 2 entries, got %v", data["entries"])
		}
	})

	t.Run("truncated document reports invalid with 200", func(t *testing.T) {
		buf := encodeTestDocument(t)
		req := httptest.NewRequest("POST", "/documents/validate", bytes.NewReader(buf[:len(buf)-1]))
		w := httptest.NewRecorder()

		server.handleValidate(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		response := decodeResponse(t, w)
		data := response.Data.(map[string]interface{})
		if data["valid"] != false {
			t.Errorf("Expected valid false, got %v", data["valid"])
		}
		if data["error"] == nil {
			t.Error("Expected error text to be present")
		}
	})
}

func TestServer_handleStore(t *testing.T) {
	server, archive := setupTestServer(t)

	t.Run("valid document", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/documents", bytes.NewReader(encodeTestDocument(t)))
		w := httptest.NewRecorder()

		server.handleStore(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		response := decodeResponse(t, w)
		data := response.Data.(map[string]interface{})
		idStr, _ := data["id"].(string)
		id, err := ksuid.Parse(idStr)
		if err != nil {
			t.Fatalf("Expected ksuid id, got %q", idStr)
		}
		if _, ok := archive.docs[id]; !ok {
			t.Error("Expected document to be in the archive")
		}
	})

	t.Run("invalid document rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/documents", bytes.NewReader([]byte{0x00}))
		w := httptest.NewRecorder()

		server.handleStore(w, req)

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected status 422, got %d", w.Code)
		}
		if len(archive.docs) != 0 {
			t.Error("Expected archive to stay empty")
		}
	})
}

func TestServer_handleFetch(t *testing.T) {
	server, archive := setupTestServer(t)

	data := encodeTestDocument(t)
	id, err := archive.Store(data)
	if err != nil {
		t.Fatalf("Failed to seed archive: %v", err)
	}

	t.Run("existing document", func(t *testing.T) {
		r := chi.NewRouter()
		r.Get("/documents/{id}", server.handleFetch)

		req := httptest.NewRequest("GET", "/documents/"+id.String(), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		if !bytes.Equal(w.Body.Bytes(), data) {
			t.Error("Expected stored bytes back verbatim")
		}
	})

	t.Run("missing document", func(t *testing.T) {
		r := chi.NewRouter()
		r.Get("/documents/{id}", server.handleFetch)

		req := httptest.NewRequest("GET", "/documents/"+ksuid.New().String(), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		r := chi.NewRouter()
		r.Get("/documents/{id}", server.handleFetch)

		req := httptest.NewRequest("GET", "/documents/not-a-ksuid", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestServer_handleDelete(t *testing.T) {
	server, archive := setupTestServer(t)

	id, err := archive.Store(encodeTestDocument(t))
	if err != nil {
		t.Fatalf("Failed to seed archive: %v", err)
	}

	r := chi.NewRouter()
	r.Delete("/documents/{id}", server.handleDelete)

	req := httptest.NewRequest("DELETE", "/documents/"+id.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if len(archive.docs) != 0 {
		t.Error("Expected document to be gone")
	}

	// Deleting again still succeeds.
	req = httptest.NewRequest("DELETE", "/documents/"+id.String(), nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 on repeat delete, got %d", w.Code)
	}
}

func TestServer_bodySizeLimit(t *testing.T) {
	archive := newFakeArchive()
	metrics := NewMetrics(prometheus.NewRegistry())
	server := NewServer(archive, ServerConfig{MaxDocumentSize: 32}, metrics)

	req := httptest.NewRequest("POST", "/documents", bytes.NewReader(make([]byte, 64)))
	w := httptest.NewRecorder()

	server.handleStore(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected status 413, got %d", w.Code)
	}
}
