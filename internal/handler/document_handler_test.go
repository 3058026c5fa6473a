package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"japanese-doc-reader/internal/domain"
	"japanese-doc-reader/internal/service"

	"github.com/gorilla/mux"
)

// Mock implementations for handler testing

type MockConfig struct{}

func (MockConfig) GetServerPort() string              { return "8000" }
func (MockConfig) GetLogLevel() string                { return "info" }
func (MockConfig) GetLogFormat() string               { return "console" }
func (MockConfig) GetMaxUploadSize() int64            { return 10 * 1024 * 1024 }
func (MockConfig) GetPreviewScale() float64           { return 2.0 }
func (MockConfig) GetOCRScale() float64               { return 3.0 }
func (MockConfig) GetAIModel() string                 { return "gpt-4o" }
func (MockConfig) GetTTSVoice() string                { return "nova" }
func (MockConfig) GetAIRequestTimeout() time.Duration { return 5 * time.Second }
func (MockConfig) GetDataDir() string                 { return "./data" }
func (MockConfig) GetSettingsPath() string            { return "" }

type MockPagedDocument struct {
	pages int
}

func (m *MockPagedDocument) PageCount() int { return m.pages }

func (m *MockPagedDocument) RenderPNG(index int, scale float64) ([]byte, error) {
	if index < 0 || index >= m.pages {
		return nil, errors.New("index out of range")
	}
	return []byte("rendered-png"), nil
}

func (m *MockPagedDocument) Close() error { return nil }

type MockOpener struct {
	pages int
}

func (m *MockOpener) Open(path string) (domain.PagedDocument, error) {
	return &MockPagedDocument{pages: m.pages}, nil
}

func newDocumentHandler(t *testing.T, pages int) (*DocumentHandler, *service.SessionManager) {
	t.Helper()
	logger := NewMockHandlerLogger()
	sessions := service.NewSessionManager(logger)
	t.Cleanup(sessions.CloseAll)
	classifier := service.NewClassifier(&MockOpener{pages: pages}, logger)
	return NewDocumentHandler(sessions, classifier, MockConfig{}, logger), sessions
}

func multipartBody(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	writer.Close()
	return &buf, writer.FormDataContentType()
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("Failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

func TestUploadDocumentImage(t *testing.T) {
	handler, _ := newDocumentHandler(t, 0)

	body, contentType := multipartBody(t, "photo.png", testPNG(t))
	req := httptest.NewRequest("POST", "/upload-doc", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.UploadDocument(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Pages    int    `json:"pages"`
		IsPDF    bool   `json:"is_pdf"`
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Pages != 1 || resp.IsPDF || resp.Filename != "photo.png" {
		t.Errorf("Unexpected upload response: %+v", resp)
	}
}

func TestUploadDocumentPDF(t *testing.T) {
	handler, _ := newDocumentHandler(t, 3)

	body, contentType := multipartBody(t, "book.pdf", []byte("%PDF-1.7 body"))
	req := httptest.NewRequest("POST", "/upload-doc", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.UploadDocument(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Pages int  `json:"pages"`
		IsPDF bool `json:"is_pdf"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Pages != 3 || !resp.IsPDF {
		t.Errorf("Unexpected upload response: %+v", resp)
	}
}

func TestUploadDocumentMissingFile(t *testing.T) {
	handler, _ := newDocumentHandler(t, 0)

	req := httptest.NewRequest("POST", "/upload-doc", strings.NewReader(""))
	rec := httptest.NewRecorder()

	handler.UploadDocument(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without a file field, got %d", rec.Code)
	}
}

func TestUploadDocumentEmptyFile(t *testing.T) {
	handler, _ := newDocumentHandler(t, 0)

	body, contentType := multipartBody(t, "empty.png", nil)
	req := httptest.NewRequest("POST", "/upload-doc", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.UploadDocument(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an empty upload, got %d", rec.Code)
	}
}

func TestGetPageReturnsBase64PNG(t *testing.T) {
	handler, sessions := newDocumentHandler(t, 0)

	pngBytes := testPNG(t)
	sessions.Get(service.DefaultSessionID).Replace(&domain.ClassifiedDocument{
		Kind:       domain.KindImage,
		ImageBytes: pngBytes,
		PageCount:  1,
		Filename:   "photo.png",
	})

	req := httptest.NewRequest("GET", "/page/0", nil)
	req = mux.SetURLVars(req, map[string]string{"num": "0"})
	rec := httptest.NewRecorder()

	handler.GetPage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	decoded, err := base64.StdEncoding.DecodeString(resp["image"])
	if err != nil {
		t.Fatalf("Expected valid base64 image payload: %v", err)
	}
	if !bytes.Equal(decoded, pngBytes) {
		t.Error("Expected the stored page bytes round-tripped through base64")
	}
}

func TestGetPageOutOfRange(t *testing.T) {
	handler, sessions := newDocumentHandler(t, 0)

	sessions.Get(service.DefaultSessionID).Replace(&domain.ClassifiedDocument{
		Kind:       domain.KindImage,
		ImageBytes: testPNG(t),
		PageCount:  1,
		Filename:   "photo.png",
	})

	req := httptest.NewRequest("GET", "/page/5", nil)
	req = mux.SetURLVars(req, map[string]string{"num": "5"})
	rec := httptest.NewRecorder()

	handler.GetPage(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an out-of-range page, got %d", rec.Code)
	}
}

func TestGetPageNoDocument(t *testing.T) {
	handler, _ := newDocumentHandler(t, 0)

	req := httptest.NewRequest("GET", "/page/0", nil)
	req = mux.SetURLVars(req, map[string]string{"num": "0"})
	rec := httptest.NewRecorder()

	handler.GetPage(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 with no document loaded, got %d", rec.Code)
	}
}

func TestGetPageBadNumber(t *testing.T) {
	handler, _ := newDocumentHandler(t, 0)

	req := httptest.NewRequest("GET", "/page/abc", nil)
	req = mux.SetURLVars(req, map[string]string{"num": "abc"})
	rec := httptest.NewRecorder()

	handler.GetPage(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a non-integer page, got %d", rec.Code)
	}
}

func TestNavigate(t *testing.T) {
	handler, sessions := newDocumentHandler(t, 0)

	sessions.Get(service.DefaultSessionID).Replace(&domain.ClassifiedDocument{
		Kind:      domain.KindPDF,
		Doc:       &MockPagedDocument{pages: 3},
		PageCount: 3,
		Filename:  "book.pdf",
	})

	navigate := func(delta string) (int, int) {
		req := httptest.NewRequest("POST", "/navigate", strings.NewReader("delta="+delta))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		handler.Navigate(rec, req)

		var resp map[string]int
		_ = json.NewDecoder(rec.Body).Decode(&resp)
		return rec.Code, resp["page"]
	}

	if code, page := navigate("1"); code != http.StatusOK || page != 1 {
		t.Errorf("Expected page 1, got code %d page %d", code, page)
	}
	if code, page := navigate("5"); code != http.StatusOK || page != 1 {
		t.Errorf("Expected clamped no-op at page 1, got code %d page %d", code, page)
	}
	if code, page := navigate("-1"); code != http.StatusOK || page != 0 {
		t.Errorf("Expected page 0, got code %d page %d", code, page)
	}
}

func TestNavigateNoDocument(t *testing.T) {
	handler, _ := newDocumentHandler(t, 0)

	req := httptest.NewRequest("POST", "/navigate", strings.NewReader("delta=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	handler.Navigate(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 with no document loaded, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	handler, sessions := newDocumentHandler(t, 0)

	sessions.Get(service.DefaultSessionID).Replace(&domain.ClassifiedDocument{
		Kind:      domain.KindPDF,
		Doc:       &MockPagedDocument{pages: 7},
		PageCount: 7,
		Filename:  "book.pdf",
	})

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()

	handler.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp struct {
		Status     string `json:"status"`
		HasPDF     bool   `json:"has_pdf"`
		HasImage   bool   `json:"has_image"`
		IsPDF      bool   `json:"is_pdf"`
		TotalPages int    `json:"total_pages"`
		Filename   string `json:"filename"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != "ok" || !resp.HasPDF || resp.HasImage || !resp.IsPDF {
		t.Errorf("Unexpected health flags: %+v", resp)
	}
	if resp.TotalPages != 7 || resp.Filename != "book.pdf" {
		t.Errorf("Unexpected health document state: %+v", resp)
	}
}
