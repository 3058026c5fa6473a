// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/base64"
	"io"
	"net/http"
	"strconv"

	"japanese-doc-reader/internal/domain"
	"japanese-doc-reader/internal/service"

	"github.com/gorilla/mux"
)

// DocumentHandler handles upload, navigation and page rendering requests
type DocumentHandler struct {
	sessions   *service.SessionManager
	classifier *service.Classifier
	config     domain.Config
	logger     domain.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(sessions *service.SessionManager, classifier *service.Classifier, config domain.Config, logger domain.Logger) *DocumentHandler {
	return &DocumentHandler{
		sessions:   sessions,
		classifier: classifier,
		config:     config,
		logger:     logger,
	}
}

type uploadResponse struct {
	Pages    int    `json:"pages"`
	IsPDF    bool   `json:"is_pdf"`
	Filename string `json:"filename"`
}

// UploadDocument handles PDF or image uploads. The previous document in the
// session is released before the new one is adopted, whatever happens.
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.GetMaxUploadSize())

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read upload", err, "filename", header.Filename)
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	classified, err := h.classifier.Classify(data, header.Filename)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.sessions.Get(GetSessionID(r)).Replace(classified)

	writeJSON(w, http.StatusOK, uploadResponse{
		Pages:    classified.PageCount,
		IsPDF:    classified.Kind == domain.KindPDF,
		Filename: classified.Filename,
	})
}

// GetPage returns the requested page rendered as base64 PNG.
func (h *DocumentHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	num, err := strconv.Atoi(vars["num"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "page number must be an integer")
		return
	}

	sess := h.sessions.Get(GetSessionID(r))
	page, err := sess.RenderPage(num, h.config.GetPreviewScale())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"image": base64.StdEncoding.EncodeToString(page.PNG),
	})
}

// Navigate moves the session's page pointer by the form delta. Stepping past
// either end is a no-op, not an error.
func (h *DocumentHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	delta, err := strconv.Atoi(r.FormValue("delta"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "delta must be an integer")
		return
	}

	page, err := h.sessions.Get(GetSessionID(r)).Navigate(delta)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"page": page})
}

type healthResponse struct {
	Status string `json:"status"`
	domain.SessionInfo
}

// Health reports service status and the session's document state.
func (h *DocumentHandler) Health(w http.ResponseWriter, r *http.Request) {
	info := h.sessions.Get(GetSessionID(r)).Snapshot()
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", SessionInfo: info})
}
