package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"japanese-doc-reader/internal/domain"
	"japanese-doc-reader/internal/service"
)

// AIHandler handles the AI-backed operations: OCR, furigana annotation,
// question answering, text analysis and speech synthesis. Local conditions
// (missing text, bad page number) are rejected before any AI call is made.
type AIHandler struct {
	sessions  *service.SessionManager
	gateway   domain.AIGateway
	artifacts *service.ArtifactStore
	config    domain.Config
	logger    domain.Logger
}

// NewAIHandler creates a new AI handler
func NewAIHandler(sessions *service.SessionManager, gateway domain.AIGateway, artifacts *service.ArtifactStore, config domain.Config, logger domain.Logger) *AIHandler {
	return &AIHandler{
		sessions:  sessions,
		gateway:   gateway,
		artifacts: artifacts,
		config:    config,
		logger:    logger,
	}
}

// OCRPage renders the given page at OCR resolution and extracts its text.
func (h *AIHandler) OCRPage(w http.ResponseWriter, r *http.Request) {
	pageNum, err := strconv.Atoi(r.FormValue("page_num"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "page_num must be an integer")
		return
	}

	sess := h.sessions.Get(GetSessionID(r))
	page, err := sess.RenderPage(pageNum, h.config.GetOCRScale())
	if err != nil {
		// A bad page selection is a client error on this route.
		if errors.Is(err, domain.ErrPageOutOfRange) || errors.Is(err, domain.ErrNoDocument) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeDomainError(w, err)
		return
	}

	text, err := h.gateway.OCR(r.Context(), page.PNG, domain.DefaultOCRTemperature)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

// Furigana annotates every kanji run with ruby readings.
func (h *AIHandler) Furigana(w http.ResponseWriter, r *http.Request) {
	h.furigana(w, r, domain.FuriganaNormal)
}

// FuriganaPlus annotates only the first occurrence of each kanji word.
func (h *AIHandler) FuriganaPlus(w http.ResponseWriter, r *http.Request) {
	h.furigana(w, r, domain.FuriganaPlus)
}

func (h *AIHandler) furigana(w http.ResponseWriter, r *http.Request, mode domain.FuriganaMode) {
	text := strings.TrimSpace(r.FormValue("text"))
	if text == "" {
		writeDomainError(w, domain.ErrEmptyText)
		return
	}

	html, err := h.gateway.AnnotateFurigana(r.Context(), text, mode)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"html": html})
}

// Ask answers a free-form question about the supplied context text.
func (h *AIHandler) Ask(w http.ResponseWriter, r *http.Request) {
	contextText := strings.TrimSpace(r.FormValue("context"))
	question := strings.TrimSpace(r.FormValue("question"))
	if contextText == "" || question == "" {
		writeError(w, http.StatusBadRequest, "context and question are required")
		return
	}

	answer, err := h.gateway.Ask(r.Context(), contextText, question)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

// Analyze returns a grammar/structure analysis of the supplied text.
func (h *AIHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	text := strings.TrimSpace(r.FormValue("text"))
	if text == "" {
		writeDomainError(w, domain.ErrEmptyText)
		return
	}

	analysis, err := h.gateway.Analyze(r.Context(), text)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"analysis": analysis})
}

// WordList returns a vocabulary table for the supplied text.
func (h *AIHandler) WordList(w http.ResponseWriter, r *http.Request) {
	text := strings.TrimSpace(r.FormValue("text"))
	if text == "" {
		writeDomainError(w, domain.ErrEmptyText)
		return
	}

	words, err := h.gateway.WordList(r.Context(), text)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"words": words})
}

// Speech synthesizes the text and streams the MP3 back.
func (h *AIHandler) Speech(w http.ResponseWriter, r *http.Request) {
	text := strings.TrimSpace(r.FormValue("text"))
	if text == "" {
		writeDomainError(w, domain.ErrEmptyText)
		return
	}

	audio, err := h.gateway.SynthesizeSpeech(r.Context(), text, h.voice(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", "inline; filename=speech.mp3")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}

// SaveText persists the supplied text under the data/ subtree.
func (h *AIHandler) SaveText(w http.ResponseWriter, r *http.Request) {
	text := strings.TrimSpace(r.FormValue("text"))
	if text == "" {
		writeDomainError(w, domain.ErrEmptyText)
		return
	}

	sess := h.sessions.Get(GetSessionID(r))
	path, err := h.artifacts.SaveText(sess.BaseName(), sess.CurrentPage()+1, text)
	if err != nil {
		h.logger.Error("failed to save text artifact", err)
		writeError(w, http.StatusInternalServerError, "failed to save text")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}

// SaveFurigana persists annotated ruby HTML under the data/ subtree.
func (h *AIHandler) SaveFurigana(w http.ResponseWriter, r *http.Request) {
	html := strings.TrimSpace(r.FormValue("html"))
	if html == "" {
		writeDomainError(w, domain.ErrEmptyText)
		return
	}
	plus := r.FormValue("plus") == "true" || r.FormValue("plus") == "1"

	sess := h.sessions.Get(GetSessionID(r))
	path, err := h.artifacts.SaveFurigana(sess.BaseName(), sess.CurrentPage()+1, html, plus)
	if err != nil {
		h.logger.Error("failed to save furigana artifact", err)
		writeError(w, http.StatusInternalServerError, "failed to save furigana")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}

// SaveSpeech synthesizes the text and persists the MP3 under data/audio.
func (h *AIHandler) SaveSpeech(w http.ResponseWriter, r *http.Request) {
	text := strings.TrimSpace(r.FormValue("text"))
	if text == "" {
		writeDomainError(w, domain.ErrEmptyText)
		return
	}

	audio, err := h.gateway.SynthesizeSpeech(r.Context(), text, h.voice(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sess := h.sessions.Get(GetSessionID(r))
	path, err := h.artifacts.SaveSpeech(sess.BaseName(), sess.CurrentPage()+1, audio)
	if err != nil {
		h.logger.Error("failed to save audio artifact", err)
		writeError(w, http.StatusInternalServerError, "failed to save audio")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}

func (h *AIHandler) voice(r *http.Request) string {
	if v := r.FormValue("voice"); v != "" {
		return v
	}
	return h.config.GetTTSVoice()
}
