package service

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"japanese-doc-reader/internal/domain"

	"golang.org/x/sync/errgroup"
)

// Session owns at most one active document: a page pointer, the opened PDF
// handle with its backing temp file, or a normalized image buffer. All
// operations hold the session mutex, so a render racing a replace observes
// either the old document in full or the new one, never a half state.
type Session struct {
	mu sync.Mutex

	kind      domain.DocumentKind
	doc       domain.PagedDocument
	imageData []byte
	pageCount int
	page      int
	tempPath  string
	filename  string

	logger domain.Logger
}

// NewSession creates a new empty session
func NewSession(logger domain.Logger) *Session {
	return &Session{logger: logger}
}

// Replace releases the previous document unconditionally (close handle,
// delete temp file) and adopts the new one with the page pointer reset to 0.
func (s *Session) Replace(doc *domain.ClassifiedDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.releaseLocked()

	s.kind = doc.Kind
	s.doc = doc.Doc
	s.imageData = doc.ImageBytes
	s.pageCount = doc.PageCount
	s.tempPath = doc.TempPath
	s.filename = doc.Filename
	s.page = 0

	s.logger.Info("document loaded",
		"kind", doc.Kind.String(),
		"filename", doc.Filename,
		"pages", doc.PageCount,
	)
}

// RenderPage rasterizes the requested page as PNG. For an image document the
// stored normalized buffer is returned directly and scale is ignored: a
// single image is fixed raster data with nothing to rasterize. index must be
// in [0, pageCount); anything else, or no loaded document, fails with
// ErrPageOutOfRange.
func (s *Session) RenderPage(index int, scale float64) (*domain.RenderedPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.kind {
	case domain.KindNone:
		return nil, domain.ErrNoDocument
	case domain.KindImage:
		if index != 0 {
			return nil, domain.ErrPageOutOfRange
		}
		return &domain.RenderedPage{Index: 0, PNG: s.imageData}, nil
	}

	if index < 0 || index >= s.pageCount {
		return nil, domain.ErrPageOutOfRange
	}
	pngBytes, err := s.doc.RenderPNG(index, scale)
	if err != nil {
		return nil, err
	}
	return &domain.RenderedPage{Index: index, PNG: pngBytes}, nil
}

// Navigate moves the page pointer by delta, clamped as a no-op at either
// boundary, and returns the resulting page. Matches the UI behavior of
// disabled next/prev buttons at the edges.
func (s *Session) Navigate(delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.kind == domain.KindNone {
		return 0, domain.ErrNoDocument
	}
	next := s.page + delta
	if next >= 0 && next < s.pageCount {
		s.page = next
	}
	return s.page, nil
}

// CurrentPage returns the active page index.
func (s *Session) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// BaseName returns the upload filename without extension, for artifact
// naming. Defaults to "untitled" when nothing is loaded.
func (s *Session) BaseName() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := filepath.Base(s.filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." {
		return "untitled"
	}
	return name
}

// Snapshot returns session state for health reporting.
func (s *Session) Snapshot() domain.SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.SessionInfo{
		HasPDF:     s.kind == domain.KindPDF,
		HasImage:   s.kind == domain.KindImage,
		IsPDF:      s.kind == domain.KindPDF,
		TotalPages: s.pageCount,
		Filename:   s.filename,
	}
}

// Close releases the document handle and temp file. Idempotent: safe to call
// with nothing loaded and safe to call twice.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked()
}

// releaseLocked frees held resources. Callers must hold s.mu.
func (s *Session) releaseLocked() {
	if s.doc != nil {
		if err := s.doc.Close(); err != nil {
			s.logger.Error("failed to close document handle", err, "filename", s.filename)
		}
		s.doc = nil
	}
	if s.tempPath != "" {
		if err := os.Remove(s.tempPath); err != nil && !os.IsNotExist(err) {
			s.logger.Error("failed to remove temp file", err, "path", s.tempPath)
		}
		s.tempPath = ""
	}
	s.kind = domain.KindNone
	s.imageData = nil
	s.pageCount = 0
	s.page = 0
	s.filename = ""
}

// DefaultSessionID is the slot used by clients that do not identify
// themselves, which keeps the single-user page working unchanged.
const DefaultSessionID = "default"

// SessionManager keys sessions by a client-supplied identifier so concurrent
// clients cannot corrupt each other's view of the current document.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   domain.Logger
}

// NewSessionManager creates a new session manager
func NewSessionManager(logger domain.Logger) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

// Get returns the session for the given ID, creating it on first use.
func (m *SessionManager) Get(id string) *Session {
	if id == "" {
		id = DefaultSessionID
	}

	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return sess
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[id]; ok {
		return sess
	}
	sess = NewSession(m.logger)
	m.sessions[id] = sess
	m.logger.Debug("session created", "session_id", id)
	return sess
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CloseAll tears down every session, releasing handles and temp files.
// Invoked on process shutdown.
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	var g errgroup.Group
	for id, sess := range sessions {
		id, sess := id, sess
		g.Go(func() error {
			sess.Close()
			m.logger.Debug("session closed", "session_id", id)
			return nil
		})
	}
	_ = g.Wait()
}
