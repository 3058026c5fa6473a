package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"japanese-doc-reader/internal/domain"
)

// ArtifactStore writes generated outputs (OCR text, furigana HTML, speech
// audio) under a data/ subtree in the working directory, using a
// {base}{page}_{suffix} naming convention.
type ArtifactStore struct {
	root   string
	logger domain.Logger
}

// NewArtifactStore creates a new artifact store rooted at dir
func NewArtifactStore(dir string, logger domain.Logger) *ArtifactStore {
	return &ArtifactStore{
		root:   dir,
		logger: logger,
	}
}

// SaveText writes OCR text as data/texts/{base}{page}.txt and returns the
// path.
func (a *ArtifactStore) SaveText(base string, page int, text string) (string, error) {
	dir := filepath.Join(a.root, "texts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create texts dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s%d.txt", base, page))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write text artifact: %w", err)
	}
	a.logger.Info("text artifact saved", "path", path)
	return path, nil
}

// SaveSpeech writes MP3 audio as data/audio/{base}{page}_s{n}.mp3, where n is
// one past the count of files already saved for the same base and page.
func (a *ArtifactStore) SaveSpeech(base string, page int, audio []byte) (string, error) {
	dir := filepath.Join(a.root, "audio")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}

	existing, err := filepath.Glob(filepath.Join(dir, fmt.Sprintf("%s%d_s*.mp3", base, page)))
	if err != nil {
		return "", fmt.Errorf("scan audio dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s%d_s%d.mp3", base, page, len(existing)+1))
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", fmt.Errorf("write audio artifact: %w", err)
	}
	a.logger.Info("audio artifact saved", "path", path, "bytes", len(audio))
	return path, nil
}

// SaveFurigana wraps ruby markup in a minimal standalone HTML document and
// writes it as data/{base}[_Plus]_s{page}.html.
func (a *ArtifactStore) SaveFurigana(base string, page int, rubyHTML string, plus bool) (string, error) {
	if err := os.MkdirAll(a.root, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}

	suffix := ""
	if plus {
		suffix = "_Plus"
	}
	path := filepath.Join(a.root, fmt.Sprintf("%s%s_s%d.html", base, suffix, page))

	body := strings.ReplaceAll(rubyHTML, "\n", "<br>")
	doc := fmt.Sprintf(
		"<html><body style='font-family:MS Mincho; font-size:28px; padding:40px; line-height:3;'>%s</body></html>",
		body,
	)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("write furigana artifact: %w", err)
	}
	a.logger.Info("furigana artifact saved", "path", path, "plus", plus)
	return path, nil
}
