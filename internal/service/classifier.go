package service

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"japanese-doc-reader/internal/domain"

	"github.com/gabriel-vasile/mimetype"

	// Raster formats the upload path accepts beyond PNG.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// pdfSignature is the magic prefix of a PDF file.
var pdfSignature = []byte("%PDF")

// Classifier inspects an uploaded byte stream, decides PDF vs. image and
// produces a normalized representation for the session store.
type Classifier struct {
	opener domain.DocumentOpener
	logger domain.Logger
}

// NewClassifier creates a new upload classifier
func NewClassifier(opener domain.DocumentOpener, logger domain.Logger) *Classifier {
	return &Classifier{
		opener: opener,
		logger: logger,
	}
}

// Classify decides the document kind for the uploaded bytes. Rule, in order:
// %PDF signature, then a case-insensitive .pdf filename extension, else
// image. The PDF path creates a temp file whose ownership transfers to the
// returned document; on open failure the temp file is removed before the
// error propagates, so no error path leaks files.
func (c *Classifier) Classify(data []byte, filename string) (*domain.ClassifiedDocument, error) {
	if len(data) == 0 {
		return nil, domain.ErrEmptyUpload
	}

	if bytes.HasPrefix(data, pdfSignature) || strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return c.classifyPDF(data, filename)
	}
	return c.classifyImage(data, filename)
}

func (c *Classifier) classifyPDF(data []byte, filename string) (*domain.ClassifiedDocument, error) {
	tmp, err := os.CreateTemp("", "upload-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("%w: create temp file: %v", domain.ErrDocumentOpen, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("%w: write temp file: %v", domain.ErrDocumentOpen, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("%w: close temp file: %v", domain.ErrDocumentOpen, err)
	}

	doc, err := c.opener.Open(tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentOpen, err)
	}

	pages := doc.PageCount()
	if pages < 1 {
		doc.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("%w: document has no pages", domain.ErrDocumentOpen)
	}

	c.logger.Info("PDF upload classified", "filename", filename, "pages", pages)

	return &domain.ClassifiedDocument{
		Kind:      domain.KindPDF,
		Doc:       doc,
		TempPath:  tmpPath,
		PageCount: pages,
		Filename:  filename,
	}, nil
}

func (c *Classifier) classifyImage(data []byte, filename string) (*domain.ClassifiedDocument, error) {
	mtype := mimetype.Detect(data)

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		c.logger.Warn("image upload rejected", "filename", filename, "mime", mtype.String())
		return nil, fmt.Errorf("%w: %v", domain.ErrImageDecode, err)
	}

	// Re-encode to PNG regardless of source format so every downstream
	// consumer sees one canonical raster encoding.
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: png re-encode: %v", domain.ErrImageDecode, err)
	}

	bounds := img.Bounds()
	c.logger.Info("image upload classified",
		"filename", filename,
		"format", format,
		"mime", mtype.String(),
		"width", bounds.Dx(),
		"height", bounds.Dy(),
	)

	return &domain.ClassifiedDocument{
		Kind:       domain.KindImage,
		ImageBytes: buf.Bytes(),
		PageCount:  1,
		Filename:   filename,
	}, nil
}
