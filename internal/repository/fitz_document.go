package repository

import (
	"bytes"
	"fmt"
	"image/png"

	"japanese-doc-reader/internal/domain"

	"github.com/gen2brain/go-fitz"
)

// FitzOpener implements domain.DocumentOpener using go-fitz (MuPDF).
type FitzOpener struct{}

// Open opens the PDF at path and returns a paged document handle.
func (FitzOpener) Open(path string) (domain.PagedDocument, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &fitzDocument{doc: doc}, nil
}

// fitzDocument adapts *fitz.Document to domain.PagedDocument.
type fitzDocument struct {
	doc *fitz.Document
}

func (d *fitzDocument) PageCount() int {
	return d.doc.NumPage()
}

// RenderPNG rasterizes the page at scale (1.0 = 72 DPI) and encodes PNG.
func (d *fitzDocument) RenderPNG(index int, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1.0
	}
	img, err := d.doc.ImageDPI(index, 72.0*scale)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", index, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode page %d: %w", index, err)
	}
	return buf.Bytes(), nil
}

func (d *fitzDocument) Close() error {
	return d.doc.Close()
}
