package domain

// DocumentKind identifies what kind of document a session holds.
type DocumentKind int

const (
	KindNone DocumentKind = iota
	KindPDF
	KindImage
)

// String returns a human-readable name for the document kind.
func (k DocumentKind) String() string {
	switch k {
	case KindPDF:
		return "pdf"
	case KindImage:
		return "image"
	default:
		return "none"
	}
}

// ClassifiedDocument is the output of upload classification: either an opened
// paged document backed by a temp file, or a normalized PNG image buffer.
// Doc and TempPath are always both present (PDF) or both absent (image).
type ClassifiedDocument struct {
	Kind       DocumentKind
	Doc        PagedDocument
	TempPath   string
	ImageBytes []byte
	PageCount  int
	Filename   string
}

// RenderedPage holds a rasterized page and the index it resolved to.
type RenderedPage struct {
	Index int
	PNG   []byte
}

// SessionInfo is a read-only snapshot of session state for health reporting.
type SessionInfo struct {
	HasPDF     bool   `json:"has_pdf"`
	HasImage   bool   `json:"has_image"`
	IsPDF      bool   `json:"is_pdf"`
	TotalPages int    `json:"total_pages"`
	Filename   string `json:"filename"`
}
