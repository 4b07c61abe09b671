package printing

import (
	"context"
	"errors"
	"time"

	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/printing"
)

// RenderRequest contains the parameters for composing one document
type RenderRequest struct {
	// Payload selects the recipe and carries the data to lay out
	Payload printing.DocumentPayload
	// PaperSize names the page profile
	PaperSize printing.PaperSize
	// Profile overrides PaperSize when set (custom stock)
	Profile *printing.PageProfile
	// Brand is the club identity and palette; nil uses the default brand
	Brand *printing.Brand
	// GeneratedAt is stamped in the footer; zero uses the engine clock
	GeneratedAt time.Time
}

// RenderResult contains the output of a composition
type RenderResult struct {
	// PDFData is the raw PDF file content
	PDFData []byte
	// PageCount is the number of pages in the PDF
	PageCount int
	// Skipped lists the images that were replaced by placeholders
	Skipped []TileResult
	// RenderDuration is how long the composition took
	RenderDuration time.Duration
}

// PDFRenderer composes a document payload into a PDF
type PDFRenderer interface {
	// Render lays out the payload and returns the finished PDF
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	// Close releases any resources held by the renderer
	Close() error
}

// RenderError represents an error during PDF rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidPayload   = "INVALID_PAYLOAD"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
	ErrCodeStorageFailed    = "STORAGE_FAILED"
	ErrCodePDFNotFound      = "PDF_NOT_FOUND"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsRenderErrorCode reports whether err carries a RenderError with the given code
func IsRenderErrorCode(err error, code string) bool {
	var re *RenderError
	return errors.As(err, &re) && re.Code == code
}
