package printing

import (
	"encoding/json"
	"time"
)

// =============================================================================
// Generation DTOs
// =============================================================================

// DocumentRequest asks for one club document. Payload is decoded according to
// DocumentType into a receipt, workout program, nutrition program or
// progress report.
type DocumentRequest struct {
	DocumentType string          `json:"document_type" validate:"required,oneof=RECEIPT WORKOUT_PROGRAM NUTRITION_PROGRAM PROGRESS_REPORT"`
	PaperSize    string          `json:"paper_size" validate:"omitempty,oneof=RECEIPT_80MM A4 A5 LETTER"`
	Payload      json.RawMessage `json:"payload" validate:"required"`
	Brand        *BrandOverride  `json:"brand,omitempty"`
}

// BrandOverride replaces parts of the configured club brand for one request
type BrandOverride struct {
	Name         string   `json:"name,omitempty" validate:"omitempty,max=120"`
	Tagline      string   `json:"tagline,omitempty" validate:"omitempty,max=200"`
	ContactLines []string `json:"contact_lines,omitempty" validate:"omitempty,max=4,dive,max=120"`
	Currency     string   `json:"currency,omitempty" validate:"omitempty,iso4217"`
	ClosingNote  string   `json:"closing_note,omitempty" validate:"omitempty,max=200"`
	PrimaryColor string   `json:"primary_color,omitempty" validate:"omitempty,hexcolor"`
}

// PreviewResponse carries a rendered document that was not persisted
type PreviewResponse struct {
	PDFData       []byte             `json:"-"`
	Filename      string             `json:"filename"`
	PageCount     int                `json:"page_count"`
	SkippedImages []SkippedImageInfo `json:"skipped_images,omitempty"`
	RenderTimeMs  int64              `json:"render_time_ms"`
}

// SkippedImageInfo describes an image that was replaced by a placeholder
type SkippedImageInfo struct {
	Section string `json:"section"`
	Index   int    `json:"index"`
	Label   string `json:"label,omitempty"`
	Reason  string `json:"reason"`
}

// =============================================================================
// Print Job DTOs
// =============================================================================

// ListJobsRequest represents a request to list print jobs
type ListJobsRequest struct {
	Page      int    `form:"page" validate:"min=1"`
	PageSize  int    `form:"page_size" validate:"min=1,max=100"`
	OrderBy   string `form:"order_by" validate:"omitempty,max=40"`
	OrderDir  string `form:"order_dir" validate:"omitempty,oneof=asc desc"`
	Search    string `form:"search" validate:"omitempty,max=100"`
	DocType   string `form:"doc_type" validate:"omitempty,oneof=RECEIPT WORKOUT_PROGRAM NUTRITION_PROGRAM PROGRESS_REPORT"`
	Status    string `form:"status" validate:"omitempty,oneof=PENDING RENDERING COMPLETED FAILED"`
	PaperSize string `form:"paper_size" validate:"omitempty,oneof=RECEIPT_80MM A4 A5 LETTER"`
}

// PrintJobResponse represents a print job response
type PrintJobResponse struct {
	ID             string     `json:"id"`
	TenantID       string     `json:"tenant_id"`
	DocumentType   string     `json:"document_type"`
	DocumentNumber string     `json:"document_number"`
	PaperSize      string     `json:"paper_size"`
	Status         string     `json:"status"`
	PageCount      int        `json:"page_count"`
	SkippedImages  int        `json:"skipped_images"`
	PdfURL         string     `json:"pdf_url,omitempty"`
	FileSize       int64      `json:"file_size,omitempty"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	RenderedAt     *time.Time `json:"rendered_at,omitempty"`
	RequestedBy    string     `json:"requested_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	// Replayed is set when an idempotency key matched an earlier request
	Replayed bool `json:"replayed,omitempty"`
}

// ListJobsResponse represents a paginated list of print jobs
type ListJobsResponse struct {
	Items []PrintJobResponse `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Size  int                `json:"size"`
}

// DownloadResponse is either the PDF bytes or, for storages that sign
// direct links, a URL the client should be redirected to
type DownloadResponse struct {
	Data        []byte
	Filename    string
	RedirectURL string
	ExpiresAt   time.Time
}

// =============================================================================
// Reference Data DTOs
// =============================================================================

// DocumentTypeResponse represents a document type
type DocumentTypeResponse struct {
	Code          string `json:"code"`
	DisplayName   string `json:"display_name"`
	AllowsThermal bool   `json:"allows_thermal"`
}

// PaperSizeResponse represents a page profile
type PaperSizeResponse struct {
	Code    string  `json:"code"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Unit    string  `json:"unit"`
	Margin  float64 `json:"margin"`
	Thermal bool    `json:"thermal"`
}
