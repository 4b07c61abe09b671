package printing

import (
	"time"

	"github.com/google/uuid"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/shared"
)

// PrintJob records one composition of a club document into a stored PDF.
type PrintJob struct {
	shared.TenantAggregateRoot
	DocumentType   DocType    // Type of document being printed
	DocumentNumber string     // Receipt number, program name or member id
	PaperSize      PaperSize  // Page profile used
	Status         JobStatus  // Current job status
	IdempotencyKey string     // Client supplied key, empty when none
	PageCount      int        // Pages produced
	SkippedImages  int        // Images replaced by placeholders
	StoragePath    string     // Path inside the PDF storage
	PdfURL         string     // URL to the generated PDF file
	FileSize       int64      // Size of the stored PDF in bytes
	ErrorMessage   string     // Error message if job failed
	RenderedAt     *time.Time // When rendering completed
	RequestedBy    *uuid.UUID // User who asked for the document
}

// NewPrintJob creates a new pending print job
func NewPrintJob(
	tenantID uuid.UUID,
	docType DocType,
	documentNumber string,
	paperSize PaperSize,
	requestedBy uuid.UUID,
) (*PrintJob, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if !docType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DOC_TYPE", "Invalid document type: "+docType.String())
	}
	if documentNumber == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "Document number cannot be empty")
	}
	if !paperSize.IsValid() {
		return nil, shared.NewDomainError(ErrUnknownPaperSize.Code, "Invalid paper size: "+paperSize.String())
	}
	if paperSize.IsReceipt() && !docType.AllowsThermal() {
		return nil, shared.NewDomainError(ErrUnknownPaperSize.Code,
			docType.DisplayName()+" cannot be printed on "+paperSize.String())
	}

	job := &PrintJob{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DocumentType:        docType,
		DocumentNumber:      documentNumber,
		PaperSize:           paperSize,
		Status:              JobStatusPending,
	}
	if requestedBy != uuid.Nil {
		job.RequestedBy = &requestedBy
		job.SetCreatedBy(requestedBy)
	}

	return job, nil
}

// SetIdempotencyKey records the client key that created the job
func (j *PrintJob) SetIdempotencyKey(key string) {
	j.IdempotencyKey = key
	j.Touch()
}

// StartRendering marks the job as rendering
func (j *PrintJob) StartRendering() error {
	if !j.Status.CanTransitionTo(JobStatusRendering) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot start rendering from status: "+j.Status.String())
	}

	j.Status = JobStatusRendering
	j.Touch()
	j.IncrementVersion()

	return nil
}

// RenderOutcome describes a finished, stored document
type RenderOutcome struct {
	PageCount     int
	SkippedImages int
	StoragePath   string
	PdfURL        string
	FileSize      int64
}

// Complete marks the job as completed with the stored PDF
func (j *PrintJob) Complete(outcome RenderOutcome) error {
	if !j.Status.CanTransitionTo(JobStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot complete from status: "+j.Status.String())
	}
	if outcome.PdfURL == "" {
		return shared.NewDomainError("INVALID_PDF_URL", "PDF URL cannot be empty")
	}
	if outcome.PageCount < 1 {
		return shared.NewDomainError("INVALID_PAGE_COUNT", "A rendered document has at least one page")
	}

	j.Status = JobStatusCompleted
	j.PageCount = outcome.PageCount
	j.SkippedImages = outcome.SkippedImages
	j.StoragePath = outcome.StoragePath
	j.PdfURL = outcome.PdfURL
	j.FileSize = outcome.FileSize
	now := time.Now()
	j.RenderedAt = &now
	j.UpdatedAt = now
	j.IncrementVersion()

	return nil
}

// Fail marks the job as failed with an error message
func (j *PrintJob) Fail(errorMessage string) error {
	if j.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot fail a job that is already in terminal status: "+j.Status.String())
	}

	j.Status = JobStatusFailed
	j.ErrorMessage = errorMessage
	j.Touch()
	j.IncrementVersion()

	return nil
}

// IsCompleted returns true if the job is completed
func (j *PrintJob) IsCompleted() bool {
	return j.Status == JobStatusCompleted
}

// IsTerminal returns true if the job is in a terminal state
func (j *PrintJob) IsTerminal() bool {
	return j.Status.IsTerminal()
}

// HasPDF returns true if a PDF has been stored
func (j *PrintJob) HasPDF() bool {
	return j.StoragePath != ""
}
