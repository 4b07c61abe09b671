package printing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/printing"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/shared"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/shared/valueobject"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/infrastructure/logger"
	infra "github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/infrastructure/printing"
)

// ServiceConfig tunes the print service
type ServiceConfig struct {
	// DefaultPaperSize is used when a request names none
	DefaultPaperSize printing.PaperSize
	// RenderTimeout bounds one composition; zero means no limit
	RenderTimeout time.Duration
	// IdempotencyTTL is how long an Idempotency-Key stays bound to its job
	IdempotencyTTL time.Duration
}

// DefaultServiceConfig returns the stock service settings
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		DefaultPaperSize: printing.PaperSizeA4,
		RenderTimeout:    30 * time.Second,
		IdempotencyTTL:   shared.DefaultIdempotencyConfig().TTL,
	}
}

// PrintService handles printing-related business operations
type PrintService struct {
	jobRepo     printing.PrintJobRepository
	renderer    infra.PDFRenderer
	storage     infra.PDFStorage
	idempotency shared.IdempotencyStore
	brand       *printing.Brand
	config      ServiceConfig
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewPrintService creates a new PrintService. idempotency may be nil, in
// which case Idempotency-Key headers are ignored.
func NewPrintService(
	jobRepo printing.PrintJobRepository,
	renderer infra.PDFRenderer,
	storage infra.PDFStorage,
	idempotency shared.IdempotencyStore,
	brand *printing.Brand,
	config ServiceConfig,
	log *zap.Logger,
) *PrintService {
	if log == nil {
		log = zap.NewNop()
	}
	if brand == nil {
		brand = printing.DefaultBrand()
	}
	if !config.DefaultPaperSize.IsValid() {
		config.DefaultPaperSize = printing.PaperSizeA4
	}
	if config.IdempotencyTTL <= 0 {
		config.IdempotencyTTL = shared.DefaultIdempotencyConfig().TTL
	}
	return &PrintService{
		jobRepo:     jobRepo,
		renderer:    renderer,
		storage:     storage,
		idempotency: idempotency,
		brand:       brand,
		config:      config,
		validate:    newValidator(),
		logger:      log,
	}
}

// preparedRequest is a validated DocumentRequest ready for the renderer
type preparedRequest struct {
	payload   printing.DocumentPayload
	paperSize printing.PaperSize
	brand     *printing.Brand
}

func (s *PrintService) prepare(req DocumentRequest) (*preparedRequest, error) {
	if err := validateStruct(s.validate, req, shared.ErrInvalidInput.Code, ""); err != nil {
		return nil, err
	}

	docType := printing.DocType(req.DocumentType)
	payload, err := decodePayload(s.validate, docType, req.Payload)
	if err != nil {
		return nil, err
	}

	paperSize := printing.PaperSize(req.PaperSize)
	if paperSize == "" {
		paperSize = s.config.DefaultPaperSize
		// A thermal default only applies to receipts.
		if paperSize.IsReceipt() && !docType.AllowsThermal() {
			paperSize = printing.PaperSizeA4
		}
	}
	if paperSize.IsReceipt() && !docType.AllowsThermal() {
		return nil, shared.NewDomainError(infra.ErrCodeInvalidPaperSize,
			docType.DisplayName()+" cannot be printed on "+paperSize.String())
	}

	brand, err := s.resolveBrand(req.Brand)
	if err != nil {
		return nil, err
	}

	return &preparedRequest{payload: payload, paperSize: paperSize, brand: brand}, nil
}

// resolveBrand applies a per-request override onto a copy of the club brand
func (s *PrintService) resolveBrand(o *BrandOverride) (*printing.Brand, error) {
	if o == nil {
		return s.brand, nil
	}

	b := *s.brand
	b.ContactLines = slices.Clone(s.brand.ContactLines)
	if o.Name != "" {
		b.Name = o.Name
	}
	if o.Tagline != "" {
		b.Tagline = o.Tagline
	}
	if len(o.ContactLines) > 0 {
		b.ContactLines = slices.Clone(o.ContactLines)
	}
	if o.Currency != "" {
		b.Currency = valueobject.Currency(strings.ToUpper(o.Currency))
	}
	if o.ClosingNote != "" {
		b.ClosingNote = o.ClosingNote
	}
	if o.PrimaryColor != "" {
		c, err := printing.ParseColor(o.PrimaryColor)
		if err != nil {
			return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Invalid brand color: "+o.PrimaryColor)
		}
		b.Palette.Primary = c
		b.Palette.HighlightFill = c.Tint(0.75)
	}
	return &b, nil
}

func (s *PrintService) render(ctx context.Context, p *preparedRequest) (*infra.RenderResult, error) {
	if s.config.RenderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.RenderTimeout)
		defer cancel()
	}
	return s.renderer.Render(ctx, &infra.RenderRequest{
		Payload:   p.payload,
		PaperSize: p.paperSize,
		Brand:     p.brand,
	})
}

// =============================================================================
// Document Operations
// =============================================================================

// PreviewPDF renders a document without recording a job or storing the file
func (s *PrintService) PreviewPDF(ctx context.Context, tenantID uuid.UUID, req DocumentRequest) (*PreviewResponse, error) {
	prepared, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	result, err := s.render(ctx, prepared)
	if err != nil {
		logger.WithLogger(ctx, s.logger).Warn("Preview rendering failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("doc_type", req.DocumentType),
			zap.Error(err))
		return nil, err
	}

	return &PreviewResponse{
		PDFData:       result.PDFData,
		Filename:      pdfFilename(prepared.payload.DocType(), prepared.payload.Reference()),
		PageCount:     result.PageCount,
		SkippedImages: toSkippedInfo(result.Skipped),
		RenderTimeMs:  result.RenderDuration.Milliseconds(),
	}, nil
}

// GeneratePDF renders a document, stores the PDF and records a print job.
// A non-empty idempotencyKey binds the request to the job it creates; a retry
// with the same key returns that job instead of rendering again.
func (s *PrintService) GeneratePDF(
	ctx context.Context,
	tenantID, userID uuid.UUID,
	idempotencyKey string,
	req DocumentRequest,
) (*PrintJobResponse, error) {
	prepared, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	job, err := printing.NewPrintJob(
		tenantID,
		prepared.payload.DocType(),
		prepared.payload.Reference(),
		prepared.paperSize,
		userID,
	)
	if err != nil {
		return nil, err
	}

	var reservation string
	if idempotencyKey != "" && s.idempotency != nil {
		reservation = tenantID.String() + ":" + idempotencyKey
		existing, reserved, err := s.idempotency.Reserve(ctx, reservation, job.ID.String(), s.config.IdempotencyTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to reserve idempotency key: %w", err)
		}
		if !reserved {
			return s.replay(ctx, tenantID, existing)
		}
		job.SetIdempotencyKey(idempotencyKey)
	}

	ctx, _ = logger.WithJobID(ctx, s.logger, job.ID.String())
	log := logger.WithLogger(ctx, s.logger).With(
		zap.String("doc_type", job.DocumentType.String()),
		zap.String("document_number", job.DocumentNumber),
	)

	// Save job in pending state
	if err := s.jobRepo.Save(ctx, job); err != nil {
		s.release(ctx, reservation)
		return nil, fmt.Errorf("failed to save print job: %w", err)
	}

	if err := job.StartRendering(); err != nil {
		s.release(ctx, reservation)
		return nil, err
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		s.release(ctx, reservation)
		return nil, fmt.Errorf("failed to update job status: %w", err)
	}

	result, err := s.render(ctx, prepared)
	if err != nil {
		log.Error("PDF rendering failed", zap.Error(err))
		s.fail(ctx, job, reservation, "PDF generation failed. Please check the document data.")
		return nil, err
	}

	stored, err := s.storage.Store(ctx, &infra.StoreRequest{
		TenantID: tenantID,
		JobID:    job.ID,
		DocType:  job.DocumentType,
		PDFData:  result.PDFData,
	})
	if err != nil {
		log.Error("PDF storage failed", zap.Error(err))
		s.fail(ctx, job, reservation, "Failed to save PDF file. Please try again later.")
		return nil, fmt.Errorf("failed to store PDF: %w", err)
	}

	rendering := *job
	if err := job.Complete(printing.RenderOutcome{
		PageCount:     result.PageCount,
		SkippedImages: len(result.Skipped),
		StoragePath:   stored.Path,
		PdfURL:        stored.URL,
		FileSize:      stored.Size,
	}); err != nil {
		s.discard(ctx, stored.Path)
		s.fail(ctx, &rendering, reservation, "Failed to record the generated PDF. Please try again.")
		return nil, err
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		log.Error("Failed to record completed job", zap.Error(err))
		s.discard(ctx, stored.Path)
		s.fail(ctx, &rendering, reservation, "Failed to record the generated PDF. Please try again.")
		return nil, fmt.Errorf("failed to update job status: %w", err)
	}

	if len(result.Skipped) > 0 {
		log.Warn("Images replaced by placeholders",
			zap.Int("skipped_images", len(result.Skipped)),
			zap.Any("skipped", toSkippedInfo(result.Skipped)))
	}
	log.Info("PDF generated",
		zap.Int("pages", result.PageCount),
		zap.Int64("bytes", stored.Size),
		zap.Duration("render_time", result.RenderDuration),
		zap.String("url", stored.URL))

	return toJobResponse(job), nil
}

// replay resolves a repeated idempotency key to the job it created
func (s *PrintService) replay(ctx context.Context, tenantID uuid.UUID, existing string) (*PrintJobResponse, error) {
	jobID, err := uuid.Parse(existing)
	if err != nil {
		return nil, shared.ErrDuplicateRequest
	}
	job, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, jobID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrDuplicateRequest
		}
		return nil, fmt.Errorf("failed to get replayed job: %w", err)
	}
	if !job.IsCompleted() {
		return nil, shared.ErrDuplicateRequest
	}

	resp := toJobResponse(job)
	resp.Replayed = true
	return resp, nil
}

// fail records a failed job and frees its idempotency key. Runs on a context
// detached from cancellation so a timed-out request is still recorded.
func (s *PrintService) fail(ctx context.Context, job *printing.PrintJob, reservation, message string) {
	ctx = context.WithoutCancel(ctx)
	if err := job.Fail(message); err == nil {
		if err := s.jobRepo.Save(ctx, job); err != nil {
			logger.WithLogger(ctx, s.logger).Error("Failed to record job failure", zap.Error(err))
		}
	}
	s.release(ctx, reservation)
}

// discard removes a stored PDF whose job could not be recorded as completed
func (s *PrintService) discard(ctx context.Context, path string) {
	if err := s.storage.Delete(context.WithoutCancel(ctx), path); err != nil {
		logger.WithLogger(ctx, s.logger).Warn("Failed to delete orphaned PDF",
			zap.String("path", path), zap.Error(err))
	}
}

func (s *PrintService) release(ctx context.Context, reservation string) {
	if reservation == "" || s.idempotency == nil {
		return
	}
	if err := s.idempotency.Release(context.WithoutCancel(ctx), reservation); err != nil {
		logger.WithLogger(ctx, s.logger).Warn("Failed to release idempotency key", zap.Error(err))
	}
}

// =============================================================================
// Print Job Operations
// =============================================================================

// GetJob retrieves a print job by ID
func (s *PrintService) GetJob(ctx context.Context, tenantID, jobID uuid.UUID) (*PrintJobResponse, error) {
	job, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, jobID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Print job not found")
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return toJobResponse(job), nil
}

// ListJobs lists print jobs with pagination and filters
func (s *PrintService) ListJobs(ctx context.Context, tenantID uuid.UUID, req ListJobsRequest) (*ListJobsResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = shared.DefaultFilter().PageSize
	}
	if err := validateStruct(s.validate, req, shared.ErrInvalidInput.Code, ""); err != nil {
		return nil, err
	}

	filter := printing.PrintJobFilter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
			Search:   req.Search,
		},
	}
	if req.DocType != "" {
		dt := printing.DocType(req.DocType)
		filter.DocumentType = &dt
	}
	if req.Status != "" {
		st := printing.JobStatus(req.Status)
		filter.Status = &st
	}
	if req.PaperSize != "" {
		ps := printing.PaperSize(req.PaperSize)
		filter.PaperSize = &ps
	}

	jobs, err := s.jobRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	total, err := s.jobRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	items := make([]PrintJobResponse, len(jobs))
	for i := range jobs {
		items[i] = *toJobResponse(&jobs[i])
	}

	return &ListJobsResponse{
		Items: items,
		Total: total,
		Page:  req.Page,
		Size:  req.PageSize,
	}, nil
}

// GetJobsByDocument returns every print job for one document reference
func (s *PrintService) GetJobsByDocument(ctx context.Context, tenantID uuid.UUID, docType, documentNumber string) ([]PrintJobResponse, error) {
	dt := printing.DocType(docType)
	if !dt.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid document type")
	}
	if documentNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Document number is required")
	}

	jobs, err := s.jobRepo.FindByDocument(ctx, tenantID, dt, documentNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs: %w", err)
	}

	result := make([]PrintJobResponse, len(jobs))
	for i := range jobs {
		result[i] = *toJobResponse(&jobs[i])
	}
	return result, nil
}

// DownloadPDF returns the stored PDF of a completed job. When preferRedirect
// is set and the storage signs direct links, only the link is returned.
func (s *PrintService) DownloadPDF(ctx context.Context, tenantID, jobID uuid.UUID, preferRedirect bool) (*DownloadResponse, error) {
	job, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, jobID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Print job not found")
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if !job.IsCompleted() || !job.HasPDF() {
		return nil, shared.NewDomainError(infra.ErrCodePDFNotFound, "Print job has no PDF: status "+job.Status.String())
	}

	filename := pdfFilename(job.DocumentType, job.DocumentNumber)

	if signer, ok := s.storage.(infra.SignedURLProvider); ok && preferRedirect {
		url, expiresAt, err := signer.SignedURL(ctx, job.StoragePath)
		if err != nil {
			return nil, fmt.Errorf("failed to sign PDF URL: %w", err)
		}
		return &DownloadResponse{Filename: filename, RedirectURL: url, ExpiresAt: expiresAt}, nil
	}

	data, err := s.readStored(ctx, job.StoragePath)
	if err != nil {
		return nil, err
	}
	return &DownloadResponse{Data: data, Filename: filename}, nil
}

// OpenStoredFile reads a stored PDF by its storage path. Paths are laid out
// as {tenant_id}/..., so a path outside the caller's tenant is reported as
// missing.
func (s *PrintService) OpenStoredFile(ctx context.Context, tenantID uuid.UUID, path string) ([]byte, error) {
	path = strings.TrimPrefix(path, "/")
	owner, _, ok := strings.Cut(path, "/")
	if !ok || owner != tenantID.String() {
		return nil, shared.NewDomainError("NOT_FOUND", "File not found")
	}
	return s.readStored(ctx, path)
}

func (s *PrintService) readStored(ctx context.Context, path string) ([]byte, error) {
	rc, err := s.storage.Get(ctx, path)
	if err != nil {
		if infra.IsRenderErrorCode(err, infra.ErrCodePDFNotFound) {
			return nil, shared.NewDomainError(infra.ErrCodePDFNotFound, "PDF file not found")
		}
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	return data, nil
}

// CleanupExpired removes jobs and stored files older than retention
func (s *PrintService) CleanupExpired(ctx context.Context, retention time.Duration) (jobs int64, files int, err error) {
	if retention <= 0 {
		return 0, 0, shared.NewDomainError("INVALID_INPUT", "Retention must be positive")
	}

	files, err = s.storage.CleanupOlderThan(ctx, retention)
	if err != nil {
		return 0, files, fmt.Errorf("failed to clean up PDF files: %w", err)
	}

	jobs, err = s.jobRepo.DeleteOlderThan(ctx, time.Now().Add(-retention))
	if err != nil {
		return 0, files, fmt.Errorf("failed to delete expired jobs: %w", err)
	}

	logger.WithLogger(ctx, s.logger).Info("Expired print output removed",
		zap.Int64("jobs", jobs),
		zap.Int("files", files),
		zap.Duration("retention", retention))
	return jobs, files, nil
}

// =============================================================================
// Reference Data Operations
// =============================================================================

// GetDocumentTypes returns all document types the engine composes
func (s *PrintService) GetDocumentTypes() []DocumentTypeResponse {
	types := printing.AllDocTypes()
	result := make([]DocumentTypeResponse, len(types))
	for i, dt := range types {
		result[i] = DocumentTypeResponse{
			Code:          string(dt),
			DisplayName:   dt.DisplayName(),
			AllowsThermal: dt.AllowsThermal(),
		}
	}
	return result
}

// GetPaperSizes returns the built-in page profiles
func (s *PrintService) GetPaperSizes() []PaperSizeResponse {
	sizes := printing.AllPaperSizes()
	result := make([]PaperSizeResponse, 0, len(sizes))
	for _, ps := range sizes {
		p, err := printing.LookupProfile(ps)
		if err != nil {
			continue
		}
		result = append(result, PaperSizeResponse{
			Code:    string(ps),
			Width:   p.Width,
			Height:  p.Height,
			Unit:    string(p.Unit),
			Margin:  p.Margin,
			Thermal: p.IsThermal(),
		})
	}
	return result
}

// =============================================================================
// Helper Functions
// =============================================================================

func toJobResponse(j *printing.PrintJob) *PrintJobResponse {
	resp := &PrintJobResponse{
		ID:             j.ID.String(),
		TenantID:       j.TenantID.String(),
		DocumentType:   string(j.DocumentType),
		DocumentNumber: j.DocumentNumber,
		PaperSize:      string(j.PaperSize),
		Status:         string(j.Status),
		PageCount:      j.PageCount,
		SkippedImages:  j.SkippedImages,
		PdfURL:         j.PdfURL,
		FileSize:       j.FileSize,
		ErrorMessage:   j.ErrorMessage,
		RenderedAt:     j.RenderedAt,
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      j.UpdatedAt,
	}
	if j.RequestedBy != nil {
		resp.RequestedBy = j.RequestedBy.String()
	}
	return resp
}

func toSkippedInfo(tiles []infra.TileResult) []SkippedImageInfo {
	if len(tiles) == 0 {
		return nil
	}
	out := make([]SkippedImageInfo, len(tiles))
	for i, t := range tiles {
		out[i] = SkippedImageInfo{
			Section: t.Section,
			Index:   t.Index,
			Label:   t.Label,
			Reason:  string(t.Reason),
		}
	}
	return out
}

// pdfFilename builds a download name such as receipt-inv-0042.pdf
func pdfFilename(docType printing.DocType, reference string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, reference)
	slug = strings.Trim(slug, "-")
	prefix := strings.ReplaceAll(strings.ToLower(docType.String()), "_", "-")
	if slug == "" {
		return prefix + ".pdf"
	}
	return prefix + "-" + slug + ".pdf"
}
