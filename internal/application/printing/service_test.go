package printing_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/application/printing"
	domain "github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/printing"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/shared"
	infra "github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/infrastructure/printing"
)

// =============================================================================
// Mock Implementations
// =============================================================================

type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*domain.PrintJob, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PrintJob), args.Error(1)
}

func (m *MockJobRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter domain.PrintJobFilter) ([]domain.PrintJob, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PrintJob), args.Error(1)
}

func (m *MockJobRepository) FindByDocument(ctx context.Context, tenantID uuid.UUID, docType domain.DocType, documentNumber string) ([]domain.PrintJob, error) {
	args := m.Called(ctx, tenantID, docType, documentNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PrintJob), args.Error(1)
}

func (m *MockJobRepository) Save(ctx context.Context, job *domain.PrintJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter domain.PrintJobFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, req *infra.RenderRequest) (*infra.RenderResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infra.RenderResult), args.Error(1)
}

func (m *MockRenderer) Close() error {
	return m.Called().Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Store(ctx context.Context, req *infra.StoreRequest) (*infra.StoreResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infra.StoreResult), args.Error(1)
}

func (m *MockStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

func (m *MockStorage) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	args := m.Called(ctx, age)
	return args.Int(0), args.Error(1)
}

func (m *MockStorage) GetURL(path string) string {
	return m.Called(path).String(0)
}

// MockSigningStorage is a storage that hands out presigned links
type MockSigningStorage struct {
	MockStorage
}

func (m *MockSigningStorage) SignedURL(ctx context.Context, path string) (string, time.Time, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) Reserve(ctx context.Context, key, value string, ttl time.Duration) (string, bool, error) {
	args := m.Called(ctx, key, value, ttl)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

// =============================================================================
// Fixtures
// =============================================================================

type serviceFixture struct {
	repo     *MockJobRepository
	renderer *MockRenderer
	storage  *MockStorage
	idem     *MockIdempotencyStore
	service  *printing.PrintService
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		repo:     new(MockJobRepository),
		renderer: new(MockRenderer),
		storage:  new(MockStorage),
		idem:     new(MockIdempotencyStore),
	}
	f.service = printing.NewPrintService(f.repo, f.renderer, f.storage, f.idem, nil,
		printing.DefaultServiceConfig(), zap.NewNop())
	return f
}

func receiptRequest() printing.DocumentRequest {
	return printing.DocumentRequest{
		DocumentType: "RECEIPT",
		Payload: json.RawMessage(`{
			"number": "INV-001",
			"issued_at": "2026-10-01 09:30",
			"customer": {"name": "Nimal Perera", "member_id": "M-1001"},
			"amount": "4500.00",
			"payment_method": "Cash",
			"status": "Paid"
		}`),
	}
}

func workoutRequest() printing.DocumentRequest {
	return printing.DocumentRequest{
		DocumentType: "WORKOUT_PROGRAM",
		Payload: json.RawMessage(`{
			"name": "Push Pull Legs",
			"days": [{"name": "Day 1", "exercises": [{"name": "Bench Press", "sets": "4", "reps": "8"}]}]
		}`),
	}
}

func renderResult(pages int, skipped ...infra.TileResult) *infra.RenderResult {
	return &infra.RenderResult{
		PDFData:        []byte("%PDF-1.3 test"),
		PageCount:      pages,
		Skipped:        skipped,
		RenderDuration: 12 * time.Millisecond,
	}
}

func completedJob(t *testing.T, tenantID uuid.UUID) *domain.PrintJob {
	t.Helper()
	job, err := domain.NewPrintJob(tenantID, domain.DocTypeReceipt, "INV-001", domain.PaperSizeA4, uuid.New())
	require.NoError(t, err)
	require.NoError(t, job.StartRendering())
	require.NoError(t, job.Complete(domain.RenderOutcome{
		PageCount:   1,
		StoragePath: tenantID.String() + "/receipt/2026/10/" + job.ID.String() + ".pdf",
		PdfURL:      "/api/v1/print/files/" + tenantID.String() + "/receipt/2026/10/" + job.ID.String() + ".pdf",
		FileSize:    2048,
	}))
	return job
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
	assert.Equal(t, code, de.Code)
}

func validationFields(t *testing.T, err error, code string) []string {
	t.Helper()
	var ve *printing.ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	assert.Equal(t, code, ve.Code)
	fields := make([]string, len(ve.Fields))
	for i, f := range ve.Fields {
		fields[i] = f.Field
	}
	return fields
}

// =============================================================================
// GeneratePDF
// =============================================================================

func TestPrintService_GeneratePDF_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tenantID, userID := uuid.New(), uuid.New()

	f.repo.On("Save", mock.Anything, mock.Anything).Return(nil).Times(3)
	f.renderer.On("Render", mock.Anything, mock.MatchedBy(func(req *infra.RenderRequest) bool {
		r, ok := req.Payload.(*domain.Receipt)
		return ok && r.Number == "INV-001" && req.PaperSize == domain.PaperSizeA4
	})).Return(renderResult(1), nil)
	f.storage.On("Store", mock.Anything, mock.MatchedBy(func(req *infra.StoreRequest) bool {
		return req.TenantID == tenantID && req.DocType == domain.DocTypeReceipt && len(req.PDFData) > 0
	})).Return(&infra.StoreResult{Path: "t/receipt/x.pdf", URL: "/api/v1/print/files/t/receipt/x.pdf", Size: 13}, nil)

	resp, err := f.service.GeneratePDF(ctx, tenantID, userID, "", receiptRequest())
	require.NoError(t, err)

	assert.Equal(t, "COMPLETED", resp.Status)
	assert.Equal(t, "RECEIPT", resp.DocumentType)
	assert.Equal(t, "INV-001", resp.DocumentNumber)
	assert.Equal(t, "A4", resp.PaperSize)
	assert.Equal(t, 1, resp.PageCount)
	assert.Equal(t, int64(13), resp.FileSize)
	assert.Equal(t, "/api/v1/print/files/t/receipt/x.pdf", resp.PdfURL)
	assert.Equal(t, userID.String(), resp.RequestedBy)
	assert.NotNil(t, resp.RenderedAt)
	assert.False(t, resp.Replayed)

	f.repo.AssertExpectations(t)
	f.renderer.AssertExpectations(t)
	f.storage.AssertExpectations(t)
	f.idem.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPrintService_GeneratePDF_ThermalReceipt(t *testing.T) {
	f := newFixture(t)
	req := receiptRequest()
	req.PaperSize = "RECEIPT_80MM"

	f.repo.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.renderer.On("Render", mock.Anything, mock.MatchedBy(func(r *infra.RenderRequest) bool {
		return r.PaperSize == domain.PaperSizeReceipt80MM
	})).Return(renderResult(1), nil)
	f.storage.On("Store", mock.Anything, mock.Anything).
		Return(&infra.StoreResult{Path: "p.pdf", URL: "/u/p.pdf", Size: 10}, nil)

	resp, err := f.service.GeneratePDF(context.Background(), uuid.New(), uuid.New(), "", req)
	require.NoError(t, err)
	assert.Equal(t, "RECEIPT_80MM", resp.PaperSize)
}

func TestPrintService_GeneratePDF_ThermalRejectedForPrograms(t *testing.T) {
	f := newFixture(t)
	req := workoutRequest()
	req.PaperSize = "RECEIPT_80MM"

	_, err := f.service.GeneratePDF(context.Background(), uuid.New(), uuid.New(), "", req)
	require.Error(t, err)
	assertDomainCode(t, err, "INVALID_PAPER_SIZE")

	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.renderer.AssertNotCalled(t, "Render", mock.Anything, mock.Anything)
}

func TestPrintService_GeneratePDF_RequestValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		req   printing.DocumentRequest
		field string
	}{
		{
			name:  "missing document type",
			req:   printing.DocumentRequest{Payload: json.RawMessage(`{}`)},
			field: "document_type",
		},
		{
			name:  "unknown document type",
			req:   printing.DocumentRequest{DocumentType: "INVOICE", Payload: json.RawMessage(`{}`)},
			field: "document_type",
		},
		{
			name:  "unknown paper size",
			req:   printing.DocumentRequest{DocumentType: "RECEIPT", PaperSize: "B5", Payload: json.RawMessage(`{}`)},
			field: "paper_size",
		},
		{
			name:  "missing payload",
			req:   printing.DocumentRequest{DocumentType: "RECEIPT"},
			field: "payload",
		},
		{
			name: "bad brand color",
			req: printing.DocumentRequest{
				DocumentType: "RECEIPT",
				Payload:      json.RawMessage(`{}`),
				Brand:        &printing.BrandOverride{PrimaryColor: "orange"},
			},
			field: "brand.primary_color",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.GeneratePDF(context.Background(), uuid.New(), uuid.New(), "", tt.req)
			require.Error(t, err)
			assert.Contains(t, validationFields(t, err, "INVALID_INPUT"), tt.field)
		})
	}
}

func TestPrintService_GeneratePDF_PayloadValidation(t *testing.T) {
	f := newFixture(t)
	req := printing.DocumentRequest{
		DocumentType: "RECEIPT",
		Payload:      json.RawMessage(`{"issued_at": "2026-10-01", "customer": {"name": ""}}`),
	}

	_, err := f.service.GeneratePDF(context.Background(), uuid.New(), uuid.New(), "", req)
	require.Error(t, err)

	fields := validationFields(t, err, "INVALID_PAYLOAD")
	assert.Contains(t, fields, "payload.number")
	assert.Contains(t, fields, "payload.customer.name")
}

func TestPrintService_GeneratePDF_MalformedPayload(t *testing.T) {
	f := newFixture(t)

	for name, raw := range map[string]string{
		"not an object": `[1, 2, 3]`,
		"null":          `null`,
		"wrong type":    `{"name": 42}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := printing.DocumentRequest{DocumentType: "WORKOUT_PROGRAM", Payload: json.RawMessage(raw)}
			_, err := f.service.GeneratePDF(context.Background(), uuid.New(), uuid.New(), "", req)
			require.Error(t, err)
			assertDomainCode(t, err, "INVALID_PAYLOAD")
		})
	}
}

func TestPrintService_GeneratePDF_RenderFailure(t *testing.T) {
	f := newFixture(t)
	tenantID := uuid.New()

	var saved *domain.PrintJob
	f.repo.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*domain.PrintJob)
	}).Return(nil)
	f.idem.On("Reserve", mock.Anything, tenantID.String()+":key-1", mock.Anything, 24*time.Hour).
		Return("", true, nil)
	f.idem.On("Release", mock.Anything, tenantID.String()+":key-1").Return(nil)
	f.renderer.On("Render", mock.Anything, mock.Anything).
		Return(nil, infra.NewRenderError(infra.ErrCodeRenderFailed, "composition panicked", nil))

	_, err := f.service.GeneratePDF(context.Background(), tenantID, uuid.New(), "key-1", receiptRequest())
	require.Error(t, err)
	assert.True(t, infra.IsRenderErrorCode(err, infra.ErrCodeRenderFailed))

	require.NotNil(t, saved)
	assert.Equal(t, domain.JobStatusFailed, saved.Status)
	assert.NotEmpty(t, saved.ErrorMessage)
	assert.Equal(t, "key-1", saved.IdempotencyKey)

	f.idem.AssertExpectations(t)
	f.storage.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
}

func TestPrintService_GeneratePDF_StorageFailure(t *testing.T) {
	f := newFixture(t)

	var saved *domain.PrintJob
	f.repo.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*domain.PrintJob)
	}).Return(nil)
	f.renderer.On("Render", mock.Anything, mock.Anything).Return(renderResult(2), nil)
	f.storage.On("Store", mock.Anything, mock.Anything).
		Return(nil, infra.NewRenderError(infra.ErrCodeStorageFailed, "disk full", nil))

	_, err := f.service.GeneratePDF(context.Background(), uuid.New(), uuid.New(), "", workoutRequest())
	require.Error(t, err)
	assert.True(t, infra.IsRenderErrorCode(err, infra.ErrCodeStorageFailed))

	require.NotNil(t, saved)
	assert.Equal(t, domain.JobStatusFailed, saved.Status)
	assert.Equal(t, "Push Pull Legs", saved.DocumentNumber)
}

func TestPrintService_GeneratePDF_SaveFailureReleasesKey(t *testing.T) {
	f := newFixture(t)
	tenantID := uuid.New()

	f.idem.On("Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", true, nil)
	f.idem.On("Release", mock.Anything, tenantID.String()+":key-2").Return(nil)
	f.repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	_, err := f.service.GeneratePDF(context.Background(), tenantID, uuid.New(), "key-2", receiptRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save print job")

	f.idem.AssertExpectations(t)
	f.renderer.AssertNotCalled(t, "Render", mock.Anything, mock.Anything)
}

func TestPrintService_GeneratePDF_SaveFailureAfterStore(t *testing.T) {
	f := newFixture(t)
	tenantID := uuid.New()
	completed := func(j *domain.PrintJob) bool { return j.Status == domain.JobStatusCompleted }

	var statuses []domain.JobStatus
	f.repo.On("Save", mock.Anything, mock.MatchedBy(func(j *domain.PrintJob) bool { return !completed(j) })).
		Run(func(args mock.Arguments) {
			statuses = append(statuses, args.Get(1).(*domain.PrintJob).Status)
		}).Return(nil)
	f.repo.On("Save", mock.Anything, mock.MatchedBy(completed)).Return(errors.New("db down")).Once()
	f.idem.On("Reserve", mock.Anything, tenantID.String()+":key-3", mock.Anything, mock.Anything).Return("", true, nil)
	f.idem.On("Release", mock.Anything, tenantID.String()+":key-3").Return(nil).Once()
	f.renderer.On("Render", mock.Anything, mock.Anything).Return(renderResult(1), nil)
	f.storage.On("Store", mock.Anything, mock.Anything).
		Return(&infra.StoreResult{Path: "t/receipt/x.pdf", URL: "/api/v1/print/files/t/receipt/x.pdf", Size: 13}, nil)
	f.storage.On("Delete", mock.Anything, "t/receipt/x.pdf").Return(nil).Once()

	_, err := f.service.GeneratePDF(context.Background(), tenantID, uuid.New(), "key-3", receiptRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update job status")

	f.idem.AssertExpectations(t)
	f.storage.AssertExpectations(t)
	assert.Equal(t, []domain.JobStatus{
		domain.JobStatusPending, domain.JobStatusRendering, domain.JobStatusFailed,
	}, statuses)
}

func TestPrintService_GeneratePDF_IdempotentReplay(t *testing.T) {
	f := newFixture(t)
	tenantID := uuid.New()
	existing := completedJob(t, tenantID)

	f.idem.On("Reserve", mock.Anything, tenantID.String()+":key-3", mock.Anything, mock.Anything).
		Return(existing.ID.String(), false, nil)
	f.repo.On("FindByIDForTenant", mock.Anything, tenantID, existing.ID).Return(existing, nil)

	resp, err := f.service.GeneratePDF(context.Background(), tenantID, uuid.New(), "key-3", receiptRequest())
	require.NoError(t, err)

	assert.True(t, resp.Replayed)
	assert.Equal(t, existing.ID.String(), resp.ID)
	assert.Equal(t, "COMPLETED", resp.Status)

	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.renderer.AssertNotCalled(t, "Render", mock.Anything, mock.Anything)
}

func TestPrintService_GeneratePDF_DuplicateInFlight(t *testing.T) {
	f := newFixture(t)
	tenantID := uuid.New()
	inFlight, err := domain.NewPrintJob(tenantID, domain.DocTypeReceipt, "INV-001", domain.PaperSizeA4, uuid.Nil)
	require.NoError(t, err)
	require.NoError(t, inFlight.StartRendering())

	f.idem.On("Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(inFlight.ID.String(), false, nil)
	f.repo.On("FindByIDForTenant", mock.Anything, tenantID, inFlight.ID).Return(inFlight, nil)

	_, err = f.service.GeneratePDF(context.Background(), tenantID, uuid.New(), "key-4", receiptRequest())
	assert.ErrorIs(t, err, shared.ErrDuplicateRequest)
}

func TestPrintService_GeneratePDF_DuplicateBeforeJobSaved(t *testing.T) {
	f := newFixture(t)
	tenantID := uuid.New()
	pendingID := uuid.New()

	f.idem.On("Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(pendingID.String(), false, nil)
	f.repo.On("FindByIDForTenant", mock.Anything, tenantID, pendingID).Return(nil, shared.ErrNotFound)

	_, err := f.service.GeneratePDF(context.Background(), tenantID, uuid.New(), "key-5", receiptRequest())
	assert.ErrorIs(t, err, shared.ErrDuplicateRequest)
}

func TestPrintService_GeneratePDF_BrandOverride(t *testing.T) {
	f := newFixture(t)
	req := receiptRequest()
	req.Brand = &printing.BrandOverride{
		Name:         "Iron Temple",
		Currency:     "USD",
		PrimaryColor: "#123456",
		ContactLines: []string{"Kandy"},
	}

	var brand *domain.Brand
	f.repo.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.renderer.On("Render", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		brand = args.Get(1).(*infra.RenderRequest).Brand
	}).Return(renderResult(1), nil)
	f.storage.On("Store", mock.Anything, mock.Anything).
		Return(&infra.StoreResult{Path: "p.pdf", URL: "/u/p.pdf", Size: 10}, nil)

	_, err := f.service.GeneratePDF(context.Background(), uuid.New(), uuid.New(), "", req)
	require.NoError(t, err)

	require.NotNil(t, brand)
	assert.Equal(t, "Iron Temple", brand.Name)
	assert.Equal(t, "USD", string(brand.Currency))
	assert.Equal(t, "#123456", brand.Palette.Primary.Hex())
	assert.Equal(t, []string{"Kandy"}, brand.ContactLines)
	// Fields without an override keep the club defaults
	assert.Equal(t, domain.DefaultBrand().Tagline, brand.Tagline)
	assert.Equal(t, domain.DefaultBrand().ClosingNote, brand.ClosingNote)
}

// =============================================================================
// PreviewPDF
// =============================================================================

func TestPrintService_PreviewPDF(t *testing.T) {
	f := newFixture(t)
	f.renderer.On("Render", mock.Anything, mock.Anything).Return(renderResult(3, infra.TileResult{
		Section: infra.SectionPhotos,
		Index:   1,
		Label:   "Week 4",
		Reason:  infra.SkipDecodeFailed,
	}), nil)

	resp, err := f.service.PreviewPDF(context.Background(), uuid.New(), workoutRequest())
	require.NoError(t, err)

	assert.Equal(t, "workout-program-push-pull-legs.pdf", resp.Filename)
	assert.Equal(t, 3, resp.PageCount)
	assert.Equal(t, int64(12), resp.RenderTimeMs)
	assert.NotEmpty(t, resp.PDFData)
	require.Len(t, resp.SkippedImages, 1)
	assert.Equal(t, printing.SkippedImageInfo{
		Section: "photos", Index: 1, Label: "Week 4", Reason: "DECODE_FAILED",
	}, resp.SkippedImages[0])

	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.storage.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
}

func TestPrintService_PreviewPDF_RenderTimeout(t *testing.T) {
	repo, renderer, storage := new(MockJobRepository), new(MockRenderer), new(MockStorage)
	cfg := printing.DefaultServiceConfig()
	cfg.RenderTimeout = 5 * time.Second
	svc := printing.NewPrintService(repo, renderer, storage, nil, nil, cfg, nil)

	renderer.On("Render", mock.MatchedBy(func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		return ok && time.Until(deadline) <= 5*time.Second
	}), mock.Anything).Return(renderResult(1), nil)

	_, err := svc.PreviewPDF(context.Background(), uuid.New(), receiptRequest())
	require.NoError(t, err)
	renderer.AssertExpectations(t)
}

// =============================================================================
// Print Job Queries
// =============================================================================

func TestPrintService_GetJob(t *testing.T) {
	f := newFixture(t)
	tenantID := uuid.New()
	job := completedJob(t, tenantID)
	missing := uuid.New()

	f.repo.On("FindByIDForTenant", mock.Anything, tenantID, job.ID).Return(job, nil)
	f.repo.On("FindByIDForTenant", mock.Anything, tenantID, missing).Return(nil, shared.ErrNotFound)

	resp, err := f.service.GetJob(context.Background(), tenantID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID.String(), resp.ID)
	assert.Equal(t, tenantID.String(), resp.TenantID)

	_, err = f.service.GetJob(context.Background(), tenantID, missing)
	assertDomainCode(t, err, "NOT_FOUND")
}

func TestPrintService_ListJobs(t *testing.T) {
	f := newFixture(t)
	tenantID := uuid.New()
	jobs := []domain.PrintJob{*completedJob(t, tenantID), *completedJob(t, tenantID)}

	matchFilter := mock.MatchedBy(func(filter domain.PrintJobFilter) bool {
		return filter.Page == 1 && filter.PageSize == 20 &&
			filter.DocumentType != nil && *filter.DocumentType == domain.DocTypeReceipt &&
			filter.Status != nil && *filter.Status == domain.JobStatusCompleted &&
			filter.PaperSize == nil && filter.Search == "INV"
	})
	f.repo.On("FindAllForTenant", mock.Anything, tenantID, matchFilter).Return(jobs, nil)
	f.repo.On("CountForTenant", mock.Anything, tenantID, matchFilter).Return(int64(2), nil)

	resp, err := f.service.ListJobs(context.Background(), tenantID, printing.ListJobsRequest{
		DocType: "RECEIPT",
		Status:  "COMPLETED",
		Search:  "INV",
	})
	require.NoError(t, err)

	assert.Len(t, resp.Items, 2)
	assert.Equal(t, int64(2), resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.Size)
	assert.Equal(t, jobs[1].ID.String(), resp.Items[1].ID)
}

func TestPrintService_ListJobs_InvalidRequest(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ListJobs(context.Background(), uuid.New(), printing.ListJobsRequest{
		PageSize: 500,
		OrderDir: "sideways",
	})
	require.Error(t, err)

	fields := validationFields(t, err, "INVALID_INPUT")
	assert.ElementsMatch(t, []string{"page_size", "order_dir"}, fields)
	f.repo.AssertNotCalled(t, "FindAllForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestPrintService_GetJobsByDocument(t *testing.T) {
	f := newFixture(t)
	tenantID := uuid.New()
	job := completedJob(t, tenantID)

	f.repo.On("FindByDocument", mock.Anything, tenantID, domain.DocTypeReceipt, "INV-001").
		Return([]domain.PrintJob{*job}, nil)

	resp, err := f.service.GetJobsByDocument(context.Background(), tenantID, "RECEIPT", "INV-001")
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "INV-001", resp[0].DocumentNumber)

	_, err = f.service.GetJobsByDocument(context.Background(), tenantID, "INVOICE", "INV-001")
	assertDomainCode(t, err, "INVALID_INPUT")

	_, err = f.service.GetJobsByDocument(context.Background(), tenantID, "RECEIPT", "")
	assertDomainCode(t, err, "INVALID_INPUT")
}

// =============================================================================
// Downloads and stored files
// =============================================================================

func TestPrintService_DownloadPDF(t *testing.T) {
	f := newFixture(t)
	tenantID := uuid.New()
	job := completedJob(t, tenantID)

	f.repo.On("FindByIDForTenant", mock.Anything, tenantID, job.ID).Return(job, nil)
	f.storage.On("Get", mock.Anything, job.StoragePath).
		Return(io.NopCloser(bytes.NewReader([]byte("%PDF-1.3 stored"))), nil)

	// The plain storage cannot sign, so a redirect preference falls back to bytes
	resp, err := f.service.DownloadPDF(context.Background(), tenantID, job.ID, true)
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-1.3 stored"), resp.Data)
	assert.Equal(t, "receipt-inv-001.pdf", resp.Filename)
	assert.Empty(t, resp.RedirectURL)
}

func TestPrintService_DownloadPDF_NoPDF(t *testing.T) {
	f := newFixture(t)
	tenantID := uuid.New()
	job, err := domain.NewPrintJob(tenantID, domain.DocTypeReceipt, "INV-9", domain.PaperSizeA4, uuid.Nil)
	require.NoError(t, err)
	require.NoError(t, job.StartRendering())
	require.NoError(t, job.Fail("boom"))

	f.repo.On("FindByIDForTenant", mock.Anything, tenantID, job.ID).Return(job, nil)

	_, err = f.service.DownloadPDF(context.Background(), tenantID, job.ID, false)
	assertDomainCode(t, err, "PDF_NOT_FOUND")
}

func TestPrintService_DownloadPDF_FileMissing(t *testing.T) {
	f := newFixture(t)
	tenantID := uuid.New()
	job := completedJob(t, tenantID)

	f.repo.On("FindByIDForTenant", mock.Anything, tenantID, job.ID).Return(job, nil)
	f.storage.On("Get", mock.Anything, job.StoragePath).
		Return(nil, infra.NewRenderError(infra.ErrCodePDFNotFound, "PDF not found", nil))

	_, err := f.service.DownloadPDF(context.Background(), tenantID, job.ID, false)
	assertDomainCode(t, err, "PDF_NOT_FOUND")
}

func TestPrintService_DownloadPDF_SignedRedirect(t *testing.T) {
	repo, renderer, storage := new(MockJobRepository), new(MockRenderer), new(MockSigningStorage)
	svc := printing.NewPrintService(repo, renderer, storage, nil, nil, printing.DefaultServiceConfig(), nil)
	tenantID := uuid.New()
	job := completedJob(t, tenantID)
	expires := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	repo.On("FindByIDForTenant", mock.Anything, tenantID, job.ID).Return(job, nil)
	storage.On("SignedURL", mock.Anything, job.StoragePath).
		Return("https://bucket.example.com/signed", expires, nil)

	resp, err := svc.DownloadPDF(context.Background(), tenantID, job.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.example.com/signed", resp.RedirectURL)
	assert.Equal(t, expires, resp.ExpiresAt)
	assert.Nil(t, resp.Data)

	// Without the preference the bytes are streamed even from a signing storage
	storage.On("Get", mock.Anything, job.StoragePath).
		Return(io.NopCloser(bytes.NewReader([]byte("pdf"))), nil)
	resp, err = svc.DownloadPDF(context.Background(), tenantID, job.ID, false)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf"), resp.Data)
}

func TestPrintService_OpenStoredFile(t *testing.T) {
	f := newFixture(t)
	tenantID := uuid.New()
	own := tenantID.String() + "/receipt/2026/10/a.pdf"

	f.storage.On("Get", mock.Anything, own).Return(io.NopCloser(bytes.NewReader([]byte("pdf"))), nil)

	data, err := f.service.OpenStoredFile(context.Background(), tenantID, "/"+own)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf"), data)

	_, err = f.service.OpenStoredFile(context.Background(), tenantID, uuid.New().String()+"/receipt/2026/10/a.pdf")
	assertDomainCode(t, err, "NOT_FOUND")

	_, err = f.service.OpenStoredFile(context.Background(), tenantID, tenantID.String())
	assertDomainCode(t, err, "NOT_FOUND")
}

func TestPrintService_CleanupExpired(t *testing.T) {
	f := newFixture(t)
	retention := 30 * 24 * time.Hour

	f.storage.On("CleanupOlderThan", mock.Anything, retention).Return(4, nil)
	f.repo.On("DeleteOlderThan", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		return time.Since(cutoff) >= retention
	})).Return(int64(3), nil)

	jobs, files, err := f.service.CleanupExpired(context.Background(), retention)
	require.NoError(t, err)
	assert.Equal(t, int64(3), jobs)
	assert.Equal(t, 4, files)

	_, _, err = f.service.CleanupExpired(context.Background(), 0)
	assertDomainCode(t, err, "INVALID_INPUT")
}

// =============================================================================
// Reference data
// =============================================================================

func TestPrintService_GetDocumentTypes(t *testing.T) {
	f := newFixture(t)

	types := f.service.GetDocumentTypes()
	require.Len(t, types, 4)

	byCode := make(map[string]printing.DocumentTypeResponse)
	for _, dt := range types {
		byCode[dt.Code] = dt
	}
	assert.True(t, byCode["RECEIPT"].AllowsThermal)
	assert.False(t, byCode["PROGRESS_REPORT"].AllowsThermal)
	assert.NotEmpty(t, byCode["NUTRITION_PROGRAM"].DisplayName)
}

func TestPrintService_GetPaperSizes(t *testing.T) {
	f := newFixture(t)

	sizes := f.service.GetPaperSizes()
	require.Len(t, sizes, 4)

	byCode := make(map[string]printing.PaperSizeResponse)
	for _, s := range sizes {
		byCode[s.Code] = s
	}
	assert.Equal(t, printing.PaperSizeResponse{
		Code: "RECEIPT_80MM", Width: 80, Height: 297, Unit: "mm", Margin: 4, Thermal: true,
	}, byCode["RECEIPT_80MM"])
	assert.Equal(t, "in", byCode["LETTER"].Unit)
	assert.False(t, byCode["A4"].Thermal)
}
