package printing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/shared"
)

// PrintJobRepository defines the interface for print job persistence
type PrintJobRepository interface {
	// FindByIDForTenant finds a job by ID within a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PrintJob, error)

	// FindAllForTenant finds jobs for a tenant, newest first
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter PrintJobFilter) ([]PrintJob, error)

	// FindByDocument finds all print jobs for a document reference
	FindByDocument(ctx context.Context, tenantID uuid.UUID, docType DocType, documentNumber string) ([]PrintJob, error)

	// Save saves a job (insert or update)
	Save(ctx context.Context, job *PrintJob) error

	// CountForTenant returns the total count of jobs matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter PrintJobFilter) (int64, error)

	// DeleteOlderThan deletes jobs created before the cutoff
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// PrintJobFilter extends the standard filter with print job specific criteria
type PrintJobFilter struct {
	shared.Filter
	DocumentType *DocType   // Filter by document type
	Status       *JobStatus // Filter by status
	PaperSize    *PaperSize // Filter by paper size
}
