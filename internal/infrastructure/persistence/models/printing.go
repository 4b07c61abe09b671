package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/printing"
)

// PrintJobModel is the GORM model for the print_jobs table
type PrintJobModel struct {
	TenantAggregateModel
	DocumentType   string     `gorm:"column:document_type;type:varchar(50);not null"`
	DocumentNumber string     `gorm:"column:document_number;type:varchar(100);not null"`
	PaperSize      string     `gorm:"column:paper_size;type:varchar(20);not null"`
	Status         string     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	IdempotencyKey string     `gorm:"column:idempotency_key;type:varchar(128)"`
	PageCount      int        `gorm:"column:page_count;not null;default:0"`
	SkippedImages  int        `gorm:"column:skipped_images;not null;default:0"`
	StoragePath    string     `gorm:"column:storage_path;type:text"`
	PdfURL         string     `gorm:"column:pdf_url;type:text"`
	FileSize       int64      `gorm:"column:file_size;not null;default:0"`
	ErrorMessage   string     `gorm:"column:error_message;type:text"`
	RenderedAt     *time.Time `gorm:"column:rendered_at"`
	RequestedBy    *uuid.UUID `gorm:"column:requested_by;type:uuid"`
}

// TableName returns the table name for PrintJobModel
func (PrintJobModel) TableName() string {
	return "print_jobs"
}

// ToDomain converts PrintJobModel to domain PrintJob
func (m *PrintJobModel) ToDomain() *printing.PrintJob {
	job := &printing.PrintJob{
		DocumentType:   printing.DocType(m.DocumentType),
		DocumentNumber: m.DocumentNumber,
		PaperSize:      printing.PaperSize(m.PaperSize),
		Status:         printing.JobStatus(m.Status),
		IdempotencyKey: m.IdempotencyKey,
		PageCount:      m.PageCount,
		SkippedImages:  m.SkippedImages,
		StoragePath:    m.StoragePath,
		PdfURL:         m.PdfURL,
		FileSize:       m.FileSize,
		ErrorMessage:   m.ErrorMessage,
		RenderedAt:     m.RenderedAt,
		RequestedBy:    m.RequestedBy,
	}
	m.PopulateTenantAggregateRoot(&job.TenantAggregateRoot)
	return job
}

// FromDomain populates the model from a domain PrintJob
func (m *PrintJobModel) FromDomain(j *printing.PrintJob) {
	m.FromDomainTenantAggregateRoot(j.TenantAggregateRoot)
	m.DocumentType = string(j.DocumentType)
	m.DocumentNumber = j.DocumentNumber
	m.PaperSize = string(j.PaperSize)
	m.Status = string(j.Status)
	m.IdempotencyKey = j.IdempotencyKey
	m.PageCount = j.PageCount
	m.SkippedImages = j.SkippedImages
	m.StoragePath = j.StoragePath
	m.PdfURL = j.PdfURL
	m.FileSize = j.FileSize
	m.ErrorMessage = j.ErrorMessage
	m.RenderedAt = j.RenderedAt
	m.RequestedBy = j.RequestedBy
}

// PrintJobModelFromDomain creates a PrintJobModel from domain PrintJob
func PrintJobModelFromDomain(j *printing.PrintJob) *PrintJobModel {
	m := &PrintJobModel{}
	m.FromDomain(j)
	return m
}
