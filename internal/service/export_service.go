package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"dealerops/internal/config"
	"dealerops/internal/csvexport"
	"dealerops/internal/domain"
	"dealerops/internal/port"
	"dealerops/internal/xlsxexport"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

const exportPageSize = 500

// ExportResult holds a rendered register export.
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
	// ArchiveURL is a presigned link to the archived copy, set only when
	// archiving was requested.
	ArchiveURL string
}

// ExportService renders the dealer's invoice register as CSV or XLSX and
// optionally archives the file to object storage.
type ExportService interface {
	ExportRegister(ctx context.Context, dealerID uuid.UUID, format string, archive bool) (*ExportResult, error)
}

type exportService struct {
	invoiceRepo port.InvoiceRepository
	storage     port.ObjectStorage
	s3cfg       *config.S3Config
}

// NewExportService creates a new ExportService implementation. storage may
// be nil; archiving then fails with ErrExportFailed.
func NewExportService(invoiceRepo port.InvoiceRepository, storage port.ObjectStorage, s3cfg *config.S3Config) ExportService {
	return &exportService{invoiceRepo: invoiceRepo, storage: storage, s3cfg: s3cfg}
}

func (s *exportService) ExportRegister(ctx context.Context, dealerID uuid.UUID, format string, archive bool) (*ExportResult, error) {
	if dealerID == uuid.Nil {
		return nil, domain.ErrDealerRequired
	}

	invoices, err := s.loadAll(ctx, dealerID)
	if err != nil {
		return nil, err
	}

	stamp := time.Now().UTC().Format("20060102-150405")
	result := &ExportResult{}

	switch format {
	case FormatXLSX:
		data, err := xlsxexport.Write(invoices)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
		}
		result.Data = data
		result.FileName = fmt.Sprintf("invoice-register-%s.xlsx", stamp)
		result.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV, "":
		var buf bytes.Buffer
		buf.Write(csvexport.BOM)
		w := csvexport.NewWriter(&buf)
		if err := w.WriteHeader(); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
		}
		if err := w.WriteInvoices(invoices); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
		}
		result.Data = buf.Bytes()
		result.FileName = fmt.Sprintf("invoice-register-%s.csv", stamp)
		result.ContentType = "text/csv"
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", domain.ErrExportFailed, format)
	}

	if archive {
		url, err := s.archive(ctx, dealerID, result)
		if err != nil {
			return nil, err
		}
		result.ArchiveURL = url
	}
	return result, nil
}

func (s *exportService) loadAll(ctx context.Context, dealerID uuid.UUID) ([]domain.Invoice, error) {
	var all []domain.Invoice
	for offset := 0; ; offset += exportPageSize {
		page, total, err := s.invoiceRepo.ListByDealer(ctx, dealerID, domain.StatusFilterAll, offset, exportPageSize)
		if err != nil {
			return nil, fmt.Errorf("loading invoices: %w", err)
		}
		all = append(all, page...)
		if len(all) >= total || len(page) == 0 {
			return all, nil
		}
	}
}

func (s *exportService) archive(ctx context.Context, dealerID uuid.UUID, result *ExportResult) (string, error) {
	if s.storage == nil || s.s3cfg == nil {
		return "", fmt.Errorf("%w: archive storage not configured", domain.ErrExportFailed)
	}
	key := fmt.Sprintf("registers/%s/%s", dealerID, result.FileName)
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(result.Data),
		ContentType: result.ContentType,
		Size:        int64(len(result.Data)),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
	}
	url, err := s.storage.GetPresignedURL(ctx, s.s3cfg.Bucket, key, s.s3cfg.PresignExpiry)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
	}
	return url, nil
}
