package csvexport

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"dealerops/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Columns defines the register header row.
var Columns = []string{
	"Invoice Number",
	"Status",
	"Issue Date",
	"Due Date",
	"Subtotal",
	"Tax Rate",
	"Tax Amount",
	"Discount",
	"Total",
	"Amount Due",
	"Vehicle Count",
	"Departments",
	"Window Start",
	"Window End",
	"Notes",
	"Created At",
}

// Writer wraps csv.Writer for exporting an invoice register as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the register header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(Columns)
}

// WriteInvoices converts a batch of invoices to CSV rows and writes them.
func (w *Writer) WriteInvoices(invoices []domain.Invoice) error {
	for i := range invoices {
		if err := w.csv.Write(InvoiceRow(&invoices[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// InvoiceRow converts one invoice to a register row. Metadata that fails to
// decode leaves the batch-provenance columns empty rather than failing the
// export.
func InvoiceRow(inv *domain.Invoice) []string {
	row := make([]string, len(Columns))
	row[0] = inv.InvoiceNumber
	row[1] = string(inv.Status)
	row[2] = inv.IssueDate.Format("2006-01-02")
	row[3] = inv.DueDate.Format("2006-01-02")
	row[4] = money(inv.Subtotal)
	row[5] = fmt.Sprintf("%.2f%%", inv.TaxRate)
	row[6] = money(inv.TaxAmount)
	row[7] = money(inv.DiscountAmount)
	row[8] = money(inv.TotalAmount)
	row[9] = money(inv.AmountDue)

	var meta domain.InvoiceMetadata
	if len(inv.Metadata) > 0 && json.Unmarshal(inv.Metadata, &meta) == nil {
		row[10] = fmt.Sprintf("%d", meta.VehicleCount)
		depts := make([]string, len(meta.Departments))
		for i, d := range meta.Departments {
			depts[i] = string(d)
		}
		row[11] = strings.Join(depts, ", ")
		row[12] = meta.WindowStart
		row[13] = meta.WindowEnd
	}

	row[14] = inv.Notes
	row[15] = inv.CreatedAt.Format(time.RFC3339)
	return row
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
