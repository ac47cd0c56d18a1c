// Package export renders read-only projections of a record list for the
// spreadsheet download and the printable report. It never touches state.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/hcquillabamba/custodia/model"
)

// DefaultReportTitle heads the printable report.
const DefaultReportTitle = "Reporte de Control de Historias Clínicas - Hospital de Quillabamba"

var columns = []string{
	"N° H.C.",
	"Servicio de Destino",
	"Responsable",
	"Celular",
	"Fecha de Préstamo",
	"Fecha de Devolución",
	"Recepcionado por",
	"Estado",
}

// FormatDateTime renders a timestamp as DD/MM/YYYY HH:mm. Nil means the
// return has not happened yet; a zero value is unparsable data carried
// over from an older snapshot.
func FormatDateTime(t *time.Time) string {
	if t == nil {
		return "Pendiente"
	}
	if t.IsZero() {
		return "Fecha inválida"
	}
	return t.Format("02/01/2006 15:04")
}

func row(rec *model.Record, spreadsheet bool) []string {
	requestDate := rec.RequestDate
	receivedBy := rec.ReceivingStaffName
	if receivedBy == "" || (spreadsheet && rec.Status != model.StatusReturned) {
		receivedBy = "—"
	}
	return []string{
		rec.HCNumber,
		rec.DestinationService,
		rec.Responsible,
		rec.ResponsiblePhoneNumber,
		FormatDateTime(&requestDate),
		FormatDateTime(rec.ReturnDate),
		receivedBy,
		rec.Status.Label(),
	}
}

// WriteCSV writes the record list as a spreadsheet with localized
// headers. The receiving staff column is only filled for returned
// records.
func WriteCSV(w io.Writer, records []*model.Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, rec := range records {
		if err := writer.Write(row(rec, true)); err != nil {
			return fmt.Errorf("failed to write record %s: %w", rec.HCNumber, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
