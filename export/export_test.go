package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcquillabamba/custodia/model"
)

func sampleRecords() []*model.Record {
	requestDate := time.Date(2025, 2, 3, 14, 5, 0, 0, time.UTC)
	returnDate := time.Date(2025, 2, 10, 9, 30, 0, 0, time.UTC)
	return []*model.Record{
		{
			ID:                     uuid.New(),
			HCNumber:               "111",
			DestinationService:     "Pediatría",
			Responsible:            "Dr. Rojas",
			ResponsiblePhoneNumber: "987654321",
			RequestDate:            requestDate,
			Status:                 model.StatusReturned,
			ReturnDate:             &returnDate,
			ReceivingStaffName:     "Ana",
		},
		{
			ID:                     uuid.New(),
			HCNumber:               "222",
			DestinationService:     "Cirugía",
			Responsible:            "Dr. Paz",
			ResponsiblePhoneNumber: "912345678",
			RequestDate:            requestDate,
			Status:                 model.StatusLoaned,
		},
	}
}

func TestFormatDateTime(t *testing.T) {
	assert.Equal(t, "Pendiente", FormatDateTime(nil))

	var zero time.Time
	assert.Equal(t, "Fecha inválida", FormatDateTime(&zero))

	ts := time.Date(2025, 2, 3, 14, 5, 0, 0, time.UTC)
	assert.Equal(t, "03/02/2025 14:05", FormatDateTime(&ts))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "N° H.C.")
	assert.Contains(t, lines[1], "03/02/2025 14:05")
	assert.Contains(t, lines[1], "10/02/2025 09:30")
	assert.Contains(t, lines[1], "Devuelto")
	assert.Contains(t, lines[1], "Ana")
	// staff column stays empty for records that are still out
	assert.Contains(t, lines[2], "Pendiente")
	assert.Contains(t, lines[2], "—")
	assert.Contains(t, lines[2], "Prestado")
}

func TestBuildReportPaginates(t *testing.T) {
	var records []*model.Record
	base := sampleRecords()[1]
	for i := 0; i < ReportPageSize+3; i++ {
		copied := *base
		copied.ID = uuid.New()
		records = append(records, &copied)
	}

	report := BuildReport("", records)
	assert.Equal(t, DefaultReportTitle, report.Title)
	require.Len(t, report.Pages, 2)
	assert.Len(t, report.Pages[0], ReportPageSize)
	assert.Len(t, report.Pages[1], 3)
	assert.Equal(t, len(report.Columns), len(report.Pages[0][0]))
}
