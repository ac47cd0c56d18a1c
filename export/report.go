package export

import "github.com/hcquillabamba/custodia/model"

// ReportPageSize is the number of rows per printable page.
const ReportPageSize = 25

// Report is a paginated printable projection of the record list.
type Report struct {
	Title   string
	Columns []string
	Pages   [][][]string
}

// BuildReport lays the record list out into pages of ReportPageSize
// rows each, in the given order.
func BuildReport(title string, records []*model.Record) *Report {
	if title == "" {
		title = DefaultReportTitle
	}
	report := &Report{
		Title:   title,
		Columns: append([]string(nil), columns...),
	}

	var page [][]string
	for _, rec := range records {
		page = append(page, row(rec, false))
		if len(page) == ReportPageSize {
			report.Pages = append(report.Pages, page)
			page = nil
		}
	}
	if len(page) > 0 {
		report.Pages = append(report.Pages, page)
	}
	return report
}
