package controllers

import (
	"io"
	"net/http"

	"github.com/AIforimpact22/bootcampx/api/responses"
	"github.com/AIforimpact22/bootcampx/api/validators"
	"github.com/AIforimpact22/bootcampx/internal/sales"
	"github.com/AIforimpact22/bootcampx/pkg/logger"
)

func parseReportFilter(r *http.Request) (sales.ReportFilter, error) {
	start, err := validators.ParseQueryDate(r, "start")
	if err != nil {
		return sales.ReportFilter{}, err
	}
	end, err := validators.ParseQueryDate(r, "end")
	if err != nil {
		return sales.ReportFilter{}, err
	}
	cashierID, err := validators.ParseQueryID(r, "cashier_id")
	if err != nil {
		return sales.ReportFilter{}, err
	}
	return sales.ReportFilter{
		Start:     start,
		End:       end,
		CashierID: cashierID,
		Item:      r.URL.Query().Get("item"),
	}, nil
}

// SalesReport handles GET /api/v1/sales.
func SalesReport(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseReportFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		report, err := svc.Report(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

// SalesExportCSV handles GET /api/v1/sales/export.csv with the report filters.
func SalesExportCSV(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseReportFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		report, err := svc.Report(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCSV(r.Context(), logg, w, report.Filename(), func(out io.Writer) error {
			return sales.WriteCSV(out, report)
		})
	}
}
