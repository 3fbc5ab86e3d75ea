package handlers

import (
	"net/http"

	"bclub/backend/services/counter-service/internal/service"
)

// NewStatsHandler handles GET /api/stats.
func NewStatsHandler(reports *service.ReportsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overview, err := reports.Overview(r.Context())
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, overview)
	}
}

// NewDailyReportHandler handles GET /api/agenda/daily/{date}.
func NewDailyReportHandler(reports *service.ReportsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := reports.Daily(r.Context(), r.PathValue("date"))
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

// NewMonthlyReportHandler handles GET /api/agenda/monthly/{year}/{month}.
func NewMonthlyReportHandler(reports *service.ReportsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := pathInt(r, "year")
		if err != nil {
			writeAppError(w, err)
			return
		}
		month, err := pathInt(r, "month")
		if err != nil {
			writeAppError(w, err)
			return
		}
		report, err := reports.Monthly(r.Context(), year, month)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}
