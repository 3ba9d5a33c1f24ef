package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// User
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")

	// Reports
	r.HandleFunc("/api/reports/worklog", deps.ReportHandler.Generate).Methods("POST")
	r.HandleFunc("/api/reports/worklog/publish", deps.ReportHandler.Publish).Methods("POST")
	r.HandleFunc("/api/reports/developers", deps.ReportHandler.Developers).Methods("GET")

	// Holidays
	if deps.HolidayHandler != nil {
		r.HandleFunc("/api/holiday", deps.HolidayHandler.List).Methods("GET")
		r.HandleFunc("/api/holiday", deps.HolidayHandler.Add).Methods("POST")
		r.HandleFunc("/api/holiday/import-from-google", deps.HolidayHandler.ImportFromGoogle).Methods("POST")
		r.HandleFunc("/api/holiday/{date}", deps.HolidayHandler.Remove).Methods("DELETE")
	}

	// Stored daily worklogs
	if deps.DailyLogHandler != nil {
		r.HandleFunc("/api/daily-worklogs", deps.DailyLogHandler.Upload).Methods("POST")
		r.HandleFunc("/api/daily-worklogs", deps.DailyLogHandler.List).Methods("GET")
		r.HandleFunc("/api/daily-worklogs/hide", deps.DailyLogHandler.SetHidden).Methods("PUT")
		r.HandleFunc("/api/daily-worklogs/devstatus", deps.DailyLogHandler.SetDevStatus).Methods("PUT")
		r.HandleFunc("/api/daily-worklogs/{id}", deps.DailyLogHandler.Update).Methods("PUT")
	}
}
