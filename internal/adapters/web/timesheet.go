package web

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"lumix-backoffice/internal/core"

	"github.com/xuri/excelize/v2"
)

// writeSummaryCSV renders the aggregated rows as CSV. The returned
// error covers both encoding and the underlying write.
func writeSummaryCSV(w io.Writer, summary []core.TimeSummaryRow) error {
	writer := csv.NewWriter(w)
	writer.Write([]string{"user_id", "name", "net_minutes", "net_hours"})
	for _, row := range summary {
		writer.Write([]string{
			strconv.Itoa(row.UserID),
			row.FullName,
			strconv.Itoa(row.Minutes),
			strconv.FormatFloat(float64(row.Minutes)/60.0, 'f', 2, 64),
		})
	}
	writer.Flush()
	return writer.Error()
}

func (h *Handler) clockIn(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, r, "not authenticated", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}
	entry, err := h.svc.ClockIn(r.Context(), user)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	type response struct {
		Entry any `json:"entry"`
	}
	writeJSON(w, response{Entry: entry})
}

func (h *Handler) clockOut(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, r, "not authenticated", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}
	entry, err := h.svc.ClockOut(r.Context(), user)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	type response struct {
		DurationMinutes int `json:"duration_minutes"`
		BreakMinutes    int `json:"break_minutes"`
		NetMinutes      int `json:"net_minutes"`
	}
	writeJSON(w, response{
		DurationMinutes: entry.DurationMinutes,
		BreakMinutes:    entry.BreakMinutes,
		NetMinutes:      entry.NetMinutes,
	})
}

func (h *Handler) startBreak(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, r, "not authenticated", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}
	brk, err := h.svc.StartBreak(r.Context(), user)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	type response struct {
		Break any `json:"break"`
	}
	writeJSON(w, response{Break: brk})
}

func (h *Handler) endBreak(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, r, "not authenticated", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}
	brk, err := h.svc.EndBreak(r.Context(), user)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	type response struct {
		DurationMinutes int `json:"duration_minutes"`
	}
	writeJSON(w, response{DurationMinutes: brk.DurationMinutes})
}

func (h *Handler) timeStatus(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, r, "not authenticated", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}
	status, err := h.svc.TimeStatus(r.Context(), user)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, status)
}

func (h *Handler) timeEntries(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, r, "not authenticated", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}
	entries, err := h.svc.TimeEntries(r.Context(), user)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	type response struct {
		Entries any `json:"entries"`
	}
	writeJSON(w, response{Entries: entries})
}

func (h *Handler) timeSummary(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, r, "not authenticated", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}
	summary, err := h.svc.TimeSummary(r.Context(), user, r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	type response struct {
		Summary any `json:"summary"`
	}
	writeJSON(w, response{Summary: summary})
}

// timeSummaryExport handles GET /api/time/summary/export?format=csv|xlsx.
// Same aggregation as timeSummary, rendered as a spreadsheet download.
func (h *Handler) timeSummaryExport(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, r, "not authenticated", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}
	summary, err := h.svc.TimeSummary(r.Context(), user, r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	stamp := time.Now().Format("20060102")
	switch r.URL.Query().Get("format") {
	case "xlsx":
		f := excelize.NewFile()
		sheet := "Time summary"
		index, err := f.NewSheet(sheet)
		if err != nil {
			writeError(w, r, "could not build workbook", "INTERNAL_ERROR", http.StatusInternalServerError)
			return
		}
		f.SetActiveSheet(index)
		f.DeleteSheet("Sheet1")

		headers := []string{"User ID", "Name", "Net minutes", "Net hours"}
		for i, header := range headers {
			cell := fmt.Sprintf("%c1", 'A'+i)
			f.SetCellValue(sheet, cell, header)
		}
		for idx, row := range summary {
			n := idx + 2
			f.SetCellValue(sheet, fmt.Sprintf("A%d", n), row.UserID)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", n), row.FullName)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", n), row.Minutes)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", n), float64(row.Minutes)/60.0)
		}
		f.SetColWidth(sheet, "B", "B", 30)

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"time-summary_%s.xlsx\"", stamp))
		if err := f.Write(w); err != nil {
			writeError(w, r, "could not write workbook", "INTERNAL_ERROR", http.StatusInternalServerError)
		}

	default: // csv
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"time-summary_%s.csv\"", stamp))

		if err := writeSummaryCSV(w, summary); err != nil {
			log.Printf("time summary csv export failed: %v", err)
		}
	}
}
