package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"finance_tracker/internal/export"
	"finance_tracker/internal/models"
	"finance_tracker/internal/repository"
)

// ExportHandler handles data export requests.
type ExportHandler struct {
	deps *Dependencies
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps *Dependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// EntriesCSV exports every ledger entry as CSV.
func (h *ExportHandler) EntriesCSV(w http.ResponseWriter, r *http.Request) {
	entries, ok := h.entries(w, r)
	if !ok {
		return
	}
	h.send(w, r, export.ContentTypeCSV, export.Filename("entries", "csv", h.deps.today()), func(out io.Writer) error {
		return export.EntriesCSV(out, entries)
	})
}

// EntriesXLSX exports every ledger entry as a spreadsheet.
func (h *ExportHandler) EntriesXLSX(w http.ResponseWriter, r *http.Request) {
	entries, ok := h.entries(w, r)
	if !ok {
		return
	}
	h.send(w, r, export.ContentTypeXLSX, export.Filename("entries", "xlsx", h.deps.today()), func(out io.Writer) error {
		return export.EntriesXLSX(out, entries)
	})
}

// NetWorthXLSX exports the recorded net worth history as a spreadsheet.
func (h *ExportHandler) NetWorthXLSX(w http.ResponseWriter, r *http.Request) {
	history, err := h.deps.Services.NetWorth.History(currentUser(r).ID, time.Time{})
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	h.send(w, r, export.ContentTypeXLSX, export.Filename("networth", "xlsx", h.deps.today()), func(out io.Writer) error {
		return export.NetWorthXLSX(out, history)
	})
}

func (h *ExportHandler) entries(w http.ResponseWriter, r *http.Request) ([]*models.LedgerEntry, bool) {
	entries, err := h.deps.Services.Ledger.ListEntries(repository.EntryFilter{UserID: currentUser(r).ID})
	if err != nil {
		h.deps.writeError(w, r, err)
		return nil, false
	}
	return entries, true
}

// send renders into a buffer first so that a failure can still become a JSON error.
func (h *ExportHandler) send(w http.ResponseWriter, r *http.Request, contentType, filename string, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		h.deps.writeError(w, r, fmt.Errorf("rendering %s: %w", filename, err))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.Write(buf.Bytes())
}
