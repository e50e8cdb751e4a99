package main

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gymistic/gymistic/internal/errors"
)

// exportGET streams a JSON snapshot of every collection for backup.
func (app *application) exportGET(w http.ResponseWriter, r *http.Request) {
	snapshot, err := app.store.ExportAll(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="gymistic-export.json"`)
	if _, err := w.Write(snapshot); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "write export", errors.SlogError(errors.Wrap(err, "write export")))
	}
}

// importPOST restores collections from a snapshot produced by the export
// endpoint. Collections absent from the snapshot are left untouched.
func (app *application) importPOST(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, "request body too large or unreadable")
		return
	}
	if err := app.store.ImportAll(r.Context(), body); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "invalid snapshot")
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]string{"status": "imported"})
}
