package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"redfp/internal/logging"
)

// handleImport accepts a multipart upload under the "file" field and runs
// the import pipeline registered for {key}. Valid rows are committed even
// when other rows fail, and the response always carries the full error list
// so the client can show per-row feedback.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	logger := logging.WithFields(r.Context(), "type", key)

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "el archivo supera el tamaño máximo permitido")
			return
		}
		writeError(w, r, http.StatusBadRequest, "formulario multipart inválido: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "falta el campo file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "no se pudo leer el archivo: "+err.Error())
		return
	}

	logger = logger.With("filename", header.Filename, "size", len(data))
	logger.Info("import started")

	report, err := s.service.Import(key, data)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logger.Info("import completed",
		"rows", report.Stats.Total,
		"imported", report.Imported,
		"rejected", report.Stats.Errors,
	)
	writeJSON(w, http.StatusOK, report)
}

// handleDownloadTemplate serves the CSV template for an import type as an
// attachment.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	data, filename, err := s.service.Template(key)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(data)
}

// handleImportDefinitions lists the import types the service understands,
// with their expected columns.
func (s *Server) handleImportDefinitions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.ImportTypes())
}
