package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jvaldeolmillos/bc3-import/internal/bc3"
	"github.com/jvaldeolmillos/bc3-import/internal/importer"
	"github.com/jvaldeolmillos/bc3-import/internal/logging"
	"github.com/jvaldeolmillos/bc3-import/internal/order"
)

// handleIndex serves the upload page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "index page unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// handleImport accepts a multipart BC3 upload and runs the import.
//
// The decoder needs the whole byte buffer to pick an encoding, so the
// file is read fully; MaxFileSize keeps that bounded.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, importer.ErrMissingFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	result, err := s.service.Import(r.Context(), header.Filename, data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// handleGetOrder returns an imported order with its lines.
func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	o, lines, err := s.service.Order(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if o == nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Order *order.Order      `json:"order"`
		Lines []order.LineDraft `json:"lines"`
	}{Order: o, Lines: lines})
}

// handleListImports returns the recent import history.
func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	imports, err := s.service.RecentImports(r.Context(), s.cfg.Import.HistoryLimit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Imports []order.ImportSummary `json:"imports"`
	}{Imports: imports})
}

// respondError logs the technical error and returns the mapped
// user-facing message with an appropriate status code.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	userMsg := importer.MapError(err)
	status := statusFor(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	writeJSON(w, status, struct {
		Error importer.UserMessage `json:"error"`
	}{Error: userMsg})
}

// statusFor picks the HTTP status for an import error. Anything the user
// can fix by fixing the file is a 400; the rest is on us.
func statusFor(err error) int {
	switch {
	case errors.Is(err, importer.ErrMissingFile),
		errors.Is(err, bc3.ErrUndecodable),
		errors.Is(err, importer.ErrNoConcepts):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
