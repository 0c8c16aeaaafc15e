package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/tablex"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server serves stored tables over a JSON API. Extraction is available
// when Extractor is set; pages are fetched with Fetcher unless the request
// carries the HTML itself.
type Server struct {
	router chi.Router

	Tables    tablex.TableService
	Pages     tablex.PageService
	Extractor tablex.TableExtractor
	Fetcher   tablex.Fetcher
	Converter tablex.Converter
	Options   tablex.ExtractOptions
	Logger    *slog.Logger
}

// NewServer returns a Server with its routes registered. Services are
// attached through the exported fields before the first request.
func NewServer() *Server {
	s := &Server{
		Options: tablex.DefaultExtractOptions(),
		Logger:  slog.New(slog.DiscardHandler),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/tables", s.handleListTables)
		r.Get("/tables/lookup", s.handleShowTable)
		r.Get("/pages", s.handleListPages)
		r.Delete("/pages", s.handleDeletePage)
		r.Post("/extract", s.handleExtract)
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	filter := tablex.TableFilter{}
	if u := r.URL.Query().Get("url"); u != "" {
		filter.URL = &u
	}
	var err error
	if filter.Offset, filter.Limit, err = pagination(r); err != nil {
		s.Error(w, r, err)
		return
	}

	tables, err := s.Tables.FindTables(r.Context(), filter)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if tables == nil {
		tables = []*tablex.Table{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": tables})
}

// handleShowTable looks a table up by the id query parameter. Table IDs are
// URLs, so they do not fit in a path segment.
func (s *Server) handleShowTable(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		s.Error(w, r, tablex.Errorf(tablex.EINVALID, "Table ID required."))
		return
	}

	tbl, err := s.Tables.FindTableByID(r.Context(), id)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	if r.URL.Query().Get("format") != "markdown" {
		writeJSON(w, http.StatusOK, tbl)
		return
	}
	if s.Converter == nil {
		s.Error(w, r, tablex.Errorf(tablex.EINVALID, "Markdown output is not available."))
		return
	}
	md, err := s.Converter.Convert(tbl.HTML())
	if err != nil {
		s.Error(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(md + "\n"))
}

func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	filter := tablex.PageFilter{}
	if u := r.URL.Query().Get("url"); u != "" {
		filter.URL = &u
	}
	var err error
	if filter.Offset, filter.Limit, err = pagination(r); err != nil {
		s.Error(w, r, err)
		return
	}

	pages, err := s.Pages.FindPages(r.Context(), filter)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if pages == nil {
		pages = []*tablex.Page{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"pages": pages})
}

func (s *Server) handleDeletePage(w http.ResponseWriter, r *http.Request) {
	u := r.URL.Query().Get("url")
	if u == "" {
		s.Error(w, r, tablex.Errorf(tablex.EINVALID, "Page URL required."))
		return
	}

	n, err := s.Tables.DeleteTablesByURL(r.Context(), u)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": n})
}

// ExtractRequest is the body of POST /api/extract.
type ExtractRequest struct {
	URL  string `json:"url"`
	HTML string `json:"html,omitempty"`
	Save bool   `json:"save,omitempty"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if s.Extractor == nil {
		s.Error(w, r, tablex.Errorf(tablex.EINVALID, "Extraction is not available."))
		return
	}

	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Error(w, r, tablex.Errorf(tablex.EINVALID, "Invalid JSON body."))
		return
	}
	if req.URL == "" {
		s.Error(w, r, tablex.Errorf(tablex.EINVALID, "URL required."))
		return
	}

	html := req.HTML
	if html == "" {
		if s.Fetcher == nil {
			s.Error(w, r, tablex.Errorf(tablex.EINVALID, "HTML required."))
			return
		}
		var err error
		if html, err = s.Fetcher.Fetch(r.Context(), req.URL); err != nil {
			s.Error(w, r, err)
			return
		}
	}

	tables, err := s.Extractor.ExtractTables(req.URL, html, s.Options)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if req.Save {
		if err := s.Tables.SaveTables(r.Context(), req.URL, tables); err != nil {
			s.Error(w, r, err)
			return
		}
	}
	if tables == nil {
		tables = []*tablex.Table{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": tables})
}

// Error writes err as a JSON error response. Internal errors are logged and
// their details hidden from the client.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, message := tablex.ErrorCode(err), tablex.ErrorMessage(err)
	if code == tablex.EINTERNAL {
		s.Logger.Error("http error", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, ErrorStatusCode(code), map[string]string{"error": message})
}

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	tablex.ECONFLICT:    http.StatusConflict,
	tablex.EINVALID:     http.StatusBadRequest,
	tablex.ENOTFOUND:    http.StatusNotFound,
	tablex.EINTERNAL:    http.StatusInternalServerError,
	tablex.EMALFORMED:   http.StatusUnprocessableEntity,
	tablex.EINVALIDSPAN: http.StatusUnprocessableEntity,
	tablex.EOVERLAPSPAN: http.StatusUnprocessableEntity,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.Logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func pagination(r *http.Request) (offset, limit int, err error) {
	q := r.URL.Query()
	if offset, err = intParam(q.Get("offset")); err != nil {
		return 0, 0, err
	}
	if limit, err = intParam(q.Get("limit")); err != nil {
		return 0, 0, err
	}
	return offset, limit, nil
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, tablex.Errorf(tablex.EINVALID, "Invalid number %q.", v)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
