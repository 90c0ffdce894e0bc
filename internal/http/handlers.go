package http

import (
	"bytes"
	"errors"
	"net/http"

	applog "receita/internal/log"
	"receita/internal/report"
	"receita/internal/services"
)

const notLoadedMessage = "Dados ainda não carregados"

type pageData struct {
	Options  report.FilterOptions
	Criteria report.Criteria
	Report   reportView
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady answers 503 until the dataset snapshot is available.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !s.reports.Ready() {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleIndex renders the full dashboard page for the query's criteria.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	opts, c, rep, hit, err := s.resolve(r)
	if err != nil {
		s.writeHTMLError(w, r, err)
		return
	}
	s.render(w, r, "index.html", pageData{Options: opts, Criteria: c, Report: newReportView(rep, hit)}, nil)
}

// handleReportPartial renders only the report section, for HTMX swaps.
func (s *Server) handleReportPartial(w http.ResponseWriter, r *http.Request) {
	_, _, rep, hit, err := s.resolve(r)
	if err != nil {
		s.writeHTMLError(w, r, err)
		return
	}
	s.render(w, r, "report", newReportView(rep, hit), NewHTMXResponse().TriggerReportRendered(rep.Rows, hit))
}

func (s *Server) handleAPIReport(w http.ResponseWriter, r *http.Request) {
	_, _, rep, hit, err := s.resolve(r)
	if err != nil {
		status, msg := s.classify(r, err)
		writeJSONError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, newReportJSON(rep, hit))
}

func (s *Server) handleAPIOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.reports.Options()
	if err != nil {
		status, msg := s.classify(r, err)
		writeJSONError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, newOptionsJSON(opts))
}

// resolve parses the request criteria against the dataset defaults and
// computes the report.
func (s *Server) resolve(r *http.Request) (report.FilterOptions, report.Criteria, report.Report, bool, error) {
	var (
		opts report.FilterOptions
		c    report.Criteria
		rep  report.Report
	)
	opts, err := s.reports.Options()
	if err != nil {
		return opts, c, rep, false, err
	}
	defaults, err := s.reports.DefaultCriteria()
	if err != nil {
		return opts, c, rep, false, err
	}
	c = defaults
	if q := r.URL.Query(); HasCriteria(q) {
		if c, err = ParseCriteria(q, defaults, opts); err != nil {
			return opts, c, rep, false, err
		}
	}
	rep, hit, err := s.reports.Report(r.Context(), c)
	if err != nil {
		return opts, c, rep, false, err
	}

	applog.NewStructuredLogger(applog.FromContext(r.Context())).
		LogReportRendered(r.Context(), c.Key(), rep.Rows, rep.Totals.Total.String(), hit)
	return opts, c, rep, hit, nil
}

// classify maps an error to a status code and a client-safe message.
func (s *Server) classify(r *http.Request, err error) (int, string) {
	var fe *FieldError
	switch {
	case errors.As(err, &fe):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, services.ErrNotLoaded):
		return http.StatusServiceUnavailable, notLoadedMessage
	default:
		applog.NewStructuredLogger(applog.FromContext(r.Context())).
			LogError(r.Context(), "Report request failed", err, applog.ComponentHTTP, applog.OpRender, nil)
		return http.StatusInternalServerError, "Erro interno"
	}
}

func (s *Server) writeHTMLError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := s.classify(r, err)
	switch status {
	case http.StatusUnprocessableEntity:
		UnprocessableEntityError(msg).Write(w)
	case http.StatusServiceUnavailable:
		ServiceUnavailableError(msg).Write(w)
	default:
		InternalServerError(msg).Write(w)
	}
}

// render executes a template into a buffer so a failure never leaves a
// half-written page behind.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any, resp *HTMXResponseBuilder) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		applog.NewStructuredLogger(applog.FromContext(r.Context())).
			LogError(r.Context(), "Template execution failed", err, applog.ComponentTemplate, applog.OpRender, applog.LogFields{"template": name})
		InternalServerError("Erro ao renderizar").Write(w)
		return
	}
	if resp == nil {
		resp = NewHTMXResponse()
	}
	resp.BodyHTML(buf.Bytes()).Write(w)
}
