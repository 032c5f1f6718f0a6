// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes a notebook session over HTTP.
package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pdiddy/research-notebook/internal/export"
	"github.com/pdiddy/research-notebook/internal/notebook"
	"github.com/pdiddy/research-notebook/pkg/types"
)

// Server serves one notebook session.
type Server struct {
	session  *notebook.Session
	gatherer prometheus.Gatherer
	logger   *zap.Logger
	echo     *echo.Echo

	// done is closed by Shutdown so long-lived streams return and the
	// HTTP server can drain.
	done     chan struct{}
	doneOnce sync.Once
}

// New builds the routes for session. Metrics are served from gatherer.
func New(session *notebook.Session, gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{session: session, gatherer: gatherer, logger: logger, echo: e, done: make(chan struct{})}
	e.HTTPErrorHandler = s.handleError
	e.Use(s.logRequests)

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := e.Group("/api")
	api.POST("/queries", s.submit)
	api.GET("/results", s.results)
	api.GET("/document", s.document)
	api.DELETE("/document", s.reset)
	api.GET("/events", s.events)

	exp := api.Group("/export")
	exp.GET("/markdown", s.exportMarkdown)
	exp.GET("/html", s.exportHTML)
	exp.GET("/pages", s.exportPages)
	exp.GET("/pdf", s.exportPDF)

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.echo }

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("listening", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown closes open event streams, stops accepting requests and waits
// for in-flight dispatches.
func (s *Server) Shutdown(ctx context.Context) error {
	s.doneOnce.Do(func() { close(s.done) })
	err := s.echo.Shutdown(ctx)
	s.session.Wait()
	return err
}

func (s *Server) handleError(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := err.Error()
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
	}
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.Request().URL.Path), zap.Error(err))
	}
	if !c.Response().Committed {
		_ = c.JSON(code, map[string]string{"error": msg})
	}
}

func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		req := c.Request()
		s.logger.Debug("request",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", c.Response().Status),
			zap.Duration("duration", time.Since(start)))
		return err
	}
}

type submitRequest struct {
	Query  string `json:"query"`
	Source string `json:"source"`
}

type submitResponse struct {
	IDs []string `json:"ids"`
}

// submit accepts {"query", "source"}; source may list several sources
// separated by commas. Each source is dispatched independently.
func (s *Server) submit(c echo.Context) error {
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}
	sources, err := types.ParseSources(req.Source)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp := submitResponse{}
	for _, src := range sources {
		resp.IDs = append(resp.IDs, s.session.SubmitQuery(c.Request().Context(), query, src))
	}
	return c.JSON(http.StatusAccepted, resp)
}

type resultsResponse struct {
	Query   string               `json:"query"`
	Results []types.SearchResult `json:"results"`
}

func (s *Server) results(c echo.Context) error {
	return c.JSON(http.StatusOK, resultsResponse{
		Query:   s.session.Query(),
		Results: s.session.Results(),
	})
}

func (s *Server) document(c echo.Context) error {
	return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(s.session.Document()))
}

func (s *Server) reset(c echo.Context) error {
	s.session.Reset()
	return c.NoContent(http.StatusNoContent)
}

// events streams a server-sent event after every document change.
func (s *Server) events(c echo.Context) error {
	changes, unsubscribe := s.session.Subscribe()
	defer unsubscribe()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		case <-changes:
			if _, err := fmt.Fprintf(w, "event: document\ndata: %d\n\n", len(s.session.Results())); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}

func (s *Server) exportMarkdown(c echo.Context) error {
	md := s.session.ExportMarkdown()
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="research.md"`)
	return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(md.Markdown))
}

func (s *Server) exportHTML(c echo.Context) error {
	return c.HTML(http.StatusOK, s.session.ExportMarkdown().HTML)
}

func (s *Server) exportPages(c echo.Context) error {
	pages := s.session.ExportPDFPages()
	if pages == nil {
		pages = []export.Page{}
	}
	return c.JSON(http.StatusOK, pages)
}

func (s *Server) exportPDF(c echo.Context) error {
	var buf bytes.Buffer
	if err := s.session.WritePDF(&buf); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="research.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}
