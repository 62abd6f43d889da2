// Package server exposes the dashboard over HTTP: an HTML page, a JSON view
// and CSV downloads.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"StockInsights/internal/dashboard"
	"StockInsights/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options carries the request defaults and transport settings.
type Options struct {
	DefaultSymbols   []string
	DefaultRangeDays int
	AllowedOrigins   []string
	// Now is the clock for the default date range.
	Now func() time.Time
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(svc *dashboard.Service, opts Options) *gin.Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultRangeDays <= 0 {
		opts.DefaultRangeDays = 365
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  opts.AllowedOrigins,
			AllowMethods:  []string{"GET", "HEAD", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
			MaxAge:        12 * time.Hour,
		}))
	}
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	ctrl := NewDashboardController(svc, opts)
	r.GET("/", ctrl.Page)

	api := r.Group("/api")
	{
		NewHealthController().RegisterRoutes(api)
		ctrl.RegisterRoutes(api)
	}
	return r
}

// NewHTTPServer wraps handler in an http.Server with the given timeouts.
func NewHTTPServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrInvalidDateRange), errors.Is(err, dashboard.ErrMalformedDate):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// requestParams is the user input after defaults are applied.
type requestParams struct {
	Symbols    []string
	SymbolsRaw string
	Start      string
	End        string
}

func (p requestParams) request() (model.Request, error) {
	start, err := dashboard.ParseDate(p.Start)
	if err != nil {
		return model.Request{}, err
	}
	end, err := dashboard.ParseDate(p.End)
	if err != nil {
		return model.Request{}, err
	}
	return model.Request{Symbols: p.Symbols, Start: start, End: end}, nil
}
