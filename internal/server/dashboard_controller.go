package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"StockInsights/internal/dashboard"
	"StockInsights/internal/export"
	"StockInsights/internal/model"
)

const msgEnterSymbols = "Please enter stock symbols to view their data."

type DashboardController struct {
	svc  *dashboard.Service
	opts Options
}

func NewDashboardController(svc *dashboard.Service, opts Options) *DashboardController {
	return &DashboardController{svc: svc, opts: opts}
}

// RegisterRoutes mounts the JSON and CSV endpoints under router.
func (ctrl *DashboardController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard", ctrl.GetDashboard)
	router.GET("/export/:symbol", ctrl.ExportCSV)
}

// params reads symbols, start and end from the query string, falling back
// to the configured defaults when a parameter is absent.
func (ctrl *DashboardController) params(c *gin.Context) requestParams {
	start, end := dashboard.DefaultRange(ctrl.opts.Now(), ctrl.opts.DefaultRangeDays)
	p := requestParams{
		Symbols:    ctrl.opts.DefaultSymbols,
		SymbolsRaw: dashboard.SymbolList(ctrl.opts.DefaultSymbols),
		Start:      c.DefaultQuery("start", start.Format(model.DateLayout)),
		End:        c.DefaultQuery("end", end.Format(model.DateLayout)),
	}
	if raw, ok := c.GetQuery("symbols"); ok {
		p.SymbolsRaw = raw
		p.Symbols = dashboard.ParseSymbols(raw)
	}
	return p
}

// GetDashboard returns the rendered view as JSON.
func (ctrl *DashboardController) GetDashboard(c *gin.Context) {
	req, err := ctrl.params(c).request()
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	state, err := ctrl.svc.Build(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), Response{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: ctrl.svc.Render(state)})
}

// ExportCSV streams one symbol's enriched series as a CSV attachment.
func (ctrl *DashboardController) ExportCSV(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	p := ctrl.params(c)
	p.Symbols = []string{symbol}
	req, err := p.request()
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	series, err := ctrl.svc.Series(c.Request.Context(), symbol, req.Start, req.End)
	if err != nil {
		c.JSON(statusFor(err), Response{Error: err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, series); err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("write csv")
		c.JSON(http.StatusInternalServerError, Response{Error: "failed to encode csv"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(symbol)+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

type pageData struct {
	Title   string
	Credit  string
	Symbols string
	Start   string
	End     string
	Error   string
	Info    string
	View    *dashboard.View
	Figure  template.JS
}

// Page renders the HTML dashboard. Errors are shown as a single banner.
func (ctrl *DashboardController) Page(c *gin.Context) {
	p := ctrl.params(c)
	data := pageData{
		Title:   dashboard.AppTitle,
		Credit:  dashboard.DataCredit,
		Symbols: p.SymbolsRaw,
		Start:   p.Start,
		End:     p.End,
	}

	req, err := p.request()
	if err != nil {
		data.Error = err.Error()
		c.HTML(http.StatusBadRequest, "index.html", data)
		return
	}
	if len(req.Symbols) == 0 && req.Start.Before(req.End) {
		data.Info = msgEnterSymbols
		c.HTML(http.StatusOK, "index.html", data)
		return
	}

	state, err := ctrl.svc.Build(c.Request.Context(), req)
	if err != nil {
		data.Error = bannerText(err)
		c.HTML(statusFor(err), "index.html", data)
		return
	}
	data.View = ctrl.svc.Render(state)
	fig, err := json.Marshal(data.View.Figure)
	if err != nil {
		log.Error().Err(err).Msg("encode figure")
		data.Error = "failed to render chart"
		c.HTML(http.StatusInternalServerError, "index.html", data)
		return
	}
	data.Figure = template.JS(fig)
	c.HTML(http.StatusOK, "index.html", data)
}

func bannerText(err error) string {
	switch {
	case errors.Is(err, dashboard.ErrInvalidDateRange):
		return "Start date must be before end date."
	case errors.Is(err, dashboard.ErrNoData):
		return "Unable to fetch stock data. Please check the stock symbols and try again."
	default:
		return err.Error()
	}
}
