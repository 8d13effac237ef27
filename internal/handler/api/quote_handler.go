package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"QuantPro/internal/domain/models"
	domrepo "QuantPro/internal/domain/repository"
	"QuantPro/internal/usecase"
	xhttp "QuantPro/pkg/http"
	applogger "QuantPro/pkg/logger"
)

// QuoteHandler serves the quote and series endpoints.
type QuoteHandler struct {
	uc  *usecase.QuoteUseCase
	log *applogger.Logger
}

func NewQuoteHandler(uc *usecase.QuoteUseCase, log *applogger.Logger) *QuoteHandler {
	return &QuoteHandler{uc: uc, log: log}
}

func (h *QuoteHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api/v1")
	g.GET("/quote", h.Quote)
	g.GET("/series", h.Series)
	g.GET("/intervals", h.Intervals)
}

// Quote returns the point-in-time summary for one symbol.
func (h *QuoteHandler) Quote(c echo.Context) error {
	var req models.QuoteRequest
	if details := xhttp.ReadAndValidateRequest(c, &req); details != nil {
		return xhttp.BadRequestResponse(c, details)
	}

	res, err := h.uc.Analyze(c.Request().Context(), req.Symbol, domrepo.NormalizeInterval(req.Interval))
	if res.Outcome != models.OutcomeResolved {
		return h.renderFailure(c, res, err)
	}

	return xhttp.SuccessResponse(c, models.QuoteResponse{
		Input:       res.Input,
		Symbol:      res.Symbol,
		Interval:    res.Interval,
		AsOf:        res.AsOf,
		FromArchive: res.FromArchive,
		Rows:        len(res.Rows),
		Summary:     *res.Summary,
	})
}

// Series returns the trailing rows of the augmented series, newest last.
func (h *QuoteHandler) Series(c echo.Context) error {
	var req models.SeriesRequest
	if details := xhttp.ReadAndValidateRequest(c, &req); details != nil {
		return xhttp.BadRequestResponse(c, details)
	}

	res, err := h.uc.Analyze(c.Request().Context(), req.Symbol, domrepo.NormalizeInterval(req.Interval))
	if res.Outcome != models.OutcomeResolved {
		return h.renderFailure(c, res, err)
	}

	rows := res.Rows
	if req.Limit > 0 && req.Limit < len(rows) {
		rows = rows[len(rows)-req.Limit:]
	}

	return xhttp.SuccessResponse(c, models.SeriesResponse{
		Input:    res.Input,
		Symbol:   res.Symbol,
		Interval: res.Interval,
		Total:    len(res.Rows),
		Rows:     rows,
	})
}

// Intervals lists the supported bar intervals.
func (h *QuoteHandler) Intervals(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"intervals": domrepo.SupportedIntervals(),
		"default":   string(domrepo.IV1Day),
	})
}

// Health reports liveness.
func (h *QuoteHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// renderFailure maps a non-resolved outcome to its HTTP response.
func (h *QuoteHandler) renderFailure(c echo.Context, res *usecase.Result, err error) error {
	switch res.Outcome {
	case models.OutcomeNotFound:
		return xhttp.NotFoundResponse(c, models.NotFoundResponse{
			Input:   res.Input,
			Message: "no data found for symbol",
		})

	case models.OutcomeMalformed:
		return xhttp.AppErrorResponse(c,
			xhttp.BadGatewayError("upstream returned an unusable payload").
				WithParam("input", res.Input).
				WithError(err))

	default:
		return xhttp.AppErrorResponse(c,
			xhttp.ServiceUnavailableError("upstream temporarily unavailable").
				WithParam("input", res.Input).
				WithError(err))
	}
}
