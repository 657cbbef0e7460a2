package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/cims_finance/internal/core/ports/services"
	"github.com/SscSPs/cims_finance/internal/dto"
	"github.com/SscSPs/cims_finance/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to the USD->UZS rate.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{
		exchangeRateService: ers,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(exchangeRateService)

	exchangeRate := rg.Group("/exchange-rate")
	{
		exchangeRate.GET("", h.getCurrentRate)
		exchangeRate.POST("", h.recordRate)
		exchangeRate.GET("/history", h.listRates)
		exchangeRate.GET("/live", h.fetchLiveRate)
		exchangeRate.POST("/sync", h.syncLiveRate)
	}
}

// getCurrentRate godoc
// @Summary Current exchange rate
// @Description Latest recorded USD->UZS rate, or the configured default when none is recorded. Never calls the live provider.
// @Tags exchange rates
// @Produce json
// @Success 200 {object} dto.CurrentExchangeRateResponse
// @Failure 500 {object} map[string]string "Failed to retrieve exchange rate"
// @Security BearerAuth
// @Router /finance/exchange-rate [get]
func (h *exchangeRateHandler) getCurrentRate(c *gin.Context) {
	rate, isFallback, err := h.exchangeRateService.GetCurrentRate(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve exchange rate")
		return
	}
	c.JSON(http.StatusOK, dto.CurrentExchangeRateResponse{Rate: rate, IsFallback: isFallback})
}

// recordRate godoc
// @Summary Record an exchange rate
// @Description Appends a manually entered USD->UZS rate. Existing entries keep their snapshots.
// @Tags exchange rates
// @Accept json
// @Produce json
// @Param rate body dto.RecordExchangeRateRequest true "Rate"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 500 {object} map[string]string "Failed to record exchange rate"
// @Security BearerAuth
// @Router /finance/exchange-rate [post]
func (h *exchangeRateHandler) recordRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "recordRate")
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	logger.Info("Received request to record exchange rate", slog.String("rate", req.Rate.String()))
	rate, err := h.exchangeRateService.RecordRate(c.Request.Context(), req.Rate, actor)
	if err != nil {
		respondError(c, err, "Failed to record exchange rate")
		return
	}
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(rate))
}

// listRates godoc
// @Summary Exchange rate history
// @Tags exchange rates
// @Produce json
// @Param limit query int false "Number of rates" default(30)
// @Success 200 {array} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid limit"
// @Security BearerAuth
// @Router /finance/exchange-rate/history [get]
func (h *exchangeRateHandler) listRates(c *gin.Context) {
	var params dto.ListExchangeRatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err, "listRates")
		return
	}
	rates, err := h.exchangeRateService.ListRates(c.Request.Context(), params.Limit)
	if err != nil {
		respondError(c, err, "Failed to list exchange rates")
		return
	}
	c.JSON(http.StatusOK, dto.ToListExchangeRateResponse(rates))
}

// fetchLiveRate godoc
// @Summary Live exchange rate quote
// @Description Asks the external provider for a quote without recording it.
// @Tags exchange rates
// @Produce json
// @Success 200 {object} dto.LiveExchangeRateResponse
// @Failure 502 {object} map[string]string "Provider failure"
// @Security BearerAuth
// @Router /finance/exchange-rate/live [get]
func (h *exchangeRateHandler) fetchLiveRate(c *gin.Context) {
	rate, err := h.exchangeRateService.FetchLiveRate(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch live exchange rate")
		return
	}
	c.JSON(http.StatusOK, dto.LiveExchangeRateResponse{Rate: rate})
}

// syncLiveRate godoc
// @Summary Sync the exchange rate from the live provider
// @Description Fetches a live quote and records it. Nothing is recorded when the fetch fails.
// @Tags exchange rates
// @Produce json
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 502 {object} map[string]string "Provider failure"
// @Security BearerAuth
// @Router /finance/exchange-rate/sync [post]
func (h *exchangeRateHandler) syncLiveRate(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	rate, err := h.exchangeRateService.SyncLiveRate(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to sync exchange rate")
		return
	}
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(rate))
}
