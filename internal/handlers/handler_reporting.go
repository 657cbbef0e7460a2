package handlers

import (
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/cims_finance/internal/core/ports/services"
	"github.com/SscSPs/cims_finance/internal/dto"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to finance reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to finance reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/stats", h.getStats)
		reportingGroup.GET("/monthly/:year/:month", h.getMonthlyReport)
		reportingGroup.GET("/yearly/:year", h.getYearlyReport)
		reportingGroup.GET("/top-services", h.getTopServices)
		reportingGroup.GET("/accounts", h.getAccountStatistics)
	}
}

// getStats godoc
// @Summary Finance statistics
// @Description Income, outcome and donation totals over an optional filter. Amounts are summed as recorded.
// @Tags reports
// @Produce json
// @Param dateFrom query string false "YYYY-MM-DD"
// @Param dateTo query string false "YYYY-MM-DD"
// @Param account query string false "ACCOUNT_1, ACCOUNT_2 or ACCOUNT_3"
// @Param transactionStatus query string false "REAL or STATISTICAL"
// @Success 200 {object} domain.FinanceStats
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /finance/reports/stats [get]
func (h *reportingHandler) getStats(c *gin.Context) {
	var params dto.FinanceStatsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err, "getStats")
		return
	}
	stats, err := h.reportingService.Stats(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to generate statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + ": must be a number"})
		return 0, false
	}
	return v, true
}

// getMonthlyReport godoc
// @Summary Monthly report
// @Tags reports
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} domain.MonthlyReport
// @Failure 400 {object} map[string]string "Invalid year or month"
// @Security BearerAuth
// @Router /finance/reports/monthly/{year}/{month} [get]
func (h *reportingHandler) getMonthlyReport(c *gin.Context) {
	year, ok := intParam(c, "year")
	if !ok {
		return
	}
	month, ok := intParam(c, "month")
	if !ok {
		return
	}
	report, err := h.reportingService.MonthlyReport(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, err, "Failed to generate monthly report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getYearlyReport godoc
// @Summary Yearly report
// @Description Twelve monthly rows plus totals for the year.
// @Tags reports
// @Produce json
// @Param year path int true "Year"
// @Success 200 {object} domain.YearlyReport
// @Failure 400 {object} map[string]string "Invalid year"
// @Security BearerAuth
// @Router /finance/reports/yearly/{year} [get]
func (h *reportingHandler) getYearlyReport(c *gin.Context) {
	year, ok := intParam(c, "year")
	if !ok {
		return
	}
	report, err := h.reportingService.YearlyReport(c.Request.Context(), year)
	if err != nil {
		respondError(c, err, "Failed to generate yearly report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getTopServices godoc
// @Summary Most used services
// @Tags reports
// @Produce json
// @Param limit query int false "Number of services (1-50)" default(10)
// @Success 200 {object} dto.TopServicesResponse
// @Failure 400 {object} map[string]string "Invalid limit"
// @Security BearerAuth
// @Router /finance/reports/top-services [get]
func (h *reportingHandler) getTopServices(c *gin.Context) {
	var params dto.TopServicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err, "getTopServices")
		return
	}
	usage, err := h.reportingService.TopServices(c.Request.Context(), params.Limit)
	if err != nil {
		respondError(c, err, "Failed to generate top services report")
		return
	}
	c.JSON(http.StatusOK, dto.TopServicesResponse{TopServices: usage, TotalServicesFound: len(usage)})
}

// getAccountStatistics godoc
// @Summary Per-account statistics
// @Tags reports
// @Produce json
// @Success 200 {object} dto.AccountStatsResponse
// @Security BearerAuth
// @Router /finance/reports/accounts [get]
func (h *reportingHandler) getAccountStatistics(c *gin.Context) {
	stats, err := h.reportingService.AccountStatistics(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to generate account statistics")
		return
	}
	c.JSON(http.StatusOK, dto.AccountStatsResponse{AccountStatistics: stats, TotalAccounts: len(stats)})
}
