package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/cims_finance/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// dashboardHandler serves balances and the donation accumulator.
type dashboardHandler struct {
	balanceService  portssvc.BalanceSvc
	donationService portssvc.DonationSvc
}

func registerDashboardRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvc, donationService portssvc.DonationSvc) {
	h := &dashboardHandler{balanceService: balanceService, donationService: donationService}

	rg.GET("/dashboard", h.getDashboard)
	rg.GET("/balances", h.getBalances)
	rg.GET("/donation", h.getDonationTotal)
	rg.POST("/donation/reset", h.resetDonationTotal)
}

// getDashboard godoc
// @Summary Finance dashboard
// @Description Account balances, total and potential, donation total and current rate with display strings.
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.DashboardResponse
// @Failure 500 {object} map[string]string "Failed to build dashboard"
// @Security BearerAuth
// @Router /finance/dashboard [get]
func (h *dashboardHandler) getDashboard(c *gin.Context) {
	resp, err := h.balanceService.GetDashboard(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getBalances godoc
// @Summary Projected balances
// @Tags dashboard
// @Produce json
// @Success 200 {object} domain.Balances
// @Failure 500 {object} map[string]string "Failed to project balances"
// @Security BearerAuth
// @Router /finance/balances [get]
func (h *dashboardHandler) getBalances(c *gin.Context) {
	balances, err := h.balanceService.GetBalances(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to project balances")
		return
	}
	c.JSON(http.StatusOK, balances)
}

// getDonationTotal godoc
// @Summary Donation total
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.DonationTotalResponse
// @Security BearerAuth
// @Router /finance/donation [get]
func (h *dashboardHandler) getDonationTotal(c *gin.Context) {
	resp, err := h.donationService.GetDonationTotal(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to read donation total")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// resetDonationTotal godoc
// @Summary Reset the donation total
// @Description Sets the accumulator to zero. Entries keep their donation amounts.
// @Tags dashboard
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string "Role may not reset"
// @Security BearerAuth
// @Router /finance/donation/reset [post]
func (h *dashboardHandler) resetDonationTotal(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	if err := h.donationService.ResetDonationTotal(c.Request.Context(), actor); err != nil {
		respondError(c, err, "Failed to reset donation total")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Donation total reset"})
}
