package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/cims_finance/internal/core/ports/services"
	"github.com/SscSPs/cims_finance/internal/dto"
	"github.com/SscSPs/cims_finance/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler serves ledger entries, transfers and top-ups.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers the entry, transfer and top-up routes.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	entries := rg.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.PUT("/:entryID", h.updateEntry)
		entries.DELETE("/:entryID", h.deleteEntry)
	}
	rg.POST("/transfer", h.transfer)
	rg.POST("/topup", h.topUp)
}

// createEntry godoc
// @Summary Create a ledger entry
// @Description Records an income or outcome. Donation amount and the rate snapshot are computed server side.
// @Tags ledger
// @Accept json
// @Produce json
// @Param entry body dto.LedgerEntryRequest true "Entry details"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Finance access required"
// @Failure 500 {object} map[string]string "Failed to create entry"
// @Security BearerAuth
// @Router /finance/entries [post]
func (h *ledgerHandler) createEntry(c *gin.Context) {
	var req dto.LedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "createEntry")
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	entry, err := h.ledgerService.CreateEntry(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err, "Failed to create ledger entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}

// listEntries godoc
// @Summary List ledger entries
// @Description Lists entries newest first with optional filters and token pagination.
// @Tags ledger
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Param entryType query string false "INCOME or OUTCOME"
// @Param recurrence query string false "ONE_TIME or MONTHLY"
// @Param account query string false "ACCOUNT_1, ACCOUNT_2 or ACCOUNT_3"
// @Param currency query string false "UZS or USD"
// @Param transactionStatus query string false "REAL or STATISTICAL"
// @Param dateFrom query string false "YYYY-MM-DD"
// @Param dateTo query string false "YYYY-MM-DD"
// @Param search query string false "Service label substring"
// @Success 200 {object} dto.ListLedgerEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 500 {object} map[string]string "Failed to list entries"
// @Security BearerAuth
// @Router /finance/entries [get]
func (h *ledgerHandler) listEntries(c *gin.Context) {
	var params dto.ListLedgerEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err, "listEntries")
		return
	}

	resp, err := h.ledgerService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list ledger entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getEntry godoc
// @Summary Get a ledger entry
// @Tags ledger
// @Produce json
// @Param entryID path string true "Entry ID"
// @Success 200 {object} dto.LedgerEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /finance/entries/{entryID} [get]
func (h *ledgerHandler) getEntry(c *gin.Context) {
	entry, err := h.ledgerService.GetEntry(c.Request.Context(), c.Param("entryID"))
	if err != nil {
		respondError(c, err, "Failed to get ledger entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerEntryResponse(entry))
}

// updateEntry godoc
// @Summary Update a ledger entry
// @Description Replaces the entry's fields, recomputes its donation and moves the donation total by the difference.
// @Tags ledger
// @Accept json
// @Produce json
// @Param entryID path string true "Entry ID"
// @Param entry body dto.LedgerEntryRequest true "Entry details"
// @Success 200 {object} dto.LedgerEntryResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /finance/entries/{entryID} [put]
func (h *ledgerHandler) updateEntry(c *gin.Context) {
	entryID := c.Param("entryID")
	var req dto.LedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "updateEntry")
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	entry, err := h.ledgerService.UpdateEntry(c.Request.Context(), entryID, req, actor)
	if err != nil {
		respondError(c, err, "Failed to update ledger entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerEntryResponse(entry))
}

// deleteEntry godoc
// @Summary Delete a ledger entry
// @Tags ledger
// @Param entryID path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /finance/entries/{entryID} [delete]
func (h *ledgerHandler) deleteEntry(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	if err := h.ledgerService.DeleteEntry(c.Request.Context(), c.Param("entryID"), actor); err != nil {
		respondError(c, err, "Failed to delete ledger entry")
		return
	}
	c.Status(http.StatusNoContent)
}

// transfer godoc
// @Summary Transfer between accounts
// @Description Writes an OUTCOME on the source and an INCOME of the taxed, converted amount on the destination.
// @Tags ledger
// @Accept json
// @Produce json
// @Param transfer body dto.TransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /finance/transfer [post]
func (h *ledgerHandler) transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "transfer")
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	result, err := h.ledgerService.Transfer(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err, "Failed to record transfer")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Transfer completed",
		slog.String("from_entry_id", result.FromEntry.EntryID),
		slog.String("to_entry_id", result.ToEntry.EntryID))
	c.JSON(http.StatusCreated, dto.ToTransferResponse(result))
}

// topUp godoc
// @Summary Top up an account
// @Description Records a one-time income dated today with service label "Top Up".
// @Tags ledger
// @Accept json
// @Produce json
// @Param topup body dto.TopUpRequest true "Top-up details"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /finance/topup [post]
func (h *ledgerHandler) topUp(c *gin.Context) {
	var req dto.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "topUp")
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	entry, err := h.ledgerService.TopUp(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err, "Failed to top up account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}
