package handler

import (
	"github.com/gin-gonic/gin"

	erpsyncapp "github.com/stockledger/backend/internal/application/erpsync"
)

// ErpSyncHandler handles ERP reconciliation API endpoints
type ErpSyncHandler struct {
	BaseHandler
	reconciliationService *erpsyncapp.ReconciliationService
}

// NewErpSyncHandler creates a new ErpSyncHandler
func NewErpSyncHandler(reconciliationService *erpsyncapp.ReconciliationService) *ErpSyncHandler {
	return &ErpSyncHandler{
		reconciliationService: reconciliationService,
	}
}

// Reconcile godoc
// @ID           runReconciliation
// @Summary      Run a full reconciliation cycle
// @Description  Exports the balance snapshot and imports open orders; only one cycle runs at a time
// @Tags         erp-sync
// @Produce      json
// @Success      200 {object} APIResponse[erpsyncapp.ReconciliationResult]
// @Failure      409 {object} ErrorResponse
// @Router       /erp/reconcile [post]
func (h *ErpSyncHandler) Reconcile(c *gin.Context) {
	result, err := h.reconciliationService.RunCycle(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Export godoc
// @ID           runExport
// @Summary      Export the balance snapshot to the ERP endpoint
// @Tags         erp-sync
// @Produce      json
// @Success      200 {object} APIResponse[erpsyncapp.ExportOutcome]
// @Failure      409 {object} ErrorResponse
// @Router       /erp/export [post]
func (h *ErpSyncHandler) Export(c *gin.Context) {
	outcome, err := h.reconciliationService.Export(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, outcome)
}

// Import godoc
// @ID           runImport
// @Summary      Import open purchase orders from the ERP endpoint
// @Tags         erp-sync
// @Produce      json
// @Success      200 {object} APIResponse[erpsyncapp.ImportOutcome]
// @Failure      409 {object} ErrorResponse
// @Router       /erp/import [post]
func (h *ErpSyncHandler) Import(c *gin.Context) {
	outcome, err := h.reconciliationService.Import(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, outcome)
}

// Status godoc
// @ID           getSyncStatus
// @Summary      Get the ERP sync status
// @Description  Checkpoints, imported order count and whether a cycle is running
// @Tags         erp-sync
// @Produce      json
// @Success      200 {object} APIResponse[erpsyncapp.SyncStatusResponse]
// @Router       /erp/status [get]
func (h *ErpSyncHandler) Status(c *gin.Context) {
	status, err := h.reconciliationService.Status(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, status)
}
