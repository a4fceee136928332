package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	purchasingapp "github.com/stockledger/backend/internal/application/purchasing"
	"github.com/stockledger/backend/internal/interfaces/http/middleware"
)

// PurchaseOrderHandler handles purchase order API endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *purchasingapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *purchasingapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		orderService: orderService,
	}
}

// Create godoc
// @ID           createPurchaseOrder
// @Summary      Create a purchase order
// @Description  Creates a draft order with its lines
// @Tags         purchasing
// @Accept       json
// @Produce      json
// @Param        request body purchasingapp.CreateOrderRequest true "Order to create"
// @Success      201 {object} APIResponse[purchasingapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /purchasing/orders [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req purchasingapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// Submit godoc
// @ID           submitPurchaseOrder
// @Summary      Submit a draft purchase order
// @Tags         purchasing
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[purchasingapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /purchasing/orders/{id}/submit [post]
func (h *PurchaseOrderHandler) Submit(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.Submit(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// ReceiveLine godoc
// @ID           receivePurchaseOrderLine
// @Summary      Receive quantity against an order line
// @Description  Records the receipt movement and updates the order in one transaction
// @Tags         purchasing
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body purchasingapp.ReceiveLineRequest true "Line and quantity to receive"
// @Success      200 {object} APIResponse[purchasingapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /purchasing/orders/{id}/receive [post]
func (h *PurchaseOrderHandler) ReceiveLine(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req purchasingapp.ReceiveLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	order, err := h.orderService.ReceiveLine(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel godoc
// @ID           cancelPurchaseOrder
// @Summary      Cancel a purchase order
// @Tags         purchasing
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body purchasingapp.CancelOrderRequest true "Cancellation reason"
// @Success      200 {object} APIResponse[purchasingapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /purchasing/orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req purchasingapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// GetByID godoc
// @ID           getPurchaseOrderById
// @Summary      Get a purchase order by ID
// @Tags         purchasing
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[purchasingapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /purchasing/orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// List godoc
// @ID           listPurchaseOrders
// @Summary      List purchase orders
// @Tags         purchasing
// @Produce      json
// @Param        status query string false "Filter by status"
// @Param        supplier_id query string false "Filter by supplier" format(uuid)
// @Param        open query bool false "Only orders that are not received or cancelled"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]purchasingapp.OrderResponse]
// @Router       /purchasing/orders [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var filter purchasingapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page == 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize == 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// CountOpen godoc
// @ID           countOpenPurchaseOrders
// @Summary      Count open purchase orders
// @Tags         purchasing
// @Produce      json
// @Success      200 {object} APIResponse[CountData]
// @Router       /purchasing/orders/stats/open [get]
func (h *PurchaseOrderHandler) CountOpen(c *gin.Context) {
	count, err := h.orderService.CountOpen(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CountData{Count: count})
}
