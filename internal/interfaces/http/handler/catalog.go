package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/stockledger/backend/internal/application/catalog"
	"github.com/stockledger/backend/internal/interfaces/http/middleware"
)

// CatalogHandler handles item, storage location and supplier API endpoints
type CatalogHandler struct {
	BaseHandler
	catalogService *catalogapp.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *catalogapp.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// ===================== Items =====================

// CreateItem godoc
// @ID           createItem
// @Summary      Create an item
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateItemRequest true "Item to create"
// @Success      201 {object} APIResponse[catalogapp.ItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /catalog/items [post]
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req catalogapp.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	item, err := h.catalogService.CreateItem(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, item)
}

// UpdateItem godoc
// @ID           updateItem
// @Summary      Update an item
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        id path string true "Item ID" format(uuid)
// @Param        request body catalogapp.UpdateItemRequest true "Fields to update"
// @Success      200 {object} APIResponse[catalogapp.ItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /catalog/items/{id} [put]
func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req catalogapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	item, err := h.catalogService.UpdateItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// GetItem godoc
// @ID           getItemById
// @Summary      Get an item by ID
// @Tags         catalog
// @Produce      json
// @Param        id path string true "Item ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ItemResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /catalog/items/{id} [get]
func (h *CatalogHandler) GetItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	item, err := h.catalogService.GetItem(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// GetItemBySKU godoc
// @ID           getItemBySku
// @Summary      Get an item by SKU
// @Tags         catalog
// @Produce      json
// @Param        sku path string true "Item SKU"
// @Success      200 {object} APIResponse[catalogapp.ItemResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /catalog/items/sku/{sku} [get]
func (h *CatalogHandler) GetItemBySKU(c *gin.Context) {
	sku := c.Param("sku")
	if sku == "" {
		h.BadRequest(c, "SKU is required")
		return
	}

	item, err := h.catalogService.GetItemBySKU(c.Request.Context(), sku)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// ListItems godoc
// @ID           listItems
// @Summary      List items
// @Description  List items with optional SKU/name search and pagination
// @Tags         catalog
// @Produce      json
// @Param        search query string false "Search in SKU and name"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]catalogapp.ItemResponse]
// @Router       /catalog/items [get]
func (h *CatalogHandler) ListItems(c *gin.Context) {
	var filter catalogapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	items, total, err := h.catalogService.ListItems(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, items, total, page, pageSize)
}

// DeleteItem godoc
// @ID           deleteItem
// @Summary      Delete an item
// @Tags         catalog
// @Param        id path string true "Item ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Router       /catalog/items/{id} [delete]
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	if err := h.catalogService.DeleteItem(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ===================== Storage locations =====================

// CreateLocation godoc
// @ID           createLocation
// @Summary      Create a storage location
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateLocationRequest true "Location to create"
// @Success      201 {object} APIResponse[catalogapp.LocationResponse]
// @Failure      409 {object} ErrorResponse
// @Router       /catalog/locations [post]
func (h *CatalogHandler) CreateLocation(c *gin.Context) {
	var req catalogapp.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	location, err := h.catalogService.CreateLocation(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, location)
}

// GetLocation godoc
// @ID           getLocationById
// @Summary      Get a storage location by ID
// @Tags         catalog
// @Produce      json
// @Param        id path string true "Location ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.LocationResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /catalog/locations/{id} [get]
func (h *CatalogHandler) GetLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	location, err := h.catalogService.GetLocation(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, location)
}

// ListLocations godoc
// @ID           listLocations
// @Summary      List storage locations
// @Tags         catalog
// @Produce      json
// @Success      200 {object} APIResponse[[]catalogapp.LocationResponse]
// @Router       /catalog/locations [get]
func (h *CatalogHandler) ListLocations(c *gin.Context) {
	locations, err := h.catalogService.ListLocations(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, locations)
}

// DeleteLocation godoc
// @ID           deleteLocation
// @Summary      Delete a storage location
// @Tags         catalog
// @Param        id path string true "Location ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Router       /catalog/locations/{id} [delete]
func (h *CatalogHandler) DeleteLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	if err := h.catalogService.DeleteLocation(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ===================== Suppliers =====================

// CreateSupplier godoc
// @ID           createSupplier
// @Summary      Create a supplier
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateSupplierRequest true "Supplier to create"
// @Success      201 {object} APIResponse[catalogapp.SupplierResponse]
// @Failure      409 {object} ErrorResponse
// @Router       /catalog/suppliers [post]
func (h *CatalogHandler) CreateSupplier(c *gin.Context) {
	var req catalogapp.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	supplier, err := h.catalogService.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, supplier)
}

// UpdateSupplier godoc
// @ID           updateSupplier
// @Summary      Update a supplier's contact details
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body catalogapp.UpdateSupplierRequest true "Fields to update"
// @Success      200 {object} APIResponse[catalogapp.SupplierResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /catalog/suppliers/{id} [put]
func (h *CatalogHandler) UpdateSupplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	var req catalogapp.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	supplier, err := h.catalogService.UpdateSupplier(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, supplier)
}

// GetSupplier godoc
// @ID           getSupplierById
// @Summary      Get a supplier by ID
// @Tags         catalog
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.SupplierResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /catalog/suppliers/{id} [get]
func (h *CatalogHandler) GetSupplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	supplier, err := h.catalogService.GetSupplier(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, supplier)
}

// ListSuppliers godoc
// @ID           listSuppliers
// @Summary      List suppliers
// @Tags         catalog
// @Produce      json
// @Success      200 {object} APIResponse[[]catalogapp.SupplierResponse]
// @Router       /catalog/suppliers [get]
func (h *CatalogHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.catalogService.ListSuppliers(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, suppliers)
}

// DeleteSupplier godoc
// @ID           deleteSupplier
// @Summary      Delete a supplier
// @Tags         catalog
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Router       /catalog/suppliers/{id} [delete]
func (h *CatalogHandler) DeleteSupplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	if err := h.catalogService.DeleteSupplier(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
