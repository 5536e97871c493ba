package handler

import (
	"net/http"

	"github.com/osama347/general-store-management-system-sub000/internal/dto"
	"github.com/osama347/general-store-management-system-sub000/internal/middleware"
	"github.com/osama347/general-store-management-system-sub000/internal/repository"
	"github.com/osama347/general-store-management-system-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// StockHandler exposes the ledger operations: intake, distribution,
// transfer, sale consumption, and the read model.
type StockHandler struct {
	ledger service.LedgerService
}

func NewStockHandler(ledger service.LedgerService) *StockHandler {
	return &StockHandler{ledger: ledger}
}

// Intake godoc
// @Summary Register received units into a product's undistributed pool
// @Tags stock
// @Accept json
// @Produce json
// @Param request body dto.IntakeRequest true "Intake payload"
// @Success 200 {object} dto.PoolResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Security BearerAuth
// @Router /stock/intake [post]
func (h *StockHandler) Intake(c *gin.Context) {
	var req dto.IntakeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	productID, ok := parseUUID(c, req.ProductID, "product_id")
	if !ok {
		return
	}

	resp, err := h.ledger.Intake(c.Request.Context(), productID, req.Amount)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Distribute godoc
// @Summary Move units from the pool into one or two locations
// @Tags stock
// @Accept json
// @Produce json
// @Param request body dto.DistributeRequest true "Distribution payload"
// @Success 200 {object} dto.DistributeResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Security BearerAuth
// @Router /stock/distribute [post]
func (h *StockHandler) Distribute(c *gin.Context) {
	var req dto.DistributeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	productID, ok := parseUUID(c, req.ProductID, "product_id")
	if !ok {
		return
	}

	targets := make([]service.DistributionTarget, 0, len(req.Targets))
	for _, t := range req.Targets {
		locID, ok := parseUUID(c, t.LocationID, "location_id")
		if !ok {
			return
		}
		targets = append(targets, service.DistributionTarget{LocationID: locID, Amount: t.Amount})
	}

	resp, err := h.ledger.Distribute(c.Request.Context(), productID, targets)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Transfer godoc
// @Summary Move already-distributed units between two locations
// @Tags stock
// @Accept json
// @Produce json
// @Param request body dto.TransferRequest true "Transfer payload"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Security BearerAuth
// @Router /stock/transfer [post]
func (h *StockHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if !bindAndValidate(c, &req) {
		return
	}
	productID, ok := parseUUID(c, req.ProductID, "product_id")
	if !ok {
		return
	}
	fromID, ok := parseUUID(c, req.FromLocationID, "from_location_id")
	if !ok {
		return
	}
	toID, ok := parseUUID(c, req.ToLocationID, "to_location_id")
	if !ok {
		return
	}

	actor := ""
	if claims := middleware.GetClaims(c); claims != nil {
		actor = claims.Username
	}

	resp, err := h.ledger.Transfer(c.Request.Context(), productID, fromID, toID, req.Amount, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Consume godoc
// @Summary Remove sold units from a store's stock
// @Description Called by the sale subsystem once per finalized line item.
// @Tags stock
// @Accept json
// @Produce json
// @Param request body dto.ConsumeRequest true "Consumption payload"
// @Success 200 {object} dto.ConsumeResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Security BearerAuth
// @Router /stock/consume [post]
func (h *StockHandler) Consume(c *gin.Context) {
	var req dto.ConsumeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	productID, ok := parseUUID(c, req.ProductID, "product_id")
	if !ok {
		return
	}
	locationID, ok := parseUUID(c, req.LocationID, "location_id")
	if !ok {
		return
	}

	resp, err := h.ledger.Consume(c.Request.Context(), productID, locationID, req.Amount)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ProductSummary godoc
// @Summary Distribution view for one product
// @Description Pool totals joined with every location's on-hand quantity.
// @Tags stock
// @Produce json
// @Param productID path string true "Product ID"
// @Success 200 {object} dto.StockSummaryResponse
// @Failure 404 {object} apierror.APIError
// @Security BearerAuth
// @Router /stock/summary/{productID} [get]
func (h *StockHandler) ProductSummary(c *gin.Context) {
	productID, ok := parseUUID(c, c.Param("productID"), "product id")
	if !ok {
		return
	}

	resp, err := h.ledger.ProductSummary(c.Request.Context(), productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListSummaries godoc
// @Summary Paginated distribution view across all pooled products
// @Tags stock
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(50)
// @Success 200 {object} dto.StockSummaryListResponse
// @Security BearerAuth
// @Router /stock/summary [get]
func (h *StockHandler) ListSummaries(c *gin.Context) {
	var filter dto.SummaryListFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}

	resp, err := h.ledger.ListSummaries(c.Request.Context(), filter.Page, filter.Limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListTransfers godoc
// @Summary Transfer audit trail, newest first
// @Tags stock
// @Produce json
// @Param product_id query string false "Filter by product"
// @Param location_id query string false "Filter by either endpoint"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(50)
// @Success 200 {object} dto.TransferListResponse
// @Security BearerAuth
// @Router /stock/transfers [get]
func (h *StockHandler) ListTransfers(c *gin.Context) {
	var q dto.TransferListFilter
	if !bindQueryAndValidate(c, &q) {
		return
	}

	filter := repository.TransferFilter{Page: q.Page, Limit: q.Limit}
	if q.ProductID != "" {
		id, ok := parseUUID(c, q.ProductID, "product_id")
		if !ok {
			return
		}
		filter.ProductID = &id
	}
	if q.LocationID != "" {
		id, ok := parseUUID(c, q.LocationID, "location_id")
		if !ok {
			return
		}
		filter.LocationID = &id
	}

	resp, err := h.ledger.ListTransfers(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
