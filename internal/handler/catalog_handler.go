package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/osama347/general-store-management-system-sub000/internal/apierror"
	"github.com/osama347/general-store-management-system-sub000/internal/dto"
	"github.com/osama347/general-store-management-system-sub000/internal/model"
	"github.com/osama347/general-store-management-system-sub000/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const productCacheTTL = 5 * time.Minute

// CatalogHandler serves read-only product lookups for the back-office forms.
// Single-product reads go through a Redis cache; catalog writes happen in the
// product module, which is responsible for invalidation.
type CatalogHandler struct {
	catalog repository.CatalogRepository
	rdb     *redis.Client
}

func NewCatalogHandler(catalog repository.CatalogRepository, rdb *redis.Client) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, rdb: rdb}
}

// GetProduct godoc
// @Summary Product display data by id
// @Tags catalog
// @Produce json
// @Param productID path string true "Product ID"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} apierror.APIError
// @Security BearerAuth
// @Router /products/{productID} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	productID, ok := parseUUID(c, c.Param("productID"), "product id")
	if !ok {
		return
	}

	cacheKey := fmt.Sprintf("catalog:product:%s", productID)
	if h.rdb != nil {
		if cached, err := h.rdb.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			var resp dto.ProductResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, apierror.NewCoded("not_found", "product not found", map[string]any{
				"resource": "product",
				"id":       productID.String(),
			}))
			return
		}
		log.Error().Err(err).Str("product_id", productID.String()).Msg("product lookup failed")
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
		return
	}

	resp := productToResponse(product)
	if h.rdb != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := h.rdb.Set(c.Request.Context(), cacheKey, payload, productCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("product cache write failed")
			}
		}
	}
	c.JSON(http.StatusOK, resp)
}

// ListProducts godoc
// @Summary Paginated active product catalog
// @Tags catalog
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(50)
// @Success 200 {object} dto.ProductListResponse
// @Security BearerAuth
// @Router /products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var filter dto.ProductFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}

	products, total, err := h.catalog.List(c.Request.Context(), filter.Page, filter.Limit)
	if err != nil {
		log.Error().Err(err).Msg("product list failed")
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
		return
	}

	resp := dto.ProductListResponse{
		Data:  make([]dto.ProductResponse, 0, len(products)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range products {
		resp.Data = append(resp.Data, productToResponse(&products[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func productToResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		SKU:       p.SKU,
		UnitPrice: p.UnitPrice,
	}
}
