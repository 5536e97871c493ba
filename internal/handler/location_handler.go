package handler

import (
	"net/http"

	"github.com/osama347/general-store-management-system-sub000/internal/apierror"
	"github.com/osama347/general-store-management-system-sub000/internal/dto"
	"github.com/osama347/general-store-management-system-sub000/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// LocationHandler serves the read-only location directory.
type LocationHandler struct {
	directory repository.LocationRepository
}

func NewLocationHandler(directory repository.LocationRepository) *LocationHandler {
	return &LocationHandler{directory: directory}
}

// ListLocations godoc
// @Summary Active warehouses and stores
// @Tags catalog
// @Produce json
// @Success 200 {array} dto.LocationResponse
// @Security BearerAuth
// @Router /locations [get]
func (h *LocationHandler) ListLocations(c *gin.Context) {
	locations, err := h.directory.List(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("location list failed")
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
		return
	}

	resp := make([]dto.LocationResponse, 0, len(locations))
	for _, loc := range locations {
		resp = append(resp, dto.LocationResponse{
			ID:   loc.ID.String(),
			Name: loc.Name,
			Kind: string(loc.Kind),
		})
	}
	c.JSON(http.StatusOK, resp)
}
