package handler

import (
	"errors"
	"net/http"

	"github.com/osama347/general-store-management-system-sub000/internal/apierror"
	"github.com/osama347/general-store-management-system-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// bindAndValidate binds the JSON body into req and runs struct validation.
// On failure it writes the 400 response itself and returns false.
func bindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid request body"))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		c.JSON(http.StatusBadRequest, apierror.NewValidation(fields))
		return false
	}
	return true
}

// bindQueryAndValidate is the query-string counterpart of bindAndValidate.
func bindQueryAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query parameters"))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		c.JSON(http.StatusBadRequest, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parseUUID parses a path or body id, writing the 400 response on failure.
func parseUUID(c *gin.Context, raw, field string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid "+field))
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps the ledger error taxonomy onto HTTP statuses.
// Every rejection keeps its structured context so the UI can render an
// actionable message instead of a bare status code.
func respondServiceError(c *gin.Context, err error) {
	var nf *service.NotFoundError
	var ia *service.InvalidAmountError
	var it *service.InvalidTargetError
	var itr *service.InvalidTransferError
	var insAvail *service.InsufficientAvailableError
	var insStock *service.InsufficientStockError
	var storage *service.StorageError

	switch {
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, apierror.NewCoded("not_found", nf.Error(), map[string]any{
			"resource": nf.Resource,
			"id":       nf.ID,
		}))
	case errors.As(err, &ia):
		c.JSON(http.StatusBadRequest, apierror.NewCoded("invalid_amount", ia.Error(), map[string]any{
			"amount": ia.Amount,
		}))
	case errors.As(err, &it):
		c.JSON(http.StatusBadRequest, apierror.NewCoded("invalid_target", it.Error(), nil))
	case errors.As(err, &itr):
		c.JSON(http.StatusBadRequest, apierror.NewCoded("invalid_transfer", itr.Error(), nil))
	case errors.As(err, &insAvail):
		c.JSON(http.StatusConflict, apierror.NewCoded("insufficient_available", insAvail.Error(), map[string]any{
			"product_id": insAvail.ProductID.String(),
			"available":  insAvail.Available,
			"requested":  insAvail.Requested,
		}))
	case errors.As(err, &insStock):
		c.JSON(http.StatusConflict, apierror.NewCoded("insufficient_stock", insStock.Error(), map[string]any{
			"product_id":  insStock.ProductID.String(),
			"location_id": insStock.LocationID.String(),
			"available":   insStock.Available,
			"requested":   insStock.Requested,
		}))
	case errors.Is(err, service.ErrConcurrencyConflict):
		c.JSON(http.StatusConflict, apierror.NewCoded("conflict", err.Error(), nil))
	case errors.As(err, &storage):
		log.Error().Err(err).Msg("storage failure")
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
	default:
		log.Error().Err(err).Msg("unexpected service error")
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
	}
}
