package handler

import (
	"errors"
	"net/http"
	"reflect"

	"canteenpos/internal/apierror"
	"canteenpos/internal/dto"
	"canteenpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps domain errors to wire responses. Conflict shapes carry
// enough context (current holder, active station) for the client to react
// rather than retry blindly.
func respondError(c *gin.Context, err error) {
	var sessionConflict *service.SessionConflictError
	if errors.As(err, &sessionConflict) {
		c.JSON(http.StatusConflict, dto.SessionConflictResponse{
			Message:  err.Error(),
			ActivePC: sessionConflict.ActivePC,
		})
		return
	}
	var locked *service.StationLockedError
	if errors.As(err, &locked) {
		c.JSON(http.StatusConflict, dto.StationLockedResponse{
			Error:    err.Error(),
			LockedBy: locked.LockedBy,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrLockNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrAlreadyConfirmed),
		errors.Is(err, service.ErrCategoryInUse):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrNotLockHolder):
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	default:
		// Includes InsufficientStockError and validation-level domain errors.
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}
