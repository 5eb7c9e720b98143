package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/shepherd/pkg/api/types/errors"
	"github.com/opst/shepherd/pkg/domain/model"
)

// ModelLister provides discovered models.
type ModelLister interface {
	Models(ctx context.Context) ([]model.Model, error)
}

// ModelsHandler responds all models as records, each with its evaluations.
func ModelsHandler(models ModelLister) echo.HandlerFunc {
	return func(c echo.Context) error {
		ms, err := models.Models(c.Request().Context())
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, ms)
	}
}
