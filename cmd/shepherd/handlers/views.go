package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/shepherd/pkg/api/types/errors"
	apiviews "github.com/opst/shepherd/pkg/api/types/views"
	"github.com/opst/shepherd/pkg/columns"
	"github.com/opst/shepherd/pkg/configs/store"
	"github.com/opst/shepherd/pkg/views"
)

// viewError translates an error from pkg/views into a response.
//
// The reason is the message for users, the same as views.ResultOf tells.
func viewError(err error) *echo.HTTPError {
	msg := views.ResultOf(err, "").Message
	switch {
	case errors.Is(err, views.ErrViewNotFound):
		return apierr.NotFound(msg, apierr.WithError(err))
	case errors.Is(err, views.ErrViewExists), errors.Is(err, views.ErrDefaultView):
		return apierr.Conflict(msg, apierr.WithError(err))
	case errors.Is(err, views.ErrIllegalViewName), errors.Is(err, views.ErrColumnUpdate):
		return apierr.NewErrorMessage(http.StatusBadRequest, msg, apierr.WithError(err))
	default:
		return apierr.InternalServerError(err)
	}
}

func isJSON(req *http.Request) bool {
	ctyp := strings.ToLower(req.Header.Get("content-type"))
	return strings.HasPrefix(ctyp, "application/json")
}

// ViewListHandler responds views order and view names.
func ViewListHandler(s store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, views.List(s))
	}
}

// ViewGetHandler responds the view named by path parameter param, laid out with models.
func ViewGetHandler(s store.Store, models ModelLister, param string, options ...columns.Option) echo.HandlerFunc {
	return func(c echo.Context) error {
		name := c.Param(param)
		view, err := views.Get(s, name)
		if err != nil {
			return viewError(err)
		}

		ms, err := models.Models(c.Request().Context())
		if err != nil {
			return apierr.InternalServerError(err)
		}

		layout, err := views.Resolve(view, ms, options...)
		if err != nil {
			if errors.Is(err, columns.ErrMissingColumn) {
				return apierr.Conflict(
					"columns of the view are not found in models",
					apierr.WithAdvice("update columns of the view."),
					apierr.WithError(err),
				)
			}
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, layout)
	}
}

// ViewCreateHandler creates a view named as requested.
func ViewCreateHandler(s store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		if !isJSON(req) {
			return apierr.BadRequest(
				"unexpected content type. it should be application/json", nil,
			)
		}

		body := new(apiviews.Create)
		if err := json.NewDecoder(req.Body).Decode(body); err != nil {
			return apierr.BadRequest("can not understand the requested json", err)
		}

		if err := views.Create(s, body.Name); err != nil {
			return viewError(err)
		}
		return c.JSON(http.StatusCreated, views.ResultOf(nil, "View is created."))
	}
}

// ViewDeleteHandler deletes the view named by path parameter param.
func ViewDeleteHandler(s store.Store, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := views.Delete(s, c.Param(param)); err != nil {
			return viewError(err)
		}
		return c.JSON(http.StatusOK, views.ResultOf(nil, "View is deleted."))
	}
}

// ViewColumnsHandler replaces columns of the view named by path parameter param.
func ViewColumnsHandler(s store.Store, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		if !isJSON(req) {
			return apierr.BadRequest(
				"unexpected content type. it should be application/json", nil,
			)
		}

		body := new(apiviews.Columns)
		if err := json.NewDecoder(req.Body).Decode(body); err != nil {
			return apierr.BadRequest("can not understand the requested json", err)
		}
		train, eval, err := body.Specs()
		if err != nil {
			return apierr.BadRequest("columns and states should be paired, without duplicates", err)
		}

		if err := views.UpdateColumns(s, c.Param(param), train, eval); err != nil {
			return viewError(err)
		}
		return c.JSON(http.StatusOK, views.ResultOf(nil, "Columns are updated."))
	}
}
