package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/shepherd/pkg/api/types/errors"
	apiviews "github.com/opst/shepherd/pkg/api/types/views"
	"github.com/opst/shepherd/pkg/configs/store"
)

var errEmptyModelHome = errors.New("model_home is empty")

func settingsOf(d store.Document) apiviews.Settings {
	return apiviews.Settings{ModelHome: &d.ModelHome, ShowWelcome: &d.ShowWelcome}
}

func SettingsGetHandler(s store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, settingsOf(s.GetAll()))
	}
}

// SettingsPutHandler updates settings.
//
// When model_home is changed, onModelHome is called with the new value after it is saved.
func SettingsPutHandler(s store.Store, onModelHome func(string)) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		if !isJSON(req) {
			return apierr.BadRequest(
				"unexpected content type. it should be application/json", nil,
			)
		}

		body := new(apiviews.Settings)
		if err := json.NewDecoder(req.Body).Decode(body); err != nil {
			return apierr.BadRequest("can not understand the requested json", err)
		}
		if body.ModelHome != nil && strings.TrimSpace(*body.ModelHome) == "" {
			return apierr.BadRequest("specify a directory where models are stored", errEmptyModelHome)
		}

		before := s.GetAll().ModelHome
		err := s.Update(func(d *store.Document) error {
			if body.ModelHome != nil {
				d.ModelHome = *body.ModelHome
			}
			if body.ShowWelcome != nil {
				d.ShowWelcome = *body.ShowWelcome
			}
			return nil
		})
		if err != nil {
			return apierr.InternalServerError(err)
		}

		after := s.GetAll()
		if onModelHome != nil && after.ModelHome != before {
			onModelHome(after.ModelHome)
		}
		return c.JSON(http.StatusOK, settingsOf(after))
	}
}
