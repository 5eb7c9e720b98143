package serve

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/opst/shepherd/cmd/shepherd/handlers"
	"github.com/opst/shepherd/pkg/columns"
	"github.com/opst/shepherd/pkg/configs/store"
	"github.com/opst/shepherd/pkg/utils/echoutil"
)

var API_ROOT = "/api"

func api(subpath string) string {
	if !strings.HasSuffix(subpath, "/") {
		subpath += "/"
	}
	return fmt.Sprintf("%s/%s", API_ROOT, subpath)
}

// Catalog is what the server needs from catalog.Catalog.
type Catalog interface {
	handlers.ModelLister
	SetRoot(root string)
}

type serverOption struct {
	loglevel string
	strict   bool
	resolve  func(modelHome string) string
}

type Option func(*serverOption) *serverOption

func WithLogLevel(loglevel string) Option {
	return func(so *serverOption) *serverOption {
		so.loglevel = loglevel
		return so
	}
}

// WithStrictColumns makes view endpoints fail when a column of a view is not found in models.
func WithStrictColumns(strict bool) Option {
	return func(so *serverOption) *serverOption {
		so.strict = strict
		return so
	}
}

// WithModelHomeResolver sets how model_home in settings is converted to a directory.
func WithModelHomeResolver(resolve func(string) string) Option {
	return func(so *serverOption) *serverOption {
		so.resolve = resolve
		return so
	}
}

func BuildServer(s store.Store, cat Catalog, options ...Option) *echo.Echo {
	opt := &serverOption{
		loglevel: "warn",
		resolve:  func(h string) string { return h },
	}
	for _, o := range options {
		opt = o(opt)
	}

	e := echo.New()
	e.HideBanner = true
	echoutil.SetLevel(e, opt.loglevel)

	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}

	e.Pre(middleware.AddTrailingSlash())

	// logging for server-side latency.
	e.Use(echoutil.LogHandlerFunc)

	colopts := []columns.Option{}
	if opt.strict {
		colopts = append(colopts, columns.Strict())
	}

	e.GET(api("models"), handlers.ModelsHandler(cat))

	e.GET(api("views"), handlers.ViewListHandler(s))
	e.POST(api("views"), handlers.ViewCreateHandler(s))
	e.GET(api("views/:view"), handlers.ViewGetHandler(s, cat, "view", colopts...))
	e.DELETE(api("views/:view"), handlers.ViewDeleteHandler(s, "view"))
	e.PUT(api("views/:view/columns"), handlers.ViewColumnsHandler(s, "view"))

	e.GET(api("settings"), handlers.SettingsGetHandler(s))
	e.PUT(api("settings"), handlers.SettingsPutHandler(s, func(modelHome string) {
		cat.SetRoot(opt.resolve(modelHome))
	}))

	return e
}
