package serve

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/opst/shepherd/cmd/shepherd/subcommands/common"
	"github.com/opst/shepherd/pkg/catalog"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Addr        string `flag:"addr" metavar:"HOST:PORT" help:"address to listen"`
	Loglevel    string `flag:"loglevel" metavar:"debug|info|warn|error|off" help:"log level of the server"`
	Attribution string `flag:"attribution" metavar:"all|nearest" help:"which models an evaluation belongs to: all ancestor models, or the nearest one"`
	Format      string `flag:"descriptor-format" metavar:"json|yaml" help:"format of descriptor files"`
	Strict      bool   `flag:"strict" help:"fail when a column of a view is not found in models"`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Serve models and views over HTTP.",
		Flag{
			Addr:        ":8080",
			Loglevel:    "warn",
			Attribution: "all",
			Format:      "json",
		},
		flarc.Args{},
		common.NewTask(Task),
		flarc.WithDescription(`
Serve models and views over HTTP, as JSON API.

    GET    /api/models
    GET    /api/views
    POST   /api/views
    GET    /api/views/:view
    DELETE /api/views/:view
    PUT    /api/views/:view/columns
    GET    /api/settings
    PUT    /api/settings

Models are discovered again when files under the model home are changed.
`),
	)
}

func Task(
	ctx context.Context,
	logger *log.Logger,
	conf common.Config,
	cl flarc.Commandline[Flag],
	_ []any,
) error {
	flags := cl.Flags()
	d, err := common.Discoverer(flags.Attribution, flags.Format)
	if err != nil {
		return err
	}

	cat := catalog.New(conf.ModelHome(), d)
	defer cat.Close()

	server := BuildServer(
		conf.Store, cat,
		WithLogLevel(flags.Loglevel),
		WithStrictColumns(flags.Strict),
		WithModelHomeResolver(func(h string) string { return common.ModelHome(conf.Path, h) }),
	)
	for _, r := range server.Routes() {
		server.Logger.Debugf("- mount handler: %s %s", strings.ToUpper(r.Method), r.Path)
	}
	logger.Printf("listening %s (configuration: %s, models: %s)", flags.Addr, conf.Path, cat.Root())

	ch := make(chan error, 1)
	go func() {
		defer close(ch)
		if err := server.Start(flags.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ch <- err
		}
	}()

	var exit error
	select {
	case <-ctx.Done():
		logger.Printf("context has been done: %s, cause: %s", ctx.Err(), context.Cause(ctx))
	case err := <-ch:
		if err != nil {
			logger.Printf("server stops with error: %s", err)
			exit = err
		}
	}

	logger.Println("shutting down...")
	qctx, qcancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer qcancel()
	if err := server.Shutdown(qctx); err != nil {
		return errors.Join(exit, err)
	}
	return exit
}
