package create

import (
	"context"
	"log"

	"github.com/opst/shepherd/cmd/shepherd/subcommands/common"
	"github.com/opst/shepherd/pkg/configs/store"
	"github.com/opst/shepherd/pkg/views"
	"github.com/youta-t/flarc"
)

const ARG_NAME = "NAME"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Create a view from the view template.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_NAME, Required: true,
				Help: `name of the new view. "new" is reserved.`,
			},
		},
		common.NewTask(Task),
	)
}

func Task(
	ctx context.Context,
	logger *log.Logger,
	conf common.Config,
	cl flarc.Commandline[struct{}],
	_ []any,
) error {
	return CreateView(logger, conf.Store, cl.Args()[ARG_NAME][0])
}

func CreateView(logger *log.Logger, s store.Store, name string) error {
	err := views.Create(s, name)
	r := views.ResultOf(err, "View is created: "+name)
	if !r.OK {
		logger.Println(r.Message)
		return err
	}
	logger.Printf("[OK] %s", r.Message)
	return nil
}
