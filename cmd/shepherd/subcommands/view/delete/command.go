package delete

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
		"Delete a view.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_NAME, Required: true,
				Help: "name of the view to be deleted. The default view cannot be deleted.",
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
	return DeleteView(logger, conf.Store, cl.Args()[ARG_NAME][0])
}

func DeleteView(logger *log.Logger, s store.Store, name string) error {
	err := views.Delete(s, name)
	r := views.ResultOf(err, "View is deleted: "+name)
	if !r.OK {
		logger.Println(r.Message)
		return err
	}
	logger.Printf("[OK] %s", r.Message)
	return nil
}
