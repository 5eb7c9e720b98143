package columns

import (
	"context"
	"fmt"
	"log"

	"github.com/opst/shepherd/cmd/shepherd/subcommands/common"
	"github.com/opst/shepherd/pkg/columns"
	kflg "github.com/opst/shepherd/pkg/commandline/flag"
	"github.com/opst/shepherd/pkg/configs/store"
	"github.com/opst/shepherd/pkg/views"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Train *kflg.Columns `flag:"train" metavar:"NAME[:STATE],..." help:"training columns in order. It can be specified multiple times."`
	Eval  *kflg.Columns `flag:"eval" metavar:"NAME[:STATE],..." help:"evaluation columns in order. It can be specified multiple times."`
}

const ARG_NAME = "NAME"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Replace columns of a view.",
		Flag{
			Train: &kflg.Columns{},
			Eval:  &kflg.Columns{},
		},
		flarc.Args{
			{
				Name: ARG_NAME, Required: true,
				Help: "name of the view.",
			},
		},
		common.NewTask(Task),
		flarc.WithDescription(`
Replace training and evaluation columns of a view.

Columns are given in the order to be shown. STATE is true (shown) or false (hidden). Default is true.
Both of training and evaluation columns are replaced together. Omitted flag means no columns.

Example:

    shepherd view columns --train name,dataset:false --eval loss,accuracy overview
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
	return UpdateColumns(logger, conf.Store, cl.Args()[ARG_NAME][0], flags.Train.Spec(), flags.Eval.Spec())
}

func UpdateColumns(logger *log.Logger, s store.Store, name string, train columns.Spec, eval columns.Spec) error {
	err := views.UpdateColumns(s, name, train, eval)
	r := views.ResultOf(err, fmt.Sprintf(
		"Columns are updated: %s (%d training, %d evaluation)", name, len(train), len(eval),
	))
	if !r.OK {
		logger.Println(r.Message)
		return err
	}
	logger.Printf("[OK] %s", r.Message)
	return nil
}
