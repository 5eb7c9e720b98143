package list

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/opst/shepherd/cmd/shepherd/subcommands/common"
	"github.com/opst/shepherd/pkg/configs/store"
	"github.com/opst/shepherd/pkg/views"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"List views in menu order.",
		struct{}{},
		flarc.Args{},
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
	return PrintViews(conf.Store, cl.Stdout())
}

// PrintViews writes view names in menu order, one per line, and then views not in the menu.
func PrintViews(s store.Store, out io.Writer) error {
	sum := views.List(s)
	listed := map[string]struct{}{}
	for _, name := range sum.Order {
		listed[name] = struct{}{}
		if _, err := fmt.Fprintln(out, name); err != nil {
			return err
		}
	}
	for _, name := range sum.Names {
		if _, ok := listed[name]; ok {
			continue
		}
		if _, err := fmt.Fprintf(out, "%s (not in menu)\n", name); err != nil {
			return err
		}
	}
	return nil
}
