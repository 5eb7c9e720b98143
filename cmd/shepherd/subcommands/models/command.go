package models

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/opst/shepherd/cmd/shepherd/subcommands/common"
	"github.com/opst/shepherd/pkg/domain/model"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Root        string `flag:"root" metavar:"DIR" help:"directory to discover models in. default: model_home in the configuration"`
	Attribution string `flag:"attribution" metavar:"all|nearest" help:"which models an evaluation belongs to: all ancestor models, or the nearest one"`
	Format      string `flag:"descriptor-format" metavar:"json|yaml" help:"format of descriptor files"`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Discover models and print them as JSON.",
		Flag{Attribution: "all", Format: "json"},
		flarc.Args{},
		common.NewTask(Task),
		flarc.WithDescription(`
Discover models under the model home, and print them as a JSON array.

A model is a directory with a training descriptor (*.sptrain).
Evaluation descriptors (*.speval) in the model directory or under it are put in "evaluations" of the model.
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

	root := flags.Root
	if root == "" {
		root = conf.ModelHome()
	}
	return PrintModels(ctx, logger, d, root, cl.Stdout())
}

type Discoverer interface {
	Discover(root string) ([]model.Model, error)
}

// PrintModels discovers models under root and writes them into out.
func PrintModels(
	ctx context.Context,
	logger *log.Logger,
	d Discoverer,
	root string,
	out io.Writer,
) error {
	logger.Printf("discovering models in %s", root)
	models, err := d.Discover(root)
	if err != nil {
		return fmt.Errorf("failed to discover models in %s: %w", root, err)
	}
	logger.Printf("%d models found", len(models))

	buf, err := json.MarshalIndent(models, "", "    ")
	if err != nil {
		return fmt.Errorf("unexpected error: %w", err)
	}
	if _, err := out.Write(append(buf, '\n')); err != nil {
		return err
	}
	return nil
}
