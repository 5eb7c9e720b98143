package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"

	"github.com/opst/shepherd/cmd/shepherd/subcommands/common"
	"github.com/opst/shepherd/cmd/shepherd/subcommands/logger"
	submodels "github.com/opst/shepherd/cmd/shepherd/subcommands/models"
	subserve "github.com/opst/shepherd/cmd/shepherd/subcommands/serve"
	subview "github.com/opst/shepherd/cmd/shepherd/subcommands/view"
	"github.com/opst/shepherd/pkg/utils/try"
	"github.com/youta-t/flarc"
)

func main() {
	name := path.Base(os.Args[0])
	logger := logger.Default()
	logger.SetPrefix(fmt.Sprintf("[%s] ", name))

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill,
	)
	defer cancel()

	cf := try.To(common.Flags(".")).OrFatal(logger)
	serve := try.To(subserve.New()).OrFatal(logger)
	models := try.To(submodels.New()).OrFatal(logger)
	view := try.To(subview.New()).OrFatal(logger)

	shepherd := try.To(
		flarc.NewCommandGroup(
			"Shepherd: browse trained models and their evaluations",
			cf,
			flarc.WithSubcommand("serve", serve),
			flarc.WithSubcommand("models", models),
			flarc.WithSubcommand("view", view),
		),
	).OrFatal(logger)

	os.Exit(flarc.Run(ctx, shepherd, flarc.WithHelp(true)))
}
