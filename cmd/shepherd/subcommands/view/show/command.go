package show

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"text/tabwriter"

	"github.com/opst/shepherd/cmd/shepherd/subcommands/common"
	"github.com/opst/shepherd/pkg/columns"
	"github.com/opst/shepherd/pkg/configs/store"
	"github.com/opst/shepherd/pkg/domain/model"
	"github.com/opst/shepherd/pkg/views"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Attribution string `flag:"attribution" metavar:"all|nearest" help:"which models an evaluation belongs to: all ancestor models, or the nearest one"`
	Format      string `flag:"descriptor-format" metavar:"json|yaml" help:"format of descriptor files"`
	Strict      bool   `flag:"strict" help:"fail when a column of the view is not found in models"`
	Save        bool   `flag:"save" help:"save columns found in models into the view"`
	JSON        bool   `flag:"json" help:"print the table as JSON"`
}

const ARG_NAME = "NAME"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Show models in a view.",
		Flag{Attribution: "all", Format: "json"},
		flarc.Args{
			{
				Name: ARG_NAME, Required: false,
				Help: "name of the view. default: " + store.DefaultViewName,
			},
		},
		common.NewTask(Task),
		flarc.WithDescription(`
Show models in a view as a table.

Columns of the view come first, in their order. Columns found only in models follow, sorted.
Hidden columns are not printed.
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
	name := store.DefaultViewName
	if a := cl.Args()[ARG_NAME]; 0 < len(a) {
		name = a[0]
	}

	d, err := common.Discoverer(flags.Attribution, flags.Format)
	if err != nil {
		return err
	}
	root := conf.ModelHome()
	ms, err := d.Discover(root)
	if err != nil {
		return fmt.Errorf("failed to discover models in %s: %w", root, err)
	}

	options := []columns.Option{}
	if flags.Strict {
		options = append(options, columns.Strict())
	}
	layout, err := ShowView(logger, conf.Store, name, ms, flags.Save, options...)
	if err != nil {
		return err
	}

	if flags.JSON {
		buf, err := json.MarshalIndent(layout, "", "    ")
		if err != nil {
			return fmt.Errorf("unexpected error: %w", err)
		}
		_, err = cl.Stdout().Write(append(buf, '\n'))
		return err
	}
	return PrintTable(cl.Stdout(), layout)
}

// ShowView lays out models in the view named name.
//
// When save is true, resolved columns are saved into the view.
func ShowView(
	logger *log.Logger,
	s store.Store,
	name string,
	ms []model.Model,
	save bool,
	options ...columns.Option,
) (views.Layout, error) {
	view, err := views.Get(s, name)
	if err != nil {
		logger.Println(views.ResultOf(err, "").Message)
		return views.Layout{}, err
	}
	layout, err := views.Resolve(view, ms, options...)
	if err != nil {
		return views.Layout{}, err
	}
	if save && (!layout.Train.Equal(view.TrainColumns) || !layout.Eval.Equal(view.EvalColumns)) {
		if err := views.UpdateColumns(s, name, layout.Train, layout.Eval); err != nil {
			return views.Layout{}, err
		}
		logger.Printf("columns are saved into view %s", name)
	}
	return layout, nil
}

func cell(v any) string {
	if v == nil {
		return "-"
	}
	switch vv := v.(type) {
	case string:
		return vv
	case map[string]any, []any:
		buf, err := json.Marshal(vv)
		if err != nil {
			return fmt.Sprint(vv)
		}
		return string(buf)
	default:
		return fmt.Sprint(vv)
	}
}

// PrintTable writes layout as a table. Evaluations are indented under their model.
func PrintTable(out io.Writer, layout views.Layout) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	header := append([]string{"DIR"}, layout.Train.Enabled()...)
	fmt.Fprintln(w, strings.Join(header, "\t"))

	evalHeader := layout.Eval.Enabled()
	for _, row := range layout.Rows {
		cells := []string{row.Dir}
		for _, c := range row.Cells {
			cells = append(cells, cell(c))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))

		if len(row.Evaluations) == 0 {
			continue
		}
		fmt.Fprintln(w, "  EVALUATED MODEL\t"+strings.Join(evalHeader, "\t"))
		for _, ev := range row.Evaluations {
			cells := []string{"  " + ev.Model}
			for _, c := range ev.Cells {
				cells = append(cells, cell(c))
			}
			fmt.Fprintln(w, strings.Join(cells, "\t"))
		}
	}
	return w.Flush()
}
