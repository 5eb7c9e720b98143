package view

import (
	view_columns "github.com/opst/shepherd/cmd/shepherd/subcommands/view/columns"
	view_create "github.com/opst/shepherd/cmd/shepherd/subcommands/view/create"
	view_delete "github.com/opst/shepherd/cmd/shepherd/subcommands/view/delete"
	view_list "github.com/opst/shepherd/cmd/shepherd/subcommands/view/list"
	view_show "github.com/opst/shepherd/cmd/shepherd/subcommands/view/show"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	list, err := view_list.New()
	if err != nil {
		return nil, err
	}
	show, err := view_show.New()
	if err != nil {
		return nil, err
	}
	create, err := view_create.New()
	if err != nil {
		return nil, err
	}
	del, err := view_delete.New()
	if err != nil {
		return nil, err
	}
	columns, err := view_columns.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Manipulate views: named tables of models.",
		struct{}{},
		flarc.WithSubcommand("list", list),
		flarc.WithSubcommand("show", show),
		flarc.WithSubcommand("create", create),
		flarc.WithSubcommand("delete", del),
		flarc.WithSubcommand("columns", columns),
	)
}
