package create_test

import (
	"errors"
	"testing"

	"github.com/opst/shepherd/cmd/shepherd/subcommands/logger"
	"github.com/opst/shepherd/cmd/shepherd/subcommands/view/create"
	"github.com/opst/shepherd/pkg/configs/store"
	"github.com/opst/shepherd/pkg/views"
)

func TestCreateView(t *testing.T) {
	t.Run("it creates a view", func(t *testing.T) {
		s := store.New(store.Default(), store.Discard)
		if err := create.CreateView(logger.Null(), s, "nlp"); err != nil {
			t.Fatal(err)
		}
		if _, ok := s.GetAll().Views["nlp"]; !ok {
			t.Errorf("view is not created")
		}
	})

	t.Run("it refuses the reserved name", func(t *testing.T) {
		s := store.New(store.Default(), store.Discard)
		err := create.CreateView(logger.Null(), s, "new")
		if !errors.Is(err, views.ErrIllegalViewName) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
