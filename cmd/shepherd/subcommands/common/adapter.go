package common

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/opst/shepherd/pkg/configs/store"
	"github.com/youta-t/flarc"
)

type TaskWithCommonFlag[T any] func(
	ctx context.Context,
	logger *log.Logger,
	commonFlag CommonFlags,
	cl flarc.Commandline[T],
	params []any,
) error

func NewTaskWithCommonFlag[T any](task TaskWithCommonFlag[T]) flarc.Task[T] {
	return func(ctx context.Context, cl flarc.Commandline[T], pos []any) error {
		var commonFlag CommonFlags
		found := false
		newpos := make([]any, 0, len(pos))
		for _, p := range pos {
			switch v := p.(type) {
			case CommonFlags:
				found = true
				commonFlag = v
			default:
				newpos = append(newpos, p)
			}
		}
		if !found {
			return errors.New("programming error: common flags not found")
		}

		logger := log.New(cl.Stderr(), "", log.LstdFlags)
		logger.SetPrefix(fmt.Sprintf("[%s] ", cl.Fullname()))

		return task(ctx, logger, commonFlag, cl, newpos)
	}
}

// Task is a command task with the configuration store.
type Task[T any] func(
	ctx context.Context,
	logger *log.Logger,
	conf Config,
	cl flarc.Commandline[T],
	params []any,
) error

// Config is the configuration store and where it is.
type Config struct {
	Path  string
	Store store.Store
}

// ModelHome is the directory where models are discovered.
func (c Config) ModelHome() string {
	return ModelHome(c.Path, c.Store.GetAll().ModelHome)
}

// NewTask opens the configuration file specified by common flags, and runs task.
//
// When the file does not exist, it is created with the default configuration.
func NewTask[T any](task Task[T]) flarc.Task[T] {
	return NewTaskWithCommonFlag(func(
		ctx context.Context,
		logger *log.Logger,
		commonFlag CommonFlags,
		cl flarc.Commandline[T],
		params []any,
	) error {
		s, err := store.OpenOrInit(commonFlag.Config)
		if err != nil {
			if errors.Is(err, store.ErrCannotUpdateConfig) {
				return fmt.Errorf(
					"%w: configuration file (%s) cannot be created. Check permission of the directory, or specify --config",
					err, commonFlag.Config,
				)
			}
			return fmt.Errorf(
				"%w: failed to load configuration file (%s). It can be broken",
				err, commonFlag.Config,
			)
		}
		return task(ctx, logger, Config{Path: commonFlag.Config, Store: s}, cl, params)
	})
}
