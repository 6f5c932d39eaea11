package main

import (
	"errors"
	"fmt"

	"github.com/plus3/lantern/actor"
	"github.com/plus3/lantern/internal/config"
	"github.com/plus3/lantern/mediaref"
	"github.com/plus3/lantern/role"
	"github.com/plus3/lantern/scheduler"
	"go.uber.org/zap"
)

// stage owns the scheduler and every actor spawned from a title.
type stage struct {
	scheduler *scheduler.Scheduler
	media     *mediaref.Table
	actors    []*cast
	logger    *zap.Logger
}

type cast struct {
	actor     *actor.Actor
	transform *role.Transform
}

func newStage(title config.Title, baseDir string, logger *zap.Logger) (*stage, error) {
	media, err := mediaref.NewTable(baseDir, title.Media...)
	if err != nil {
		return nil, fmt.Errorf("media table: %w", err)
	}

	s := &stage{
		scheduler: scheduler.New(
			scheduler.WithLogger(logger),
			scheduler.WithPhases(title.Phases...),
		),
		media:  media,
		logger: logger,
	}

	for _, ac := range title.Actors {
		c, err := s.spawn(ac)
		if err != nil {
			// Leave nothing registered behind a half-built stage
			return nil, errors.Join(err, s.dispose())
		}
		s.actors = append(s.actors, c)
	}
	return s, nil
}

func (s *stage) spawn(ac config.ActorConfig) (*cast, error) {
	tr := role.NewTransform()
	tr.RequireGeometry = ac.RequireGeometry

	a, err := actor.New(ac.Kind, tr,
		actor.WithName(ac.Name),
		actor.WithLoader(s.media),
		actor.WithLogger(s.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("actor %s: %w", ac.Name, err)
	}

	names, streams, err := ac.Streams()
	if err != nil {
		return nil, fmt.Errorf("actor %s: %w", ac.Name, err)
	}
	for i, name := range names {
		if err := a.Set(name, streams[i]); err != nil {
			return nil, fmt.Errorf("actor %s: %w", ac.Name, err)
		}
	}

	if err := a.Init(s.scheduler); err != nil {
		return nil, fmt.Errorf("actor %s: %w", ac.Name, err)
	}
	return &cast{actor: a, transform: tr}, nil
}

// dispose unregisters every active actor. Errors are joined so one failure
// does not leave later actors registered.
func (s *stage) dispose() error {
	var errs []error
	for _, c := range s.actors {
		if c.actor.State() != actor.Active {
			continue
		}
		if err := c.actor.Dispose(s.scheduler); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
