package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the timeline digest on a cron schedule.
type Scheduler struct {
	cron       *cron.Cron
	ctx        context.Context
	cancel     context.CancelFunc
	spec       string
	digestFunc func(ctx context.Context) error
}

func New(spec string) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		ctx:    ctx,
		cancel: cancel,
		spec:   spec,
	}
}

// SetDigestFunction sets the function invoked on each tick.
func (s *Scheduler) SetDigestFunction(f func(ctx context.Context) error) {
	s.digestFunc = f
}

func (s *Scheduler) Start() error {
	if s.digestFunc == nil {
		log.Println("digest function not set, scheduler will not run")
		return nil
	}

	_, err := s.cron.AddFunc(s.spec, func() {
		log.Printf("triggered timeline digest (%s)", s.spec)
		if err := s.digestFunc(s.ctx); err != nil {
			log.Printf("timeline digest failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid digest cron spec %q: %w", s.spec, err)
	}

	s.cron.Start()
	log.Printf("scheduler started, timeline digest at %q (UTC)", s.spec)
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Println("scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
