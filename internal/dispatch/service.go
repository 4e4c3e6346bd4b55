// Package dispatch drives due posts to publishers and reports the outcome
// back to the schedule.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samvad-hq/samvad-post-curator/internal/domain"
	"github.com/samvad-hq/samvad-post-curator/internal/logger"
	"github.com/samvad-hq/samvad-post-curator/internal/metrics"
	"github.com/samvad-hq/samvad-post-curator/pkg/publishers"
	"golang.org/x/sync/errgroup"
)

// PostQueue is the slice of the schedule the dispatcher drives.
type PostQueue interface {
	Due(now time.Time) []domain.ScheduledPost
	UpdateStatus(ctx context.Context, id string, to domain.Status) (domain.ScheduledPost, error)
}

// Opener hands out a loaded queue for one tick and a release func to call
// when the tick ends.
type Opener func(ctx context.Context) (PostQueue, func() error, error)

// Static serves the same queue on every tick.
func Static(q PostQueue) Opener {
	return func(context.Context) (PostQueue, func() error, error) {
		return q, func() error { return nil }, nil
	}
}

// EventPublisher delivers one event to every routed sink.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (publishers.Result, error)
}

// Recorder observes dispatch outcomes.
type Recorder interface {
	RecordDispatch(platform domain.Platform, outcome string)
	RecordTick(due int, took time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordDispatch(domain.Platform, string) {}
func (nopRecorder) RecordTick(int, time.Duration)          {}

// Options tunes the dispatch loop.
type Options struct {
	Interval    time.Duration
	Concurrency int
	Now         func() time.Time
	Recorder    Recorder
}

// Service publishes due posts on every tick.
type Service struct {
	open        Opener
	publisher   EventPublisher
	log         logger.Logger
	recorder    Recorder
	now         func() time.Time
	interval    time.Duration
	concurrency int
}

// TickResult summarises one pass over the due posts.
type TickResult struct {
	Due       int
	Completed int
	Failed    int
	Rejected  int
	Errors    int
	Skipped   int
}

// NewService wires a dispatcher. Interval and Concurrency must be positive.
func NewService(open Opener, pub EventPublisher, log logger.Logger, opts Options) (*Service, error) {
	if open == nil || pub == nil {
		return nil, errors.New("dispatch requires a queue opener and a publisher")
	}
	if opts.Interval <= 0 {
		return nil, fmt.Errorf("dispatch interval must be positive, got %s", opts.Interval)
	}
	if opts.Concurrency <= 0 {
		return nil, fmt.Errorf("dispatch concurrency must be positive, got %d", opts.Concurrency)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}

	return &Service{
		open:        open,
		publisher:   pub,
		log:         logger.Ensure(log),
		recorder:    opts.Recorder,
		now:         opts.Now,
		interval:    opts.Interval,
		concurrency: opts.Concurrency,
	}, nil
}

// Run dispatches immediately and then on every interval until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	s.log.InfoObj("dispatch loop starting", "dispatch_state", map[string]any{
		"interval":    s.interval.String(),
		"concurrency": s.concurrency,
	})

	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.InfoObj("dispatch loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Service) tick(ctx context.Context) {
	res, err := s.RunOnce(ctx)
	if err != nil {
		s.log.ErrorObj("dispatch tick failed", "error", err)
	}
	if res.Due > 0 {
		s.log.InfoObj("dispatch tick completed", "dispatch_result", res)
	}
}

// RunOnce publishes every post due now. Each post is reported back as
// completed when all routed publishers accepted it and failed otherwise.
// A post already terminal through another reporter is counted as rejected.
func (s *Service) RunOnce(ctx context.Context) (res TickResult, err error) {
	start := time.Now()
	queue, release, err := s.open(ctx)
	if err != nil {
		return res, fmt.Errorf("open post queue: %w", err)
	}
	defer func() {
		if rerr := release(); rerr != nil {
			err = errors.Join(err, fmt.Errorf("release post queue: %w", rerr))
		}
	}()

	now := s.now()
	due := queue.Due(now)
	res.Due = len(due)
	defer func() { s.recorder.RecordTick(len(due), time.Since(start)) }()

	if len(due) == 0 {
		return res, nil
	}

	var (
		mu   sync.Mutex
		errs []error
		g    errgroup.Group
	)
	g.SetLimit(s.concurrency)

	for _, post := range due {
		g.Go(func() error {
			outcome, err := s.dispatch(ctx, queue, post, now)

			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case metrics.OutcomeCompleted:
				res.Completed++
			case metrics.OutcomeFailed:
				res.Failed++
			case metrics.OutcomeRejected:
				res.Rejected++
			case metrics.OutcomeError:
				res.Errors++
			default:
				res.Skipped++
			}
			if err != nil {
				errs = append(errs, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return res, errors.Join(errs...)
}

func (s *Service) dispatch(ctx context.Context, queue PostQueue, post domain.ScheduledPost, now time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", nil
	}

	pubRes, pubErr := s.publisher.Publish(ctx, publishers.NewEvent(post, now))
	if ctx.Err() != nil {
		// Shutdown mid-publish; leave the post pending for the next run.
		return "", nil
	}

	to := domain.StatusCompleted
	if pubErr != nil || !pubRes.OK() {
		to = domain.StatusFailed
		s.log.WarnObj("post publish failed", "dispatch_failure", map[string]any{
			"post_id":   post.ID,
			"platform":  post.Platform,
			"routed":    pubRes.Routed,
			"delivered": pubRes.Delivered,
			"error":     errString(pubErr),
		})
	}

	if _, err := queue.UpdateStatus(ctx, post.ID, to); err != nil {
		if domain.IsCode(err, domain.EINVALIDTRANSITION) || domain.IsCode(err, domain.ENOTFOUND) {
			s.recorder.RecordDispatch(post.Platform, metrics.OutcomeRejected)
			s.log.WarnObj("post outcome not recorded", "dispatch_rejected", map[string]any{
				"post_id": post.ID,
				"status":  to,
				"error":   err.Error(),
			})
			return metrics.OutcomeRejected, nil
		}
		s.recorder.RecordDispatch(post.Platform, metrics.OutcomeError)
		return metrics.OutcomeError, fmt.Errorf("record outcome for post %s: %w", post.ID, err)
	}

	outcome := string(to)
	s.recorder.RecordDispatch(post.Platform, outcome)
	return outcome, nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
