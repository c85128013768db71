package content

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/abhisek/braingym/internal/logging"
	"github.com/abhisek/braingym/internal/store"
)

// Fetch operations recorded in the event log.
const (
	OpFetch  = "fetch"
	OpSubmit = "submit"
)

// LoggingProvider records every fetch and submission as a log line and,
// when a repository is set, as a fetch event.
type LoggingProvider struct {
	inner  Provider
	source string
	repo   store.EventRepo
	logger *slog.Logger
}

// WithLogging wraps p. source names the provider in records (local, http,
// llm). repo and logger may be nil.
func WithLogging(p Provider, source string, repo store.EventRepo, logger *slog.Logger) *LoggingProvider {
	return &LoggingProvider{inner: p, source: source, repo: repo, logger: logging.OrDiscard(logger)}
}

func (l *LoggingProvider) Arithmetic(ctx context.Context) (*ArithmeticSet, error) {
	start := time.Now()
	v, err := l.inner.Arithmetic(ctx)
	l.record(ctx, OpFetch, TypeArithmetic, start, err)
	return v, err
}

func (l *LoggingProvider) Reading(ctx context.Context) (*ReadingText, error) {
	start := time.Now()
	v, err := l.inner.Reading(ctx)
	l.record(ctx, OpFetch, TypeReading, start, err)
	return v, err
}

func (l *LoggingProvider) Stroop(ctx context.Context) (*StroopSet, error) {
	start := time.Now()
	v, err := l.inner.Stroop(ctx)
	l.record(ctx, OpFetch, TypeStroop, start, err)
	return v, err
}

func (l *LoggingProvider) Memory(ctx context.Context) (*MemoryWords, error) {
	start := time.Now()
	v, err := l.inner.Memory(ctx)
	l.record(ctx, OpFetch, TypeMemory, start, err)
	return v, err
}

func (l *LoggingProvider) SubmitResult(ctx context.Context, sub ResultSubmission) (*SubmissionReceipt, error) {
	start := time.Now()
	v, err := l.inner.SubmitResult(ctx, sub)
	l.record(ctx, OpSubmit, sub.ExerciseType, start, err)
	return v, err
}

func (l *LoggingProvider) record(ctx context.Context, op, kind string, start time.Time, err error) {
	latency := time.Since(start)
	data := store.FetchEventData{
		Source:       l.source,
		Operation:    op,
		ExerciseType: kind,
		LatencyMs:    latency.Milliseconds(),
		Success:      err == nil,
		Status:       errorStatus(err),
	}
	attrs := []any{
		slog.String("source", l.source),
		slog.String("op", op),
		slog.String("exercise", kind),
		slog.Duration("latency", latency),
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		l.logger.WarnContext(ctx, "content request failed", append(attrs, slog.Any("error", err))...)
	} else {
		l.logger.DebugContext(ctx, "content request", attrs...)
	}

	if l.repo == nil {
		return
	}
	// The request context may already be gone; the record should still land.
	if rerr := l.repo.AppendFetch(context.WithoutCancel(ctx), data); rerr != nil {
		l.logger.WarnContext(ctx, "record fetch event", slog.Any("error", rerr))
	}
}

func errorStatus(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Status
	}
	var se *SubmitError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

// RetryPolicy configures RetryProvider.
type RetryPolicy struct {
	Attempts    int
	InitialWait time.Duration
	MaxWait     time.Duration
}

// DefaultRetryPolicy is used for the remote provider.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, InitialWait: 250 * time.Millisecond, MaxWait: 2 * time.Second}

// RetryProvider retries temporary fetch failures with exponential backoff.
// Submissions are not retried.
type RetryProvider struct {
	inner  Provider
	policy RetryPolicy
	sleep  func(ctx context.Context, d time.Duration) error
}

// WithRetry wraps p.
func WithRetry(p Provider, policy RetryPolicy) *RetryProvider {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	return &RetryProvider{inner: p, policy: policy, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func retry[T any](ctx context.Context, r *RetryProvider, fn func(context.Context) (T, error)) (T, error) {
	var (
		v   T
		err error
	)
	for attempt := range r.policy.Attempts {
		v, err = fn(ctx)
		if err == nil || !temporary(err) || attempt == r.policy.Attempts-1 {
			return v, err
		}
		if serr := r.sleep(ctx, r.backoff(attempt)); serr != nil {
			return v, err
		}
	}
	return v, err
}

func temporary(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Temporary()
	}
	return false
}

func (r *RetryProvider) backoff(attempt int) time.Duration {
	d := float64(r.policy.InitialWait) * math.Pow(2, float64(attempt))
	if r.policy.MaxWait > 0 {
		d = min(d, float64(r.policy.MaxWait))
	}
	return time.Duration(d)
}

func (r *RetryProvider) Arithmetic(ctx context.Context) (*ArithmeticSet, error) {
	return retry(ctx, r, r.inner.Arithmetic)
}

func (r *RetryProvider) Reading(ctx context.Context) (*ReadingText, error) {
	return retry(ctx, r, r.inner.Reading)
}

func (r *RetryProvider) Stroop(ctx context.Context) (*StroopSet, error) {
	return retry(ctx, r, r.inner.Stroop)
}

func (r *RetryProvider) Memory(ctx context.Context) (*MemoryWords, error) {
	return retry(ctx, r, r.inner.Memory)
}

func (r *RetryProvider) SubmitResult(ctx context.Context, sub ResultSubmission) (*SubmissionReceipt, error) {
	return r.inner.SubmitResult(ctx, sub)
}
