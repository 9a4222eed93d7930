package environment

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ChicagoDave/tourplanner/pkg/validation"
)

// DefaultTimeout bounds how long booking waits on the effect source.
const DefaultTimeout = 2 * time.Second

// Source provides the effects active at a place and time.
type Source interface {
	ActiveEffects(ctx context.Context, location string, at time.Time) ([]Effect, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, location string, at time.Time) ([]Effect, error)

// ActiveEffects calls f.
func (f SourceFunc) ActiveEffects(ctx context.Context, location string, at time.Time) ([]Effect, error) {
	return f(ctx, location, at)
}

// ErrSourceTimeout is reported to Logf when the source does not answer in time.
var ErrSourceTimeout = errors.New("environment source timed out")

// Composer queries a Source and reduces its effects into a Modifier.
// Environment data is an enhancement: any failure degrades to Neutral.
type Composer struct {
	Source  Source
	Timeout time.Duration
	Logf    func(format string, args ...any)
}

// NewComposer returns a composer with the default timeout and stdlib logging.
func NewComposer(src Source) *Composer {
	return &Composer{Source: src, Timeout: DefaultTimeout, Logf: log.Printf}
}

// Compose parses an ISO date or RFC3339 timestamp and composes the modifier.
// Only a malformed timestamp is an error; source problems never are.
func (c *Composer) Compose(ctx context.Context, location, isoDateTime string) (Modifier, error) {
	at, err := ParseTime(isoDateTime)
	if err != nil {
		return Modifier{}, err
	}
	return c.ComposeAt(ctx, location, at), nil
}

// ComposeAt returns the combined modifier for location at the given time.
func (c *Composer) ComposeAt(ctx context.Context, location string, at time.Time) Modifier {
	if c == nil || c.Source == nil {
		return Neutral()
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		effects []Effect
		err     error
	}
	done := make(chan result, 1)
	go func() {
		effects, err := c.Source.ActiveEffects(ctx, location, at)
		done <- result{effects, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			c.logf("environment: source failed for %q at %s, using neutral modifier: %v", location, at.Format(time.RFC3339), r.err)
			return Neutral()
		}
		return Combine(r.effects)
	case <-ctx.Done():
		c.logf("environment: %v for %q at %s, using neutral modifier", ErrSourceTimeout, location, at.Format(time.RFC3339))
		return Neutral()
	}
}

func (c *Composer) logf(format string, args ...any) {
	if c.Logf != nil {
		c.Logf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// ParseTime accepts RFC3339 timestamps or plain YYYY-MM-DD dates.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, validation.Invalid("date", s, "expected RFC3339 or YYYY-MM-DD")
}
