package core

import (
	"context"
	"fmt"
	"time"

	"pkt.systems/ncmctl/schema"
)

// Probe evaluates a wait condition once against freshly queried elements. It reports
// ok=false (or an error) while the condition does not hold yet.
type Probe[T any] func(ctx context.Context) (value T, ok bool, err error)

// WaitFor re-evaluates probe every interval until it holds or timeout elapses.
// Probe errors are treated as transient absence; the last one is reported in the
// timeout error, which wraps schema.ErrNotFound.
func WaitFor[T any](ctx context.Context, timeout, interval time.Duration, probe Probe[T]) (T, error) {
	var zero T
	if interval <= 0 {
		interval = schema.DefaultTiming().PollInterval
	}
	deadline := time.Now().Add(timeout)
	var lastErr error
	for {
		value, ok, err := probe(ctx)
		if err == nil && ok {
			return value, nil
		}
		if err != nil {
			lastErr = err
		}
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			if lastErr != nil {
				return zero, fmt.Errorf("%w after %s (last error: %v)", schema.ErrNotFound, timeout, lastErr)
			}
			return zero, fmt.Errorf("%w after %s", schema.ErrNotFound, timeout)
		}
		timer := time.NewTimer(min(interval, remaining))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

// first returns the first displayed element matching selector under scope.
func (c *Controller) first(ctx context.Context, scope Node, selector string) (Node, bool, error) {
	nodes, err := c.driver.QueryAll(ctx, scope, selector)
	if err != nil {
		return nil, false, err
	}
	if len(nodes) == 0 {
		return nil, false, nil
	}
	return nodes[0], true, nil
}

// waitElement waits for the first displayed element matching selector under scope.
func (c *Controller) waitElement(ctx context.Context, scope Node, selector, what string) (Node, error) {
	node, err := WaitFor(ctx, c.timing.ElementTimeout, c.timing.PollInterval, func(ctx context.Context) (Node, bool, error) {
		return c.first(ctx, scope, selector)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return node, nil
}

// textOf returns the trimmed text of the first element matching selector under
// scope, or "" when there is none.
func (c *Controller) textOf(ctx context.Context, scope Node, selector string) (string, error) {
	if selector == "" {
		return "", nil
	}
	node, ok, err := c.first(ctx, scope, selector)
	if err != nil || !ok {
		return "", err
	}
	text, err := c.driver.Text(ctx, node)
	if err != nil {
		return "", err
	}
	return normalizeSpace(text), nil
}
