// Package cdpdriver implements core.Driver over the Chrome DevTools Protocol with
// chromedp. A Session either attaches to the page target of a running client or
// opens a local headless browser (tests and selftest).
package cdpdriver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"pkt.systems/pslog"
)

const (
	defaultOpTimeout      = 5 * time.Second
	defaultStartupTimeout = 30 * time.Second
)

// Options tunes a session.
type Options struct {
	// OpTimeout bounds every single driver call.
	OpTimeout time.Duration
	// StartupTimeout bounds attaching to the target or launching the browser.
	StartupTimeout time.Duration
	// ExecPath selects the browser binary for Open. Empty uses chromedp's lookup.
	ExecPath string
	// Headful shows the browser window opened by Open.
	Headful bool
}

func (o Options) normalized() Options {
	if o.OpTimeout <= 0 {
		o.OpTimeout = defaultOpTimeout
	}
	if o.StartupTimeout <= 0 {
		o.StartupTimeout = defaultStartupTimeout
	}
	return o
}

// Session is a chromedp tab context bound to one page. It implements core.Driver.
type Session struct {
	tab    context.Context
	cancel context.CancelFunc
	opts   Options
}

// Attach connects to an existing page target through the browser websocket endpoint
// reported by /json/version. Closing the session detaches without closing the page.
func Attach(ctx context.Context, browserWS, targetID string, opts Options) (*Session, error) {
	if browserWS == "" {
		return nil, errors.New("attach: empty devtools websocket url")
	}
	if targetID == "" {
		return nil, errors.New("attach: empty target id")
	}
	opts = opts.normalized()
	log := pslog.Ctx(ctx).With("target", targetID)

	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(ctx, browserWS, chromedp.NoModifyURL)
	// The tab context is the first on its allocator, so its cancel func detaches
	// instead of closing the target. chromedp.Cancel would close the client.
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithTargetID(target.ID(targetID)),
		chromedp.WithErrorf(errorf(log)),
	)
	s := &Session{tab: tabCtx, cancel: chainCancel(cancelTab, cancelAlloc), opts: opts}
	if err := s.start(); err != nil {
		s.Close()
		return nil, fmt.Errorf("attach to %s: %w", targetID, err)
	}
	log.Info("devtools session attached")
	return s, nil
}

// Open launches a local browser and navigates its first tab to url.
func Open(ctx context.Context, url string, opts Options) (*Session, error) {
	opts = opts.normalized()
	log := pslog.Ctx(ctx).With("url", url)

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !opts.Headful),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.WindowSize(1280, 900),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithErrorf(errorf(log)))
	s := &Session{tab: tabCtx, cancel: chainCancel(cancelTab, cancelAlloc), opts: opts}
	if err := s.start(); err != nil {
		s.Close()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	if err := s.run(ctx, opts.StartupTimeout, chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		s.Close()
		return nil, fmt.Errorf("navigate to %s: %w", url, err)
	}
	log.Info("browser session opened")
	return s, nil
}

// start performs the first Run on the tab context itself. A deadline on that first
// Run would tear the browser down when it fires, so the startup bound is a watchdog.
func (s *Session) start() error {
	watchdog := time.AfterFunc(s.opts.StartupTimeout, s.cancel)
	defer watchdog.Stop()
	if err := chromedp.Run(s.tab); err != nil {
		if s.tab.Err() != nil {
			return fmt.Errorf("timed out after %s: %w", s.opts.StartupTimeout, err)
		}
		return err
	}
	return nil
}

// Close ends the session. It is safe to call more than once.
func (s *Session) Close() {
	if s == nil || s.cancel == nil {
		return
	}
	s.cancel()
}

// Evaluate runs a JavaScript expression in the page and decodes its result into out.
func (s *Session) Evaluate(ctx context.Context, expression string, out any) error {
	return s.run(ctx, s.opTimeout(), chromedp.Evaluate(expression, out))
}

func (s *Session) opTimeout() time.Duration {
	if s == nil {
		return defaultOpTimeout
	}
	return s.opts.OpTimeout
}

// run executes actions on the tab, bounded by timeout and by the caller's ctx, which
// is not derived from the tab context.
func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if s == nil || s.tab == nil {
		return errors.New("devtools session closed")
	}
	if err := s.tab.Err(); err != nil {
		return fmt.Errorf("devtools session closed: %w", err)
	}
	opCtx, cancel := context.WithTimeout(s.tab, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	err := chromedp.Run(opCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func chainCancel(fns ...context.CancelFunc) context.CancelFunc {
	return func() {
		for _, fn := range fns {
			fn()
		}
	}
}

func errorf(log pslog.Logger) func(string, ...any) {
	return func(format string, args ...any) {
		log.Warn("chromedp", "msg", fmt.Sprintf(format, args...))
	}
}
