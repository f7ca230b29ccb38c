package launcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pkt.systems/pslog"
)

// ErrNoTarget is returned when no page target matches.
var ErrNoTarget = errors.New("no matching page target")

// Version is the /json/version document of a DevTools endpoint.
type Version struct {
	Browser              string `json:"Browser"`
	ProtocolVersion      string `json:"Protocol-Version"`
	UserAgent            string `json:"User-Agent"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// Target is one entry of /json/list.
type Target struct {
	ID                   string `json:"id"`
	Type                 string `json:"type"`
	Title                string `json:"title"`
	URL                  string `json:"url"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// DevTools queries the HTTP discovery endpoints of a remote debugging port.
type DevTools struct {
	BaseURL string
	Client  *http.Client
}

// NewDevTools returns a discovery client for host:port.
func NewDevTools(host string, port int) *DevTools {
	return &DevTools{
		BaseURL: "http://" + net.JoinHostPort(host, strconv.Itoa(port)),
		Client:  &http.Client{Timeout: 2 * time.Second},
	}
}

// Version fetches /json/version.
func (d *DevTools) Version(ctx context.Context) (Version, error) {
	var v Version
	if err := d.get(ctx, "/json/version", &v); err != nil {
		return Version{}, err
	}
	if v.WebSocketDebuggerURL == "" {
		return Version{}, errors.New("devtools version has no websocket url")
	}
	return v, nil
}

// Targets fetches /json/list.
func (d *DevTools) Targets(ctx context.Context) ([]Target, error) {
	var targets []Target
	if err := d.get(ctx, "/json/list", &targets); err != nil {
		return nil, err
	}
	return targets, nil
}

// PageTarget returns the first page target whose URL contains match.
func (d *DevTools) PageTarget(ctx context.Context, match string) (Target, error) {
	targets, err := d.Targets(ctx)
	if err != nil {
		return Target{}, err
	}
	for _, t := range targets {
		if t.Type == "page" && strings.Contains(t.URL, match) {
			return t, nil
		}
	}
	return Target{}, fmt.Errorf("%w: url containing %q among %d targets", ErrNoTarget, match, len(targets))
}

// WaitVersion polls /json/version until the endpoint answers or timeout elapses.
func (d *DevTools) WaitVersion(ctx context.Context, timeout time.Duration) (Version, error) {
	return poll(ctx, timeout, func(ctx context.Context) (Version, error) {
		return d.Version(ctx)
	})
}

// WaitPageTarget polls /json/list until a page target matching match appears. The
// client creates its main page some time after the endpoint comes up.
func (d *DevTools) WaitPageTarget(ctx context.Context, match string, timeout time.Duration) (Target, error) {
	return poll(ctx, timeout, func(ctx context.Context) (Target, error) {
		return d.PageTarget(ctx, match)
	})
}

const pollInterval = 200 * time.Millisecond

func poll[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	deadline := time.Now().Add(timeout)
	log := pslog.Ctx(ctx)
	for {
		value, err := fn(ctx)
		if err == nil {
			return value, nil
		}
		if time.Now().After(deadline) {
			return zero, fmt.Errorf("timed out after %s: %w", timeout, err)
		}
		log.Trace("devtools not ready", "err", err)
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func (d *DevTools) get(ctx context.Context, path string, out any) error {
	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(d.BaseURL, "/")+path, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
