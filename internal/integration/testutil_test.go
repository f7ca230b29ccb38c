package integration_test

import (
	"context"
	"os"
	"os/exec"
	"testing"
	"time"

	"pkt.systems/ncmctl/core"
	"pkt.systems/ncmctl/internal/actions"
	"pkt.systems/ncmctl/internal/cdpdriver"
	"pkt.systems/ncmctl/internal/fixture"
	"pkt.systems/ncmctl/schema"
)

var browserCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
}

func requireLong(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}

// requireBrowser returns a Chrome binary or skips the test. NCMCTL_TEST_CHROME
// overrides the lookup.
func requireBrowser(t *testing.T) string {
	t.Helper()
	if path := os.Getenv("NCMCTL_TEST_CHROME"); path != "" {
		return path
	}
	for _, name := range browserCandidates {
		if path, err := execLookPath(name); err == nil {
			return path
		}
	}
	t.Skip("chrome not found in PATH")
	return ""
}

func execLookPath(binary string) (string, error) {
	return exec.LookPath(binary)
}

func startFixture(t *testing.T) *fixture.Server {
	t.Helper()
	srv, err := fixture.Start()
	if err != nil {
		t.Fatalf("start fixture: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Close(ctx)
	})
	return srv
}

// integrationTiming keeps waits short against the local fixture.
func integrationTiming() schema.Timing {
	return schema.Timing{
		ElementTimeout: 3 * time.Second,
		PollInterval:   50 * time.Millisecond,
		SearchTimeout:  5 * time.Second,
		TabSettle:      100 * time.Millisecond,
	}
}

type fixturePlayer struct {
	session *cdpdriver.Session
	ctrl    *core.Controller
	runner  *actions.Runner
}

func openFixturePlayer(t *testing.T) fixturePlayer {
	t.Helper()
	requireLong(t)
	chrome := requireBrowser(t)
	srv := startFixture(t)

	session, err := cdpdriver.Open(context.Background(), srv.URL, cdpdriver.Options{
		ExecPath:       chrome,
		OpTimeout:      5 * time.Second,
		StartupTimeout: 30 * time.Second,
	})
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	t.Cleanup(session.Close)
	ctrl := core.NewController(core.ControllerDeps{Driver: session, Timing: integrationTiming()})
	return fixturePlayer{session: session, ctrl: ctrl, runner: actions.NewRunner(ctrl)}
}

func testContext(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}
