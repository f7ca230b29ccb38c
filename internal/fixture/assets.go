// Package fixture serves a self-contained page that reproduces the parts of the
// music client UI the controller drives. It backs the browser integration tests and
// `ncmctl selftest`.
package fixture

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"
)

//go:embed assets/*
var embeddedAssets embed.FS

const pageName = "player.html"

// Handler serves the fixture player at "/".
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", handlePage)
	return mux
}

func handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data, err := fs.ReadFile(embeddedAssets, "assets/"+pageName)
	if err != nil {
		http.Error(w, "fixture not found", http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, r, pageName, time.Time{}, bytes.NewReader(data))
}

// Server is a running fixture listener on the loopback interface.
type Server struct {
	URL string
	srv *http.Server
}

// Start serves the fixture on a free loopback port until Close.
func Start() (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("fixture listen: %w", err)
	}
	srv := &http.Server{Handler: Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = ln.Close()
		}
	}()
	return &Server{URL: "http://" + ln.Addr().String() + "/", srv: srv}, nil
}

// Close stops the listener.
func (s *Server) Close(ctx context.Context) error {
	if s == nil || s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
