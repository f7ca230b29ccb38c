package launcher

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// DefaultExecutable returns the usual install location of the client for goos.
func DefaultExecutable(goos string) string {
	switch goos {
	case "windows":
		return `C:\Program Files\NetEase\CloudMusic\cloudmusic.exe`
	case "darwin":
		return "/Applications/NeteaseMusic.app/Contents/MacOS/NeteaseMusic"
	default:
		return "netease-cloud-music"
	}
}

// ResolveExecutable returns the absolute path of the client binary. A configured path
// that does not exist falls back to the platform default, which may be a bare name
// looked up on PATH.
func ResolveExecutable(configured string) (string, error) {
	candidates := []string{}
	if configured != "" {
		candidates = append(candidates, configured)
	}
	candidates = append(candidates, DefaultExecutable(runtime.GOOS))
	var errs []error
	for _, candidate := range candidates {
		path, err := lookup(candidate)
		if err == nil {
			return path, nil
		}
		errs = append(errs, err)
	}
	return "", fmt.Errorf("music client executable not found: %w", errors.Join(errs...))
}

func lookup(candidate string) (string, error) {
	if filepath.Base(candidate) == candidate {
		return exec.LookPath(candidate)
	}
	info, err := os.Stat(candidate)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", candidate)
	}
	return filepath.Abs(candidate)
}
