package launcher

import (
	"fmt"
	"net"
)

// FreePort asks the kernel for an unused TCP port on host.
func FreePort(host string) (int, error) {
	ln, err := net.Listen("tcp", net.JoinHostPort(host, "0"))
	if err != nil {
		return 0, fmt.Errorf("find free port: %w", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port, nil
}

// ChoosePort returns a free port when dynamic is set, otherwise the static port.
func ChoosePort(host string, dynamic bool, static int) (int, error) {
	if dynamic {
		return FreePort(host)
	}
	if static <= 0 || static > 65535 {
		return 0, fmt.Errorf("invalid static debugging port %d", static)
	}
	return static, nil
}
