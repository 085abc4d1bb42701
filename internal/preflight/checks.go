package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"wavehunterctl/internal/daemonclient"
)

// DaemonPinger is the slice of the daemon client the reachability check needs.
type DaemonPinger interface {
	AnalysisStatus(ctx context.Context) (daemonclient.AnalysisStatus, error)
}

// CheckDaemon verifies that the device daemon answers an analysis status
// request. It uses a 5-second timeout and a single attempt.
func CheckDaemon(ctx context.Context, baseURL string, daemon DaemonPinger) Result {
	const name = "Daemon"

	base := strings.TrimSpace(baseURL)
	if base == "" {
		return Result{Name: name, Detail: "missing base url"}
	}
	if daemon == nil {
		return Result{Name: name, Detail: "client unavailable"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := daemon.AnalysisStatus(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeDaemonError(base, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (reachable)", base)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// summarizeDaemonError produces a human-readable summary for daemon check failures.
func summarizeDaemonError(base string, err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("%s (timed out, daemon unresponsive)", base)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Sprintf("%s (timed out, daemon unreachable)", base)
	}
	var statusErr *daemonclient.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("%s (daemon returned %d)", base, statusErr.Code)
	}
	return fmt.Sprintf("%s (%v)", base, err)
}
