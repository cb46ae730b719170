package platform

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/enderfall/hub/internal/core"
)

const installTimeout = 10 * time.Minute

// Coarse progress milestones for the single-call payload install, where
// the underlying process gives no byte-level feedback.
const (
	payloadProgressStarted   = 0.1
	payloadProgressInstalled = 0.85
	payloadProgressComplete  = 1.0
)

// ExecInstaller runs native installers as child processes.
type ExecInstaller struct {
	// Events receives coarse install progress; nil disables reporting.
	Events chan<- core.ProgressEvent
}

// NewExecInstaller creates an installer. events may be nil.
func NewExecInstaller(events chan<- core.ProgressEvent) *ExecInstaller {
	return &ExecInstaller{Events: events}
}

// RunInstaller invokes an exe-type installer silently and waits for it to
// exit.
func (ei *ExecInstaller) RunInstaller(ctx context.Context, path string, args []string) error {
	cmd := exec.Command(path, args...)
	output, err := runWithTimeout(ctx, cmd, installTimeout)
	if err != nil {
		return core.NewProcessError("running installer",
			fmt.Errorf("%w: %s", err, strings.TrimSpace(output)))
	}
	return nil
}

// InstallPayload performs a single-call silent msi install with inline
// shortcut creation. Progress is coarse: started, installed, complete.
func (ei *ExecInstaller) InstallPayload(ctx context.Context, appID, installerPath string, opts core.MSIPayloadOptions) error {
	if err := os.MkdirAll(opts.InstallDir, 0o755); err != nil {
		return core.NewProcessError("preparing install directory", err)
	}
	ei.emit(appID, payloadProgressStarted)

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("msiexec", "/i", installerPath, "/qn",
			"TARGETDIR="+opts.InstallDir, "INSTALLDIR="+opts.InstallDir)
	} else {
		// Non-Windows hosts have no msi runtime; surface that instead of a
		// confusing exec failure.
		return core.NewProcessError("installing payload",
			fmt.Errorf("msi installs are only supported on windows, not %s", runtime.GOOS))
	}

	output, err := runWithTimeout(ctx, cmd, installTimeout)
	if err != nil {
		return core.NewProcessError("installing payload",
			fmt.Errorf("%w: %s", err, strings.TrimSpace(output)))
	}
	ei.emit(appID, payloadProgressInstalled)

	if opts.CreateDesktopShortcut || opts.CreateStartMenuShortcut {
		exePath := joinExePath(opts.InstallDir, opts.ExeName)
		// Best-effort, consistent with the exe install path.
		_ = ei.CreateShortcuts(exePath, opts.AppName, opts.CreateDesktopShortcut, opts.CreateStartMenuShortcut)
	}

	ei.emit(appID, payloadProgressComplete)
	return nil
}

// Uninstall removes the install directory and any shortcuts that point
// into it.
func (ei *ExecInstaller) Uninstall(_ context.Context, installDir, appName string) error {
	if err := os.RemoveAll(installDir); err != nil {
		return core.NewProcessError("removing install directory", err)
	}
	removeShortcuts(appName)
	return nil
}

func (ei *ExecInstaller) emit(appID string, fraction float64) {
	if ei.Events == nil {
		return
	}
	select {
	case ei.Events <- core.ProgressEvent{AppID: appID, Fraction: fraction}:
	default:
	}
}

// runWithTimeout runs a command with a timeout, returning combined output.
func runWithTimeout(ctx context.Context, cmd *exec.Cmd, timeout time.Duration) (string, error) {
	// exec.CommandContext would be cleaner, but we want the combined output
	done := make(chan struct{})
	var output []byte
	var cmdErr error

	go func() {
		output, cmdErr = cmd.CombinedOutput()
		close(done)
	}()

	select {
	case <-done:
		return string(output), cmdErr
	case <-ctx.Done():
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		return "", ctx.Err()
	case <-time.After(timeout):
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		return "", fmt.Errorf("command timed out after %s", timeout)
	}
}
