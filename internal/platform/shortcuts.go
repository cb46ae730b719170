package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

// shortcutGroupDir is the start-menu folder shortcuts are grouped under.
const shortcutGroupDir = "Enderfall"

// CreateShortcuts writes desktop and start-menu shortcuts for exePath.
// Best-effort by contract: callers log and continue on error. Only
// supported on Windows; elsewhere it is a silent no-op.
func (ei *ExecInstaller) CreateShortcuts(exePath, appName string, desktop, startMenu bool) error {
	if runtime.GOOS != "windows" {
		return nil
	}

	var firstErr error
	if desktop {
		if err := createShortcut(desktopShortcutPath(appName), exePath); err != nil {
			firstErr = err
		}
	}
	if startMenu {
		if err := createShortcut(startMenuShortcutPath(appName), exePath); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// createShortcut shells out to PowerShell's WScript.Shell COM wrapper, the
// only stock way to write a .lnk without cgo.
func createShortcut(lnkPath, targetPath string) error {
	if err := os.MkdirAll(filepath.Dir(lnkPath), 0o755); err != nil {
		return fmt.Errorf("creating shortcut directory: %w", err)
	}

	script := fmt.Sprintf(
		`$s = (New-Object -ComObject WScript.Shell).CreateShortcut(%s); $s.TargetPath = %s; $s.WorkingDirectory = %s; $s.Save()`,
		psQuote(lnkPath), psQuote(targetPath), psQuote(filepath.Dir(targetPath)))

	cmd := exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("creating shortcut %s: %w: %s", lnkPath, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// removeShortcuts deletes the desktop and start-menu shortcuts for an app,
// ignoring paths that were never created.
func removeShortcuts(appName string) {
	if runtime.GOOS != "windows" {
		return
	}
	for _, lnk := range []string{desktopShortcutPath(appName), startMenuShortcutPath(appName)} {
		if err := os.Remove(lnk); err != nil && !os.IsNotExist(err) {
			log.Debug("shortcut removal failed", "path", lnk, "err", err)
		}
	}
}

func desktopShortcutPath(appName string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, "Desktop", appName+".lnk")
}

func startMenuShortcutPath(appName string) string {
	appData := os.Getenv("APPDATA")
	if appData == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		appData = filepath.Join(home, "AppData", "Roaming")
	}
	return filepath.Join(appData, "Microsoft", "Windows", "Start Menu", "Programs",
		shortcutGroupDir, appName+".lnk")
}

// psQuote single-quotes a string for PowerShell, escaping embedded quotes.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
