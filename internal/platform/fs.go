package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/enderfall/hub/internal/core"
)

// OSFilesystem probes the real filesystem.
type OSFilesystem struct{}

// PathExists reports whether path exists. Permission errors and other
// stat failures are returned so the caller can fail closed.
func (OSFilesystem) PathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// OSLauncher starts installed binaries and dev workspaces as detached
// processes.
type OSLauncher struct{}

// Launch starts the binary at path fire-and-forget, with its working
// directory set next to the executable so relative asset loads resolve.
func (OSLauncher) Launch(path string) error {
	cmd := exec.Command(path)
	cmd.Dir = filepath.Dir(path)
	if err := cmd.Start(); err != nil {
		return core.NewProcessError("launching app", err)
	}
	// Detach: the child outlives the hub process.
	go func() { _ = cmd.Wait() }()
	return nil
}

// RunDev starts a dev workspace command fire-and-forget. On Windows the
// command runs through cmd /c so npm-style shims resolve.
func (OSLauncher) RunDev(workspaceDir string, command []string) error {
	if len(command) == 0 {
		return fmt.Errorf("dev workspace has no command configured")
	}

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		args := append([]string{"/c"}, command...)
		cmd = exec.Command("cmd", args...)
	} else {
		cmd = exec.Command(command[0], command[1:]...)
	}
	cmd.Dir = workspaceDir
	cmd.Env = os.Environ()

	if err := cmd.Start(); err != nil {
		return core.NewProcessError("starting dev workspace", err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// Capabilities reports what this build of the hub can do natively. devBuild
// marks development builds, which unlock dev workspace launching.
func Capabilities(devBuild bool) core.RuntimeCapabilities {
	return core.RuntimeCapabilities{
		CanInvokeNativeInstall: true,
		CanProbeFilesystem:     true,
		IsDevelopmentBuild:     devBuild,
	}
}

// DefaultDataRoot computes the per-user data directory apps install under
// by default.
func DefaultDataRoot() (string, error) {
	if runtime.GOOS == "windows" {
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "Enderfall"), nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "enderfall"), nil
}

// DefaultLocations computes the default install base directory per catalog
// entry under the data root.
func DefaultLocations(catalog []core.AppCatalogEntry, dataRoot string) map[string]string {
	defaults := make(map[string]string, len(catalog))
	for _, entry := range catalog {
		defaults[entry.ID] = filepath.Join(dataRoot, entry.ID)
	}
	return defaults
}

// joinExePath joins an install directory with an executable name, guarding
// the empty name.
func joinExePath(installDir, exeName string) string {
	if exeName == "" {
		return installDir
	}
	return filepath.Join(installDir, exeName)
}
