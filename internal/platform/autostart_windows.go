//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (service *platformService) EnableAutostart(entry LaunchEntry) error {
	if err := entry.validate(); err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}

	output, err := exec.Command(
		"reg", "add", registryRunKey,
		"/v", entry.Name,
		"/t", "REG_SZ",
		"/d", buildCommandLine(entry),
		"/f",
	).CombinedOutput()
	if err != nil {
		return fmt.Errorf("enable autostart: reg add failed: %w: %s", err, strings.TrimSpace(string(output)))
	}

	return nil
}

func (service *platformService) DisableAutostart(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("disable autostart: %w", ErrInvalidEntry)
	}

	output, err := exec.Command("reg", "delete", registryRunKey, "/v", name, "/f").CombinedOutput()
	if err != nil {
		text := strings.TrimSpace(string(output))
		// reg reports a missing value as an error; treat it as already disabled.
		if strings.Contains(strings.ToLower(text), "unable to find") {
			return nil
		}
		return fmt.Errorf("disable autostart: reg delete failed: %w: %s", err, text)
	}

	return nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}

func buildCommandLine(entry LaunchEntry) string {
	parts := []string{quoteWindowsArg(entry.ExecPath)}
	for _, arg := range entry.Args {
		parts = append(parts, quoteWindowsArg(arg))
	}
	return strings.Join(parts, " ")
}

func quoteWindowsArg(arg string) string {
	trimmed := strings.Trim(arg, `"`)
	if !strings.ContainsAny(trimmed, " \t") && trimmed == arg {
		return arg
	}
	return fmt.Sprintf(`"%s"`, trimmed)
}
