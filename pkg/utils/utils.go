// pkg/utils/utils.go
package utils

import (
	"fmt"
	"net"
	"time"

	"mcpmanager/internal/constants"
)

// FreePort asks the OS for an unused TCP port on localhost
func FreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {

		return 0, fmt.Errorf("failed to resolve localhost: %w", err)
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {

		return 0, fmt.Errorf("failed to allocate port: %w", err)
	}
	defer func() { _ = l.Close() }()

	return l.Addr().(*net.TCPAddr).Port, nil
}

// FormatDuration formats a duration in a human-readable format
func FormatDuration(d time.Duration) string {
	if d.Hours() > constants.HoursInDay {
		days := int(d.Hours() / constants.HoursInDay)

		return fmt.Sprintf("%d days", days)
	}

	if d.Hours() >= 1 {

		return fmt.Sprintf("%.1f hours", d.Hours())
	}

	if d.Minutes() >= 1 {

		return fmt.Sprintf("%.1f minutes", d.Minutes())
	}

	if d.Seconds() >= 1 {

		return fmt.Sprintf("%.1f seconds", d.Seconds())
	}

	return "less than a second"
}
