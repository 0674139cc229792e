package constants

import "time"

const (
	// Health probe timeouts
	DefaultPortProbeTimeout   = 2 * time.Second
	DefaultHTTPHealthTimeout  = 5 * time.Second
	DefaultStdioHealthTimeout = 10 * time.Second

	// Container boot polling
	BootPollAttempts = 10
	BootPollInterval = 1 * time.Second

	// Docker daemon startup polling (darwin only)
	DaemonPollAttempts = 30
	DaemonPollInterval = 2 * time.Second

	// Endpoint defaults
	DefaultHTTPPort = 9000
	DefaultSSEPath  = "/sse"

	// Status watch debounce
	WatchDebounce = 250 * time.Millisecond

	// File permissions
	DefaultFileMode = 0644
	DefaultDirMode  = 0755

	// Time constants
	HoursInDay = 24

	// Container ID display
	ContainerIDDisplayLength = 12

	// Log tail length fetched after a failed start
	FailureLogTailLines = 50
)
