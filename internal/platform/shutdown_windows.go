//go:build windows

package platform

import "os"

// Windows does not reliably deliver SIGTERM to console apps, so only Ctrl+C is watched.
var shutdownSignals = []os.Signal{os.Interrupt}
