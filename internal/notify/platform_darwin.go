//go:build darwin

package notify

// beeep drives osascript on macOS, nothing else to add
func platformBackends(_ Options) []Backend {
	return nil
}
