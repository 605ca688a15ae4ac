//go:build !windows && !darwin

package notify

func platformBackends(opts Options) []Backend {
	return []Backend{NewDBus(opts.AppName)}
}
