package notify

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"go.uber.org/zap"
)

const (
	defaultAppName = "Puzzle"
	defaultTimeout = 10 * time.Second
)

// Notification is a titled message for the desktop user
type Notification struct {
	Title    string
	Body     string
	Icon     string
	Timeout  time.Duration
	Critical bool
}

// Backend delivers notifications through one OS facility
type Backend interface {
	Name() string
	Show(n Notification) error
}

// Options configures the notification sink
type Options struct {
	AppName string
	Icon    string
	Timeout time.Duration
}

// Sink shows notifications through the first backend that works.
// It never fails: errors are logged and swallowed.
type Sink struct {
	backends []Backend
	options  Options
	logger   *zap.Logger
}

// New creates a sink with the backends of the current platform
// followed by beeep as the last resort
func New(opts Options, logger *zap.Logger) *Sink {
	backends := platformBackends(opts)
	backends = append(backends, NewBeeep(opts.AppName))
	return NewSink(opts, logger, backends...)
}

// NewSink creates a sink over explicit backends
func NewSink(opts Options, logger *zap.Logger, backends ...Backend) *Sink {
	if opts.AppName == "" {
		opts.AppName = defaultAppName
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	opts.Icon = resolveIcon(opts.Icon)

	return &Sink{
		backends: backends,
		options:  opts,
		logger:   logger,
	}
}

// Notify implements report.Notifier
func (s *Sink) Notify(title, body string) {
	n := Notification{
		Title:    title,
		Body:     body,
		Icon:     s.options.Icon,
		Timeout:  s.options.Timeout,
		Critical: true,
	}

	for _, backend := range s.backends {
		if err := safeShow(backend, n); err != nil {
			s.logger.Warn("Notification backend failed",
				zap.String("backend", backend.Name()),
				zap.Error(err))
			continue
		}

		s.logger.Info("Notification shown",
			zap.String("backend", backend.Name()),
			zap.String("title", title))
		return
	}

	s.logger.Error("Notification not shown, no backend succeeded",
		zap.String("title", title),
		zap.Int("backends", len(s.backends)))
}

func safeShow(backend Backend, n Notification) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backend panicked: %v", r)
		}
	}()
	return backend.Show(n)
}

var anchorPattern = regexp.MustCompile(`<a\s+href="([^"]*)"\s*>(.*?)</a>`)

// PlainText replaces <a href="url">label</a> with "label (url)" for
// backends that do not render markup
func PlainText(body string) string {
	return anchorPattern.ReplaceAllString(body, "$2 ($1)")
}

// resolveIcon turns a relative path of an existing file into an absolute one.
// Anything else is passed through as an icon name.
func resolveIcon(icon string) string {
	if icon == "" || filepath.IsAbs(icon) {
		return icon
	}
	if _, err := os.Stat(icon); err != nil {
		return icon
	}
	abs, err := filepath.Abs(icon)
	if err != nil {
		return icon
	}
	return abs
}
