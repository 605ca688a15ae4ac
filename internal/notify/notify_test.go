package notify

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeBackend struct {
	name  string
	err   error
	panic bool
	shown []Notification
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Show(n Notification) error {
	if f.panic {
		panic("display exploded")
	}
	f.shown = append(f.shown, n)
	return f.err
}

func TestSink_FirstBackendWins(t *testing.T) {
	first := &fakeBackend{name: "first"}
	second := &fakeBackend{name: "second"}
	sink := NewSink(Options{Icon: "puzzle-icon"}, zap.NewNop(), first, second)

	sink.Notify("title", "body")

	require.Len(t, first.shown, 1)
	assert.Empty(t, second.shown)
	n := first.shown[0]
	assert.Equal(t, "title", n.Title)
	assert.Equal(t, "body", n.Body)
	assert.Equal(t, "puzzle-icon", n.Icon)
	assert.Equal(t, 10*time.Second, n.Timeout)
	assert.True(t, n.Critical)
}

func TestSink_FallsBackOnError(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	broken := &fakeBackend{name: "broken", err: errors.New("no daemon")}
	working := &fakeBackend{name: "working"}
	sink := NewSink(Options{}, zap.New(core), broken, working)

	sink.Notify("title", "body")

	assert.Len(t, working.shown, 1)
	assert.Equal(t, 1, logs.FilterMessage("Notification backend failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("Notification shown").Len())
}

func TestSink_RecoversFromPanic(t *testing.T) {
	panicking := &fakeBackend{name: "panicking", panic: true}
	working := &fakeBackend{name: "working"}
	sink := NewSink(Options{}, zap.NewNop(), panicking, working)

	assert.NotPanics(t, func() { sink.Notify("title", "body") })
	assert.Len(t, working.shown, 1)
}

func TestSink_AllBackendsFail(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sink := NewSink(Options{}, zap.New(core),
		&fakeBackend{name: "a", err: errors.New("a")},
		&fakeBackend{name: "b", panic: true},
	)

	assert.NotPanics(t, func() { sink.Notify("title", "body") })
	assert.Equal(t, 1, logs.FilterMessage("Notification not shown, no backend succeeded").Len())
}

func TestSink_NoBackends(t *testing.T) {
	sink := NewSink(Options{}, zap.NewNop())

	assert.NotPanics(t, func() { sink.Notify("title", "body") })
}

func TestPlainText(t *testing.T) {
	body := "ivanov\n<a href=\"https://puzzle.example.com/reports\">Puzzle reports</a>\n2024-03-04: нет отчета\n"

	got := PlainText(body)

	assert.Equal(t, "ivanov\nPuzzle reports (https://puzzle.example.com/reports)\n2024-03-04: нет отчета\n", got)
	assert.Equal(t, "no markup", PlainText("no markup"))
}

func TestResolveIcon(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	require.NoError(t, os.WriteFile("puzzle.png", []byte("png"), 0o644))

	resolved := resolveIcon("puzzle.png")
	assert.True(t, filepath.IsAbs(resolved))
	assert.Equal(t, "puzzle.png", filepath.Base(resolved))

	assert.Equal(t, "dialog-warning", resolveIcon("dialog-warning"))
	assert.Equal(t, "", resolveIcon(""))
}

func TestDBus_NotifyArgs(t *testing.T) {
	backend := NewDBus("")

	args := backend.notifyArgs(Notification{
		Title:    "title",
		Body:     "body",
		Icon:     "puzzle.png",
		Timeout:  10 * time.Second,
		Critical: true,
	})

	require.Len(t, args, 8)
	assert.Equal(t, "Puzzle", args[0])
	assert.Equal(t, uint32(0), args[1])
	assert.Equal(t, "puzzle.png", args[2])
	assert.Equal(t, "title", args[3])
	assert.Equal(t, "body", args[4])
	assert.Equal(t, []string{}, args[5])
	hints, ok := args[6].(map[string]dbus.Variant)
	require.True(t, ok)
	assert.Equal(t, urgencyCritical, hints["urgency"].Value())
	assert.Equal(t, int32(10000), args[7])
}

func TestBackendNames(t *testing.T) {
	assert.Equal(t, "dbus", NewDBus("x").Name())
	assert.Equal(t, "beeep", NewBeeep("").Name())
}
