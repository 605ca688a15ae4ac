package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/pzl-reminder/internal/config"
	"github.com/username/pzl-reminder/internal/lock"
	"github.com/username/pzl-reminder/internal/puzzle"
	"github.com/username/pzl-reminder/internal/report"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type countingFetcher struct {
	calls int
	err   error
}

func (f *countingFetcher) FetchRecords(context.Context, string) ([]report.Record, error) {
	f.calls++
	return nil, f.err
}

type countingNotifier struct {
	calls int
}

func (n *countingNotifier) Notify(string, string) {
	n.calls++
}

func TestRunGuarded_LockHeldSkipsWork(t *testing.T) {
	path := filepath.Join(t.TempDir(), lock.FileName)
	holder := lock.New(path, 0)
	ok, err := holder.TryAcquire()
	require.NoError(t, err)
	require.True(t, ok)
	defer holder.Release()

	fetcher := &countingFetcher{}
	notifier := &countingNotifier{}
	checker := report.NewChecker(fetcher, notifier, nil, "ivanov", "link", zap.NewNop())

	ran := runGuarded(context.Background(), lock.New(path, 0), checker, zap.NewNop())

	assert.False(t, ran)
	assert.Zero(t, fetcher.calls)
	assert.Zero(t, notifier.calls)
}

func TestRunGuarded_RunsAndReleases(t *testing.T) {
	path := filepath.Join(t.TempDir(), lock.FileName)
	fetcher := &countingFetcher{err: errors.New("offline")}
	checker := report.NewChecker(fetcher, &countingNotifier{}, nil, "ivanov", "link", zap.NewNop())

	ran := runGuarded(context.Background(), lock.New(path, 0), checker, zap.NewNop())
	require.True(t, ran)
	assert.Equal(t, 1, fetcher.calls)

	// Released: the next run acquires again
	ran = runGuarded(context.Background(), lock.New(path, 0), checker, zap.NewNop())
	assert.True(t, ran)
	assert.Equal(t, 2, fetcher.calls)
}

func TestRunGuarded_MalformedEndpointStillNotifies(t *testing.T) {
	if time.Now().Day() == 1 {
		t.Skip("the checked range is empty on the first day of the month")
	}
	path := filepath.Join(t.TempDir(), lock.FileName)
	client := puzzle.NewClient("puzzle.example.com/api/graphql", time.Second, zap.NewNop())
	notifier := &countingNotifier{}
	checker := report.NewChecker(client, notifier, nil, "ivanov", puzzle.ReportsURL("puzzle.example.com/api/graphql"), zap.NewNop())

	ran := runGuarded(context.Background(), lock.New(path, 0), checker, zap.NewNop())

	assert.True(t, ran)
	assert.Equal(t, 1, notifier.calls)
}

func TestRunGuarded_LockFaultIsSilent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", lock.FileName)
	fetcher := &countingFetcher{}
	checker := report.NewChecker(fetcher, &countingNotifier{}, nil, "ivanov", "link", zap.NewNop())

	ran := runGuarded(context.Background(), lock.New(path, 0), checker, zap.NewNop())

	assert.False(t, ran)
	assert.Zero(t, fetcher.calls)
}

func TestNewLogger_File(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "reminder.log")

	logger, err := newLogger(config.LogConfig{File: logFile, Level: "debug"})
	require.NoError(t, err)
	logger.Info("Hello")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"Hello"`)
	assert.Contains(t, string(data), `"timestamp"`)
}

func TestNewLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	logger, err := newLogger(config.LogConfig{Level: "loud"})
	require.NoError(t, err)

	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
