package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcherRunsHandlerOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	target := filepath.Join(dir, "model.nt")
	other := filepath.Join(dir, "other.nt")
	require.NoError(t, os.WriteFile(target, []byte("a\n"), 0o644))

	changed := make(chan string, 4)
	w, err := New([]string{target}, func(_ context.Context, path string) error {
		select {
		case changed <- path:
		default:
		}
		return nil
	}, WithDebounce(30*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, os.WriteFile(other, []byte("ignored\n"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("b\n"), 0o644))

	select {
	case path := <-changed:
		abs, _ := filepath.Abs(target)
		assert.Equal(t, abs, path)
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}
	w.Stop()

	stats := w.Stats()
	assert.GreaterOrEqual(t, stats.Runs, 1)
	assert.Equal(t, 0, stats.Errors)
}

func TestWatcherCountsHandlerErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	target := filepath.Join(t.TempDir(), "model.nt")
	require.NoError(t, os.WriteFile(target, nil, 0o644))

	called := make(chan struct{}, 4)
	w, err := New([]string{target}, func(context.Context, string) error {
		select {
		case called <- struct{}{}:
		default:
		}
		return errors.New("boom")
	}, WithDebounce(30*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))
	select {
	case <-called:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}
	w.Stop()
	assert.GreaterOrEqual(t, w.Stats().Errors, 1)
}

func TestWatcherStopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	target := filepath.Join(t.TempDir(), "model.nt")
	w, err := New([]string{target}, func(context.Context, string) error { return nil })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()
	w.Stop()
}

func TestStopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := New([]string{filepath.Join(t.TempDir(), "x.nt")}, func(context.Context, string) error { return nil })
	require.NoError(t, err)
	w.Stop()
}
