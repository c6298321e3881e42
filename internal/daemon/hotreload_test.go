package daemon

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/dwmstatus/internal/config"
)

type reloadRecorder struct {
	mu      sync.Mutex
	configs []*config.Config
	errs    []error
}

func (r *reloadRecorder) onReload(c *config.Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs = append(r.configs, c)
}

func (r *reloadRecorder) onError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *reloadRecorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.configs), len(r.errs)
}

func startWatcher(t *testing.T, path string) (*ConfigWatcher, *reloadRecorder) {
	t.Helper()

	rec := &reloadRecorder{}
	w := NewConfigWatcher(path, nil)
	w.SetDebounce(10 * time.Millisecond)
	w.SetReloadCallback(rec.onReload)
	w.SetErrorCallback(rec.onError)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx, config.DefaultConfig()))
	t.Cleanup(func() {
		w.Stop()
		cancel()
	})
	return w, rec
}

func TestConfigWatcher_ReloadsValidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dwmstatus.toml")
	w, rec := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("[network]\nwired = \"eth0\"\n"), 0644))

	require.Eventually(t, func() bool {
		ok, _ := rec.counts()
		return ok >= 1
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, "eth0", w.CurrentConfig().Network.Wired)
}

func TestConfigWatcher_InvalidConfigKeepsCurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dwmstatus.toml")
	w, rec := startWatcher(t, path)
	initial := w.CurrentConfig()

	require.NoError(t, os.WriteFile(path, []byte("[audio]\nbackend = \"alsa\"\n"), 0644))

	require.Eventually(t, func() bool {
		_, bad := rec.counts()
		return bad >= 1
	}, 2*time.Second, 5*time.Millisecond)

	ok, _ := rec.counts()
	assert.Zero(t, ok)
	assert.Same(t, initial, w.CurrentConfig())
}

func TestConfigWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dwmstatus.toml")
	_, rec := startWatcher(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1\n"), 0644))
	time.Sleep(50 * time.Millisecond)

	ok, bad := rec.counts()
	assert.Zero(t, ok)
	assert.Zero(t, bad)
}

func TestConfigWatcher_AtomicSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dwmstatus.toml")
	w, rec := startWatcher(t, path)

	cfg := config.DefaultConfig()
	cfg.Fields.Separator = " | "
	require.NoError(t, cfg.Save(path))

	require.Eventually(t, func() bool {
		ok, _ := rec.counts()
		return ok >= 1
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, " | ", w.CurrentConfig().Fields.Separator)
}

func TestConfigWatcher_StartMissingDir(t *testing.T) {
	w := NewConfigWatcher("/nonexistent/dir/dwmstatus.toml", nil)
	assert.Error(t, w.Start(context.Background(), config.DefaultConfig()))
	w.Stop()
}
