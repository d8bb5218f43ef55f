package shell

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xsr1/xsr1-gtk/internal/config"
	"github.com/xsr1/xsr1-gtk/internal/webkitgtk"
)

type fakeRuntime struct {
	appOpts webkitgtk.AppOptions
	initErr error
	opened  []webkitgtk.WindowOptions
	steps   []string
}

func (f *fakeRuntime) Init() error {
	f.steps = append(f.steps, "init")
	return f.initErr
}

func (f *fakeRuntime) Open(o webkitgtk.WindowOptions) (*webkitgtk.Window, error) {
	f.steps = append(f.steps, "open")
	f.opened = append(f.opened, o)
	return nil, nil
}

func (f *fakeRuntime) Run() error {
	f.steps = append(f.steps, "run")
	return nil
}

type fakeInhibitor struct {
	inhibited atomic.Bool
	closed    atomic.Bool
	err       error
}

func (f *fakeInhibitor) Inhibit(ctx context.Context, reason string) error {
	f.inhibited.Store(true)
	return f.err
}

func (f *fakeInhibitor) Close() error {
	f.closed.Store(true)
	return nil
}

func newTestShell(opts Options) (*Shell, *fakeRuntime, *fakeInhibitor) {
	rt := &fakeRuntime{}
	inh := &fakeInhibitor{}
	s := New(opts, nil)
	s.newRuntime = func(o webkitgtk.AppOptions) Runtime {
		rt.appOpts = o
		return rt
	}
	s.newInhibitor = func() Inhibitor { return inh }
	return s, rt, inh
}

func TestStartURL(t *testing.T) {
	s := New(Options{ContentPath: "/home/me/xsr1/index.html"}, nil)
	assert.Equal(t, "file:///home/me/xsr1/index.html", s.StartURL())
}

func TestWindowOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Webkit.DeveloperExtras = true
	cfg.Webkit.WebAudio = false

	s := New(Options{ContentPath: "/opt/xsr1/index.html", Config: cfg}, nil)
	o := s.WindowOptions()

	assert.Equal(t, "XSR1", o.Title)
	assert.Equal(t, "file:///opt/xsr1/index.html", o.URL)
	assert.Equal(t, 800, o.Width)
	assert.Equal(t, 600, o.Height)
	assert.True(t, o.Maximized)
	require.NotNil(t, o.WebkitSettings)
	assert.True(t, o.WebkitSettings.EnableDeveloperExtras)
	assert.False(t, o.WebkitSettings.EnableWebAudio)
	assert.True(t, o.WebkitSettings.EnableJavascript)
}

func TestRun(t *testing.T) {
	cfg := config.Default()
	s, rt, inh := newTestShell(Options{
		Argv0:       "./xsr1-gtk",
		ToolkitArgs: []string{"--display", ":1"},
		ContentPath: "/opt/xsr1/index.html",
		Config:      cfg,
	})

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, []string{"init", "open", "run"}, rt.steps)
	assert.Equal(t, "XSR1", rt.appOpts.Name)
	assert.Equal(t, "./xsr1-gtk", rt.appOpts.Argv0)
	assert.Equal(t, []string{"--display", ":1"}, rt.appOpts.ToolkitArgs)
	require.Len(t, rt.opened, 1)
	assert.Equal(t, "file:///opt/xsr1/index.html", rt.opened[0].URL)
	assert.True(t, inh.inhibited.Load())
	assert.True(t, inh.closed.Load())
}

func TestRunInitFailure(t *testing.T) {
	s, rt, inh := newTestShell(Options{Config: config.Default()})
	rt.initErr = errors.New("cannot open display")

	err := s.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"init"}, rt.steps)
	assert.False(t, inh.inhibited.Load())
}

func TestRunInhibitorOptional(t *testing.T) {
	cfg := config.Default()
	cfg.InhibitScreensaver = false
	s, rt, inh := newTestShell(Options{Config: cfg})

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, []string{"init", "open", "run"}, rt.steps)
	assert.False(t, inh.inhibited.Load())
}

func TestRunInhibitorFailureIsNotFatal(t *testing.T) {
	s, rt, inh := newTestShell(Options{Config: config.Default()})
	inh.err = errors.New("no screensaver")

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, []string{"init", "open", "run"}, rt.steps)
	assert.True(t, inh.closed.Load())
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	index := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(index, []byte("x"), 0o644))

	s := New(Options{ContentPath: index}, nil)
	var reloads atomic.Int32
	stop, err := s.watch(context.Background(), func() { reloads.Add(1) })
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(index, []byte("y"), 0o644))
	require.Eventually(t, func() bool { return reloads.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)
}

func TestWatchMissingDirectory(t *testing.T) {
	s := New(Options{ContentPath: filepath.Join(t.TempDir(), "gone", "index.html")}, nil)
	_, err := s.watch(context.Background(), func() {})
	assert.Error(t, err)
}
