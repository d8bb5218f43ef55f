// Package shell opens the game window and runs it until the user closes it.
package shell

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xsr1/xsr1-gtk/internal/config"
	"github.com/xsr1/xsr1-gtk/internal/content"
	"github.com/xsr1/xsr1-gtk/internal/screensaver"
	"github.com/xsr1/xsr1-gtk/internal/webkitgtk"
)

// Title is the window title and the application name.
const Title = "XSR1"

type Options struct {
	Argv0       string
	ToolkitArgs []string

	// ContentPath is the located index.html; StartURL is derived from it.
	ContentPath string

	Config config.Config
}

// Runtime is the slice of the GUI toolkit the shell drives.
type Runtime interface {
	Init() error
	Open(webkitgtk.WindowOptions) (*webkitgtk.Window, error)
	Run() error
}

// Inhibitor keeps the screensaver off while the game runs.
type Inhibitor interface {
	Inhibit(ctx context.Context, reason string) error
	Close() error
}

// Shell wires the window, the optional content watcher and the optional
// screensaver inhibitor around one run of the event loop.
type Shell struct {
	opts Options
	log  *zap.Logger

	newRuntime   func(webkitgtk.AppOptions) Runtime
	newInhibitor func() Inhibitor
}

func New(opts Options, logger *zap.Logger) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shell{
		opts: opts,
		log:  logger.Named("shell"),
		newRuntime: func(o webkitgtk.AppOptions) Runtime {
			return webkitgtk.New(o)
		},
		newInhibitor: func() Inhibitor {
			return screensaver.New(Title, logger)
		},
	}
}

// StartURL is the URL loaded into the web view.
func (s *Shell) StartURL() string {
	return content.StartURL(s.opts.ContentPath)
}

// WindowOptions maps the configuration onto the game window.
func (s *Shell) WindowOptions() webkitgtk.WindowOptions {
	cfg := s.opts.Config
	settings := webkitgtk.DefaultWebkitSettings
	settings.EnableDeveloperExtras = cfg.Webkit.DeveloperExtras
	settings.EnableWebgl = cfg.Webkit.WebGL
	settings.EnableWebAudio = cfg.Webkit.WebAudio
	return webkitgtk.WindowOptions{
		Title:          Title,
		URL:            s.StartURL(),
		Width:          cfg.Window.Width,
		Height:         cfg.Window.Height,
		Maximized:      cfg.Window.Maximized,
		WebkitSettings: &settings,
	}
}

// Run blocks until the window is closed. The returned error means the
// toolkit could not be brought up; a normal close returns nil.
func (s *Shell) Run(ctx context.Context) error {
	rt := s.newRuntime(webkitgtk.AppOptions{
		Name:        Title,
		Argv0:       s.opts.Argv0,
		ToolkitArgs: s.opts.ToolkitArgs,
	})
	if err := rt.Init(); err != nil {
		return err
	}

	win, err := rt.Open(s.WindowOptions())
	if err != nil {
		return fmt.Errorf("open window: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.opts.Config.ReloadOnChange {
		if stop, err := s.watch(ctx, win.Reload); err != nil {
			s.log.Warn("content watcher disabled", zap.Error(err))
		} else {
			defer stop()
		}
	}

	if s.opts.Config.InhibitScreensaver {
		inh := s.newInhibitor()
		if err := inh.Inhibit(ctx, "Playing "+Title); err != nil {
			s.log.Info("screensaver not inhibited", zap.Error(err))
		}
		defer func() {
			if err := inh.Close(); err != nil {
				s.log.Info("screensaver release failed", zap.Error(err))
			}
		}()
	}

	s.log.Debug("running", zap.String("url", s.StartURL()))
	return rt.Run()
}

func (s *Shell) watch(ctx context.Context, reload func()) (stop func(), err error) {
	w, err := content.NewWatcher(s.opts.ContentPath, reload, s.log)
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return nil, err
	}
	return w.Stop, nil
}
