package webkitgtk

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/ebitengine/purego"
)

func init() {
	runtime.LockOSThread()
}

// newCallback is replaced in tests.
var newCallback = purego.NewCallback

type AppOptions struct {
	// Name is the human readable application name, e.g. "XSR1".
	Name string

	// ProgramName becomes the X11 WM_CLASS and Wayland app id. Defaults to
	// the base name of Argv0.
	ProgramName string

	// Argv0 is passed to gtk_init as the program path.
	Argv0 string

	// ToolkitArgs are GTK's own command line options, see SplitToolkitArgs.
	ToolkitArgs []string
}

// App is the GTK side of the shell: toolkit initialization, the event loop
// and its windows. Init and Run must be called from the main goroutine.
type App struct {
	log logFunc

	name    string
	prgname string
	argv0   string
	toolkit []string

	thread  *mainThread
	started bool

	windows     map[uint]*Window
	windowsLock sync.RWMutex
}

func New(options AppOptions) *App {
	if options.Name == "" {
		options.Name = "Unnamed Application"
	}
	if options.Argv0 == "" {
		options.Argv0 = os.Args[0]
	}
	if options.ProgramName == "" {
		options.ProgramName = filepath.Base(options.Argv0)
	}
	return &App{
		log:     newLogFunc("app"),
		name:    options.Name,
		prgname: options.ProgramName,
		argv0:   options.Argv0,
		toolkit: options.ToolkitArgs,
		windows: make(map[uint]*Window),
	}
}

// Init loads GTK and WebKit and initializes the toolkit. It fails rather
// than aborting when, for instance, no display can be opened.
func (a *App) Init() error {
	initTime := time.Now()
	a.log("application init...", "name", a.name, "pid", os.Getpid())

	// 1. Fix console spam (USR1)
	if err := os.Setenv("JSC_SIGNAL_FOR_GC", "20"); err != nil {
		return fmt.Errorf("failed to set JSC_SIGNAL_FOR_GC: %w", err)
	}

	// 2. Load shared libraries
	if err := loadSharedLibs(a.log); err != nil {
		return fmt.Errorf("failed to load shared libraries: %w", err)
	}

	// 3. Name the program before the toolkit opens the display
	lib.g.SetPrgname(a.prgname)
	lib.g.SetApplicationName(a.name)

	// 4. Initialize GTK with its own options
	if !initToolkit(a.argv0, a.toolkit) {
		return errors.New("cannot initialize gtk: cannot open display")
	}

	a.thread = newMainThread()
	a.log("application init done", "thread", a.thread.ID(), "since_init", time.Since(initTime))
	return nil
}

// Run blocks in the GTK main loop until Quit.
func (a *App) Run() error {
	defer panicHandlerRecover()
	if a.thread == nil {
		return errors.New("application not initialized")
	}
	if a.started {
		return errors.New("application already running")
	}
	a.started = true

	runTime := time.Now()
	a.log("main loop running")
	lib.gtk.Main() // BLOCKING
	a.log("main loop stopped", "since_run", time.Since(runTime))
	return nil
}

// Quit stops the main loop. Safe from any goroutine.
func (a *App) Quit() {
	a.thread.InvokeAsync(func() {
		if lib.gtk.MainLevel() > 0 {
			a.log("stopping main loop")
			lib.gtk.MainQuit()
		}
	})
}

// InvokeAsync runs fn on the GTK thread.
func (a *App) InvokeAsync(fn func()) {
	a.thread.InvokeAsync(fn)
}

func (a *App) window(id uint) *Window {
	a.windowsLock.RLock()
	defer a.windowsLock.RUnlock()
	return a.windows[id]
}
