package webkitgtk

import (
	"errors"
	"strconv"
	"sync"
	"time"
)

var windowID uint
var windowIDLock sync.Mutex

func getWindowID() uint {
	windowIDLock.Lock()
	defer windowIDLock.Unlock()
	windowID++
	return windowID
}

type WindowOptions struct {
	// Title is the window title.
	Title string

	// URL is loaded into the web view.
	URL string

	// Width is the default width of the window.
	Width int

	// Height is the default height of the window.
	Height int

	// Maximized requests maximization before the window is shown.
	Maximized bool

	// WebkitSettings are applied to the web view. Nil means
	// DefaultWebkitSettings.
	WebkitSettings *WebkitSettings
}

// Window is a toplevel window whose only child is a web view. Destroying the
// window stops the application's main loop; a script calling window.close()
// destroys the window.
type Window struct {
	log     logFunc
	options WindowOptions
	id      uint
	app     *App
	pointer windowPtr
	webview webviewPtr

	destroyed bool
}

// Open creates and shows a window. Call it after Init.
func (a *App) Open(options WindowOptions) (*Window, error) {
	if a.thread == nil {
		return nil, errors.New("application not initialized")
	}
	if options.Width == 0 {
		options.Width = 800
	}
	if options.Height == 0 {
		options.Height = 600
	}
	if options.WebkitSettings == nil {
		settings := DefaultWebkitSettings
		options.WebkitSettings = &settings
	}

	w := &Window{
		app:     a,
		id:      getWindowID(),
		options: options,
	}
	w.log = newLogFunc("window-" + strconv.Itoa(int(w.id)))

	a.thread.InvokeSync(w.create)
	return w, nil
}

func (w *Window) ID() uint {
	return w.id
}

func (w *Window) create() {
	openTime := time.Now()
	w.log("creating window", "id", w.id, "title", w.options.Title)

	w.app.windowsLock.Lock()
	w.app.windows[w.id] = w
	w.app.windowsLock.Unlock()

	// 1. Build the window
	w.pointer = lib.gtk.WindowNew(gtkWindowToplevel)
	lib.gtk.WindowSetTitle(w.pointer, w.options.Title)
	lib.gtk.WindowSetDefaultSize(w.pointer, int32(w.options.Width), int32(w.options.Height))
	if w.options.Maximized {
		lib.gtk.WindowMaximize(w.pointer)
	}

	// 2. Build the web view and point it at the content
	w.webview = lib.webkit.WebViewNew()
	settings := lib.webkit.WebViewGetSettings(w.webview)
	w.options.WebkitSettings.apply(settings)
	lib.webkit.WebViewSetSettings(w.webview, settings)
	if w.options.URL != "" {
		lib.webkit.WebViewLoadUri(w.webview, w.options.URL)
	}

	// 3. The web view is the window's only child and takes the focus
	lib.gtk.ContainerAdd(w.pointer, ptr(w.webview))
	lib.gtk.WidgetGrabFocus(ptr(w.webview))

	w.setupSignalHandlers()

	// 4. Show everything
	lib.gtk.WidgetShowAll(w.pointer)

	w.log("window created", "id", w.id, "url", w.options.URL, "since_open", time.Since(openTime))
}

func (w *Window) setupSignalHandlers() {
	id := w.id
	app := w.app

	handleDestroy := newCallback(func(widget ptr, data ptr) {
		win := app.window(id)
		if win == nil {
			return
		}
		win.destroyed = true
		win.log("window destroyed", "id", id)

		app.windowsLock.Lock()
		delete(app.windows, id)
		windowCount := len(app.windows)
		app.windowsLock.Unlock()

		if windowCount == 0 {
			app.log("last window closed, quitting")
			app.Quit()
		}
	})
	lib.g.SignalConnectData(ptr(w.pointer), "destroy", handleDestroy, 0, 0, 0)

	handleClose := newCallback(func(webview ptr, data ptr) {
		win := app.window(id)
		if win == nil {
			return
		}
		win.log("page requested close", "id", id)
		win.destroy()
	})
	lib.g.SignalConnectData(ptr(w.webview), "close", handleClose, 0, 0, 0)
}

// Reload reloads the web view. Safe from any goroutine.
func (w *Window) Reload() {
	w.app.thread.InvokeAsync(func() {
		if w.destroyed {
			return
		}
		w.log("reloading", "url", w.options.URL)
		lib.webkit.WebViewReload(w.webview)
	})
}

// Destroy destroys the window, which in turn stops the main loop once no
// window is left. Safe from any goroutine.
func (w *Window) Destroy() {
	w.app.thread.InvokeAsync(w.destroy)
}

func (w *Window) destroy() {
	if w.destroyed {
		return
	}
	lib.gtk.WidgetDestroy(w.pointer)
}

// Focus gives the keyboard focus back to the web view.
func (w *Window) Focus() {
	w.app.thread.InvokeAsync(func() {
		if !w.destroyed {
			lib.gtk.WidgetGrabFocus(ptr(w.webview))
		}
	})
}
