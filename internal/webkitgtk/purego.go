package webkitgtk

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/ebitengine/purego"
)

type (
	ptr               uintptr
	webkitSettingsPtr uintptr
	webviewPtr        uintptr
	windowPtr         uintptr
)

const (
	gSourceRemove int = 0

	gtkWindowToplevel = 0
)

// Searched in order; the first complete set wins.
var libs = [][]string{
	{"gtk-3", "webkit2gtk-4.1"},
	{"gtk-3", "webkit2gtk-4.0"},
}

var lib struct {
	Version int
	Paths   []string

	GTK    uintptr
	Webkit uintptr

	g struct {
		IdleAdd            func(uintptr, ptr) uint
		SetApplicationName func(string)
		SetPrgname         func(string)
		SignalConnectData  func(ptr, string, uintptr, ptr, ptr, int) uint64
		ThreadSelf         func() uint64
	}
	gtk struct {
		ContainerAdd         func(windowPtr, ptr)
		InitCheck            func(*int32, ***byte) bool
		Main                 func()
		MainLevel            func() uint
		MainQuit             func()
		WidgetDestroy        func(windowPtr)
		WidgetGrabFocus      func(ptr)
		WidgetShowAll        func(windowPtr)
		WindowMaximize       func(windowPtr)
		WindowNew            func(int) windowPtr
		WindowSetDefaultSize func(windowPtr, int32, int32)
		WindowSetTitle       func(windowPtr, string)
	}
	webkitSettings struct {
		SetAllowFileAccessFromFileUrls           func(webkitSettingsPtr, bool)
		SetAllowModalDialogs                     func(webkitSettingsPtr, bool)
		SetAutoLoadImages                        func(webkitSettingsPtr, bool)
		SetDefaultCharset                        func(webkitSettingsPtr, string)
		SetEnableDeveloperExtras                 func(webkitSettingsPtr, bool)
		SetEnableFullscreen                      func(webkitSettingsPtr, bool)
		SetEnableHtml5Database                   func(webkitSettingsPtr, bool)
		SetEnableHtml5LocalStorage               func(webkitSettingsPtr, bool)
		SetEnableJavascript                      func(webkitSettingsPtr, bool)
		SetEnableMedia                           func(webkitSettingsPtr, bool)
		SetEnableSmoothScrolling                 func(webkitSettingsPtr, bool)
		SetEnableWebaudio                        func(webkitSettingsPtr, bool)
		SetEnableWebgl                           func(webkitSettingsPtr, bool)
		SetEnableWriteConsoleMessagesToStdout    func(webkitSettingsPtr, bool)
		SetJavascriptCanOpenWindowsAutomatically func(webkitSettingsPtr, bool)
		SetMediaPlaybackRequiresUserGesture      func(webkitSettingsPtr, bool)
	}
	webkit struct {
		WebViewGetSettings func(webviewPtr) webkitSettingsPtr
		WebViewLoadUri     func(webviewPtr, string)
		WebViewNew         func() webviewPtr
		WebViewReload      func(webviewPtr)
		WebViewSetSettings func(webviewPtr, webkitSettingsPtr)
	}
}

var symbolCase = regexp.MustCompile(`(\p{Lu}\P{Lu}*)`)

// symbolName maps a struct field to its C symbol: WindowSetTitle with prefix
// gtk becomes gtk_window_set_title. A `name` tag wins.
func symbolName(prefix string, field reflect.StructField) string {
	if name := field.Tag.Get("name"); name != "" {
		return name
	}
	return prefix + strings.ToLower(symbolCase.ReplaceAllString(field.Name, "_${1}"))
}

func registerFunctions(lib uintptr, prefix string, v interface{}) error {
	if reflect.TypeOf(v).Kind() != reflect.Pointer {
		return fmt.Errorf("v must be a struct pointer")
	}
	vElem := reflect.ValueOf(v).Elem()
	if vElem.Kind() != reflect.Struct {
		return fmt.Errorf("v must be a struct pointer")
	}
	vType := vElem.Type()
	for i := 0; i < vElem.NumField(); i++ {
		field := vElem.Field(i)
		if field.Kind() != reflect.Func {
			continue
		}
		name := symbolName(prefix, vType.Field(i))
		sym, err := purego.Dlsym(lib, name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		purego.RegisterFunc(field.Addr().Interface(), sym)
	}
	return nil
}

func getLibTarget() (string, error) {
	switch runtime.GOOS + "/" + runtime.GOARCH {
	case "linux/amd64":
		return "x86_64-linux-gnu", nil
	case "linux/arm64":
		return "aarch64-linux-gnu", nil
	case "linux/386":
		return "i386-linux-gnu", nil
	case "linux/arm":
		return "arm-linux-gnueabihf", nil
	case "freebsd/amd64":
		return "x86_64-unknown-freebsd", nil
	case "freebsd/arm64":
		return "aarch64-unknown-freebsd", nil
	default:
		return "", fmt.Errorf("unsupported platform: %s/%s", runtime.GOOS, runtime.GOARCH)
	}
}

// libDirs lists the directories searched for shared libraries, multiarch
// directories first.
func libDirs(target string) []string {
	return []string{
		"/lib/" + target,
		"/lib64/" + target,
		"/usr/lib/" + target,
		"/usr/lib64/" + target,
		"/usr/local/lib64/" + target,
		"/usr/local/lib/" + target,
		"/usr/lib64",
		"/usr/lib",
		"/usr/local/lib",
	}
}

// findSharedLib returns one path per name, or nil unless all names resolve.
// An unversioned lib<name>.so is preferred over versioned ones.
func findSharedLib(dirs []string, names []string) []string {
	var paths []string
	for _, name := range names {
		for _, libDir := range dirs {
			if info, err := os.Stat(libDir); err != nil || !info.IsDir() {
				continue
			}
			libPath := filepath.Join(libDir, "lib"+name+".so")
			if info, err := os.Stat(libPath); err == nil && !info.IsDir() {
				paths = append(paths, libPath)
				break
			}
			matches, err := filepath.Glob(libPath + ".*")
			if err != nil || len(matches) == 0 {
				continue
			}
			paths = append(paths, matches[0])
			break
		}
	}
	if len(paths) != len(names) {
		return nil
	}
	return paths
}

func loadSharedLibs(log logFunc) error {
	if lib.GTK != 0 {
		return nil
	}
	log("loading shared libraries", "GOOS", runtime.GOOS, "GOARCH", runtime.GOARCH)
	loadTime := time.Now()

	// 1. Locate shared libraries
	target, err := getLibTarget()
	if err != nil {
		return err
	}
	dirs := libDirs(target)
	var libPaths []string
	for i, names := range libs {
		log("locating shared libraries", "target", target, "libs", names)
		if paths := findSharedLib(dirs, names); paths != nil {
			libPaths = paths
			lib.Version = i
			break
		}
	}
	if libPaths == nil {
		return fmt.Errorf("unable to locate gtk-3 and webkit2gtk for %s", target)
	}

	// 2. Load shared libraries
	log("loading gtk library", "path", libPaths[0])
	gtk, err := purego.Dlopen(libPaths[0], purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return fmt.Errorf("unable to load gtk library: %w", err)
	}
	log("loading webkit library", "path", libPaths[1])
	webkit, err := purego.Dlopen(libPaths[1], purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return fmt.Errorf("unable to load webkit library: %w", err)
	}

	// 3. Register functions
	if err := registerFunctions(gtk, "g", &lib.g); err != nil {
		return fmt.Errorf("unable to register g functions: %w", err)
	}
	if err := registerFunctions(gtk, "gtk", &lib.gtk); err != nil {
		return fmt.Errorf("unable to register gtk functions: %w", err)
	}
	if err := registerFunctions(webkit, "webkit", &lib.webkit); err != nil {
		return fmt.Errorf("unable to register webkit functions: %w", err)
	}
	if err := registerFunctions(webkit, "webkit_settings", &lib.webkitSettings); err != nil {
		return fmt.Errorf("unable to register webkit_settings functions: %w", err)
	}

	lib.GTK, lib.Webkit, lib.Paths = gtk, webkit, libPaths
	log("shared libraries loaded", "in", time.Since(loadTime), "paths", libPaths)
	return nil
}
