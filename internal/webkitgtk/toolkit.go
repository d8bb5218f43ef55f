package webkitgtk

import (
	"runtime"
	"strings"
)

// Options understood by gtk_init on GTK 3, with whether they take a value.
var toolkitOptions = map[string]bool{
	"--class":            true,
	"--name":             true,
	"--display":          true,
	"--gdk-debug":        true,
	"--gdk-no-debug":     true,
	"--gtk-module":       true,
	"--gtk-debug":        true,
	"--gtk-no-debug":     true,
	"--g-fatal-warnings": false,
	"--sync":             false,
}

// SplitToolkitArgs separates the options GTK consumes itself from the
// program's own arguments. Both the "--opt value" and "--opt=value" forms
// are recognized. A value option at the end of args with no value is left
// to the program, which will reject it.
func SplitToolkitArgs(args []string) (toolkit, rest []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, _, hasValue := strings.Cut(arg, "=")
		takesValue, known := toolkitOptions[name]
		switch {
		case !known:
			rest = append(rest, arg)
		case hasValue && takesValue:
			toolkit = append(toolkit, arg)
		case hasValue:
			rest = append(rest, arg)
		case !takesValue:
			toolkit = append(toolkit, arg)
		case i+1 < len(args):
			toolkit = append(toolkit, arg, args[i+1])
			i++
		default:
			rest = append(rest, arg)
		}
	}
	return toolkit, rest
}

// cArgv is a NUL-terminated argv built from Go memory, pinned for the
// duration of a C call that may rearrange it.
type cArgv struct {
	argc   int32
	argv   []*byte
	argvP  **byte
	pinner runtime.Pinner
}

func newCArgv(args []string) *cArgv {
	c := &cArgv{argc: int32(len(args))}
	c.pinner.Pin(c)
	c.argv = make([]*byte, len(args)+1)
	for i, arg := range args {
		b := append([]byte(arg), 0)
		c.pinner.Pin(&b[0])
		c.argv[i] = &b[0]
	}
	c.pinner.Pin(&c.argv[0])
	c.argvP = &c.argv[0]
	return c
}

func (c *cArgv) release() {
	c.pinner.Unpin()
}

// initToolkit runs gtk_init_check with argv0 followed by the toolkit args.
func initToolkit(argv0 string, toolkit []string) bool {
	argv := newCArgv(append([]string{argv0}, toolkit...))
	defer argv.release()
	return lib.gtk.InitCheck(&argv.argc, &argv.argvP)
}
