package webkitgtk

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
)

// fakeLib replaces the loaded library with recording stubs so window and
// settings code can run without GTK.
type fakeLib struct {
	mu        sync.Mutex
	calls     []string
	args      map[string][]interface{}
	callbacks []interface{}
	signals   map[string]uintptr
}

func newFakeLib(t *testing.T) *fakeLib {
	t.Helper()
	saveG, saveGtk, saveWebkit, saveSettings := lib.g, lib.gtk, lib.webkit, lib.webkitSettings
	saveCallback := newCallback
	t.Cleanup(func() {
		lib.g, lib.gtk, lib.webkit, lib.webkitSettings = saveG, saveGtk, saveWebkit, saveSettings
		newCallback = saveCallback
	})

	f := &fakeLib{
		args:    make(map[string][]interface{}),
		signals: make(map[string]uintptr),
	}
	f.stub("g", &lib.g)
	f.stub("gtk", &lib.gtk)
	f.stub("webkit", &lib.webkit)
	f.stub("webkit_settings", &lib.webkitSettings)

	newCallback = func(fn interface{}) uintptr {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.callbacks = append(f.callbacks, fn)
		return uintptr(len(f.callbacks))
	}
	lib.g.SignalConnectData = func(instance ptr, signal string, handler uintptr, data ptr, destroy ptr, flags int) uint64 {
		f.record("g_signal_connect_data", instance, signal)
		f.mu.Lock()
		f.signals[fmt.Sprintf("%d:%s", instance, signal)] = handler
		f.mu.Unlock()
		return uint64(len(f.signals))
	}
	return f
}

// stub points every function field of v at a recorder returning zero values.
func (f *fakeLib) stub(prefix string, v interface{}) {
	elem := reflect.ValueOf(v).Elem()
	typ := elem.Type()
	for i := 0; i < elem.NumField(); i++ {
		field := elem.Field(i)
		if field.Kind() != reflect.Func {
			continue
		}
		name := symbolName(prefix, typ.Field(i))
		fnType := field.Type()
		field.Set(reflect.MakeFunc(fnType, func(in []reflect.Value) []reflect.Value {
			args := make([]interface{}, len(in))
			for j, arg := range in {
				args[j] = arg.Interface()
			}
			f.record(name, args...)
			out := make([]reflect.Value, fnType.NumOut())
			for j := range out {
				out[j] = reflect.Zero(fnType.Out(j))
			}
			return out
		}))
	}
}

func (f *fakeLib) record(name string, args ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	f.args[name] = args
}

func (f *fakeLib) called(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == name {
			return true
		}
	}
	return false
}

func (f *fakeLib) lastArgs(name string) []interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.args[name]
}

func (f *fakeLib) index(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.calls {
		if c == name {
			return i
		}
	}
	return -1
}

// emit invokes the handler connected to signal on instance.
func (f *fakeLib) emit(t *testing.T, instance ptr, signal string) {
	t.Helper()
	f.mu.Lock()
	handler, ok := f.signals[fmt.Sprintf("%d:%s", instance, signal)]
	var fn interface{}
	if ok {
		fn = f.callbacks[handler-1]
	}
	f.mu.Unlock()
	if !ok {
		t.Fatalf("no handler for %q on %d", signal, instance)
	}
	fn.(func(ptr, ptr))(instance, 0)
}

// syncThread pretends every caller is already on the GTK thread.
func syncThread() *mainThread {
	return &mainThread{
		id:         1,
		fnMap:      make(map[uint16]func()),
		threadSelf: func() uint64 { return 1 },
	}
}

func testApp() *App {
	a := New(AppOptions{Name: "XSR1", Argv0: "/usr/bin/xsr1-gtk"})
	a.thread = syncThread()
	return a
}
