package webkitgtk

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestSplitToolkitArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		toolkit []string
		rest    []string
	}{
		{name: "empty"},
		{name: "program only", args: []string{"--help"}, rest: []string{"--help"}},
		{
			name:    "separate value",
			args:    []string{"--display", ":1", "-V"},
			toolkit: []string{"--display", ":1"},
			rest:    []string{"-V"},
		},
		{
			name:    "inline value",
			args:    []string{"--class=Xsr1", "--gtk-module=canberra-gtk-module"},
			toolkit: []string{"--class=Xsr1", "--gtk-module=canberra-gtk-module"},
		},
		{
			name:    "boolean",
			args:    []string{"--g-fatal-warnings", "-Z"},
			toolkit: []string{"--g-fatal-warnings"},
			rest:    []string{"-Z"},
		},
		{
			name: "boolean with value is not toolkit",
			args: []string{"--sync=yes"},
			rest: []string{"--sync=yes"},
		},
		{
			name: "dangling value option",
			args: []string{"--display"},
			rest: []string{"--display"},
		},
		{
			name: "prefix is not enough",
			args: []string{"--displays", ":1"},
			rest: []string{"--displays", ":1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toolkit, rest := SplitToolkitArgs(tt.args)
			assert.Equal(t, tt.toolkit, toolkit)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestCArgv(t *testing.T) {
	argv := newCArgv([]string{"xsr1-gtk", "--display", ":1"})
	defer argv.release()

	assert.Equal(t, int32(3), argv.argc)
	assert.Len(t, argv.argv, 4)
	assert.Nil(t, argv.argv[3], "argv is NULL terminated")
	assert.Equal(t, "--display", cString(argv.argv[1]))
	assert.Equal(t, argv.argvP, &argv.argv[0])
}

func cString(p *byte) string {
	var b []byte
	for ; *p != 0; p = (*byte)(unsafe.Add(unsafe.Pointer(p), 1)) {
		b = append(b, *p)
	}
	return string(b)
}
