package webkitgtk

import (
	"go.uber.org/zap"
)

// Logger receives all runtime logging. Replace it before calling New.
var Logger = zap.NewNop()

type logFunc func(msg string, keyvals ...interface{})

func newLogFunc(name string) logFunc {
	sugar := Logger.Named(name).Sugar()
	return func(msg string, keyvals ...interface{}) {
		sugar.Debugw(msg, keyvals...)
	}
}

var PanicHandler = func(v any) {
	panic(v)
}

func panicHandlerRecover() {
	h := PanicHandler
	if h == nil {
		return
	}
	if err := recover(); err != nil {
		h(err)
	}
}
