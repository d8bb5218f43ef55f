package webkitgtk

import (
	"sync"

	"github.com/ebitengine/purego"
)

// mainThread queues functions for the GTK thread. All dispatches share one
// idle callback; the function id travels as the callback's user data, so the
// number of purego callbacks stays constant.
type mainThread struct {
	sync.Mutex
	id     uint64
	nextID uint16
	fnMap  map[uint16]func()
	idle   uintptr

	// threadSelf and idleAdd are swapped out in tests.
	threadSelf func() uint64
	idleAdd    func(fn uintptr, data ptr) uint
}

func newMainThread() *mainThread {
	mt := &mainThread{
		fnMap:      make(map[uint16]func()),
		threadSelf: lib.g.ThreadSelf,
		idleAdd:    lib.g.IdleAdd,
	}
	mt.id = mt.threadSelf()
	mt.idle = purego.NewCallback(func(data ptr) int {
		mt.execute(uint16(data))
		return gSourceRemove
	})
	return mt
}

func (mt *mainThread) ID() uint64 {
	return mt.id
}

func (mt *mainThread) Running() bool {
	return mt.id == mt.threadSelf()
}

func (mt *mainThread) register(fn func()) uint16 {
	mt.Lock()
	defer mt.Unlock()

	for i := 0; i <= 0xFFFF; i++ {
		id := mt.nextID
		mt.nextID++
		if _, exist := mt.fnMap[id]; !exist {
			mt.fnMap[id] = fn
			return id
		}
	}
	panic("too many functions have been dispatched to the main thread")
}

func (mt *mainThread) execute(id uint16) {
	mt.Lock()
	fn, exist := mt.fnMap[id]
	delete(mt.fnMap, id)
	mt.Unlock()
	if exist {
		fn()
	}
}

func (mt *mainThread) dispatch(fn func()) {
	if mt.Running() {
		fn()
		return
	}
	id := mt.register(fn)
	mt.idleAdd(mt.idle, ptr(id))
}

func (mt *mainThread) InvokeSync(fn func()) {
	var wg sync.WaitGroup
	wg.Add(1)
	mt.dispatch(func() {
		defer wg.Done()
		defer panicHandlerRecover()
		fn()
	})
	wg.Wait()
}

func (mt *mainThread) InvokeAsync(fn func()) {
	mt.dispatch(func() {
		defer panicHandlerRecover()
		fn()
	})
}
