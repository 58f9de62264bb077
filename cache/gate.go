package cache

import "sync"

// gate is a readers-preference reader/writer lock.
//
// Any number of readers may hold the gate at once. A writer acquires it only
// once every active reader has released it. Readers that arrive while a
// writer is waiting do not queue behind that writer, so a steady stream of
// readers can starve writers indefinitely.
type gate struct {
	m       sync.Mutex
	readers int

	// writer holds a single token while the gate is free. It is taken by a
	// writer, or by the first of a group of readers on behalf of the group.
	writer chan struct{}
}

func newGate() *gate {
	g := &gate{writer: make(chan struct{}, 1)}
	g.writer <- struct{}{}
	return g
}

// RLock acquires the gate for reading.
func (g *gate) RLock() {
	g.m.Lock()
	g.readers++
	if g.readers == 1 {
		<-g.writer
	}
	g.m.Unlock()
}

// RUnlock releases a read acquisition. The last reader out frees the gate
// for writers.
func (g *gate) RUnlock() {
	g.m.Lock()
	g.readers--
	if g.readers == 0 {
		g.writer <- struct{}{}
	}
	g.m.Unlock()
}

// Lock acquires the gate exclusively.
func (g *gate) Lock() {
	<-g.writer
}

// Unlock releases an exclusive acquisition.
func (g *gate) Unlock() {
	g.writer <- struct{}{}
}
