package service

import "sync"

// TableLocks hands out one mutex per table identifier.
type TableLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewTableLocks returns an empty lock set.
func NewTableLocks() *TableLocks {
	return &TableLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock blocks until table is free and returns the unlock func.
func (l *TableLocks) Lock(table string) func() {
	l.mu.Lock()
	m, ok := l.locks[table]
	if !ok {
		m = &sync.Mutex{}
		l.locks[table] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
