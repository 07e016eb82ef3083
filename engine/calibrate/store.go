package calibrate

import (
	"fmt"
	"sync"
)

// Store holds calibration results per font and size, computing each of them
// at most once. Failed calibrations are stored as well. A Store is safe for
// concurrent use.
type Store struct {
	mx      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	once   sync.Once
	result Result
	err    error
}

// NewStore creates an empty calibration store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

var globalStore = NewStore()

// GlobalStore returns an application-wide calibration store.
func GlobalStore() *Store {
	return globalStore
}

// Calibration returns the calibration for a font at size. If none is stored
// yet, it is computed by calling compute.
func (st *Store) Calibration(fontname string, size float64, compute func() (Result, error)) (Result, error) {
	key := fmt.Sprintf("%s@%.2f", fontname, size)
	st.mx.Lock()
	e, ok := st.entries[key]
	if !ok {
		e = &entry{}
		st.entries[key] = e
	}
	st.mx.Unlock()
	e.once.Do(func() {
		tracer().Debugf("calibrating %s", key)
		e.result, e.err = compute()
	})
	return e.result, e.err
}

// Len returns the number of stored calibrations.
func (st *Store) Len() int {
	st.mx.Lock()
	defer st.mx.Unlock()
	return len(st.entries)
}
