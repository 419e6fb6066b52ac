package gamedata

import (
	"errors"
	"sync/atomic"
)

// Store holds the active dataset. Readers take a snapshot with Current and
// keep using it for the whole request; Swap never alters a snapshot already
// handed out.
type Store struct {
	current atomic.Pointer[Dataset]
}

// NewStore returns a store serving d.
func NewStore(d *Dataset) *Store {
	s := &Store{}
	s.current.Store(d)
	return s
}

// Current returns the active snapshot, or nil if none was installed.
func (s *Store) Current() *Dataset {
	return s.current.Load()
}

// Swap installs d and returns the previous snapshot.
func (s *Store) Swap(d *Dataset) (*Dataset, error) {
	if d == nil {
		return nil, errors.New("cannot install a nil dataset")
	}
	return s.current.Swap(d), nil
}

// Reload loads path and installs it. On error the active snapshot is kept.
func (s *Store) Reload(path string) error {
	d, err := Load(path)
	if err != nil {
		return err
	}
	_, err = s.Swap(d)
	return err
}
