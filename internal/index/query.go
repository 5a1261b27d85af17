package index

import (
	"encoding/json"
	bolt "go.etcd.io/bbolt"
	"podarc/internal/domain/catalog"
)

// ListAll returns the stored collection in key order: date descending,
// ordinal descending, title ascending.
func (s *Store) ListAll() ([]catalog.Episode, error) {
	var out []catalog.Episode
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bEpisodes)
		if b == nil {
			return nil
		}
		cur := b.Cursor()
		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			var e catalog.Episode
			if err := json.Unmarshal(v, &e); err != nil {
				continue
			}
			out = append(out, e)
		}
		return nil
	})
	return out, err
}

func (s *Store) GetByOrdinal(ordinal int) (catalog.Episode, error) {
	if ordinal <= 0 {
		return catalog.Episode{}, ErrNotFound
	}
	var e catalog.Episode
	err := s.db.View(func(tx *bolt.Tx) error {
		ordB := tx.Bucket(bOrdinal)
		epB := tx.Bucket(bEpisodes)
		if ordB == nil || epB == nil {
			return ErrNotFound
		}
		key := ordB.Get(makeOrdinalKey(ordinal))
		if key == nil {
			return ErrNotFound
		}
		v := epB.Get(key)
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &e)
	})
	return e, err
}

// Meta returns the stored snapshot descriptor, or ErrNotFound when the
// store has never been written.
func (s *Store) Meta() (Snapshot, error) {
	var snap Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bSnapshot)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte("current"))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &snap)
	})
	return snap, err
}
