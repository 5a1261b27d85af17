package index

import (
	"encoding/json"
	bolt "go.etcd.io/bbolt"
	"podarc/internal/domain/catalog"
	"strings"
)

// Rebuild replaces the whole snapshot in one transaction. There is no
// incremental path: the collection is immutable between fetches.
func (s *Store) Rebuild(episodes []catalog.Episode, snap Snapshot) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		_ = tx.DeleteBucket(bEpisodes)
		_ = tx.DeleteBucket(bOrdinal)
		_ = tx.DeleteBucket(bSnapshot)

		epB, _ := tx.CreateBucket(bEpisodes)
		ordB, _ := tx.CreateBucket(bOrdinal)
		snapB, _ := tx.CreateBucket(bSnapshot)

		for _, e := range episodes {
			if strings.TrimSpace(e.Title) == "" {
				continue
			}
			eb, err := json.Marshal(e)
			if err != nil {
				return err
			}
			key := makeEpisodeKey(e)
			if err := epB.Put(key, eb); err != nil {
				return err
			}
			if e.Ordinal > 0 {
				if err := ordB.Put(makeOrdinalKey(e.Ordinal), key); err != nil {
					return err
				}
			}
		}

		snap.Episodes = len(episodes)
		sb, err := json.Marshal(snap)
		if err != nil {
			return err
		}
		return snapB.Put([]byte("current"), sb)
	})
}
