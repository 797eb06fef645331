package memo

import (
	"go.etcd.io/bbolt"
)

var artifactsBucket = []byte("artifacts")

type boltStore struct {
	bdb *bbolt.DB
}

func openBoltStore(path string) (store, error) {
	bdb, err := bbolt.Open(path, 0o644, nil)
	if err != nil {
		return nil, err
	}
	err = bdb.Update(func(btx *bbolt.Tx) error {
		_, err := btx.CreateBucketIfNotExists(artifactsBucket)
		return err
	})
	if err != nil {
		bdb.Close()
		return nil, err
	}
	return &boltStore{bdb: bdb}, nil
}

func (s *boltStore) Get(key string) ([]byte, error) {
	var value []byte
	err := s.bdb.View(func(btx *bbolt.Tx) error {
		v := btx.Bucket(artifactsBucket).Get([]byte(key))
		if v != nil {
			// Bolt memory is only valid within the transaction.
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *boltStore) Put(key string, value []byte) error {
	return s.bdb.Update(func(btx *bbolt.Tx) error {
		return btx.Bucket(artifactsBucket).Put([]byte(key), value)
	})
}

func (s *boltStore) Delete(key string) error {
	return s.bdb.Update(func(btx *bbolt.Tx) error {
		return btx.Bucket(artifactsBucket).Delete([]byte(key))
	})
}

func (s *boltStore) Close() error {
	return s.bdb.Close()
}
