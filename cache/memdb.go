package cache

import (
	"fmt"

	memdb "github.com/hashicorp/go-memdb"
)

const (
	memdbTable = "cache_entry"
	memdbIndex = "id"
)

type memdbRow struct {
	Key   string
	Entry Entry
}

func memdbSchema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			memdbTable: {
				Name: memdbTable,
				Indexes: map[string]*memdb.IndexSchema{
					memdbIndex: {
						Name:    memdbIndex,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Key"},
					},
				},
			},
		},
	}
}

// MemDBStore keeps entries in an immutable radix tree through go-memdb.
// Readers see a consistent snapshot while a write is in progress.
type MemDBStore struct {
	db *memdb.MemDB
}

var _ Store = MemDBStore{}

func NewMemDBStore() (MemDBStore, error) {
	db, err := memdb.NewMemDB(memdbSchema())
	if err != nil {
		return MemDBStore{}, fmt.Errorf("fail to create memdb: %w", err)
	}
	return MemDBStore{db: db}, nil
}

func (m MemDBStore) Load(key string) (Entry, bool, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(memdbTable, memdbIndex, key)
	if err != nil || raw == nil {
		return Entry{}, false, err
	}
	return raw.(*memdbRow).Entry, true, nil
}

func (m MemDBStore) Store(key string, entry Entry) error {
	txn := m.db.Txn(true)
	defer txn.Abort()

	if err := txn.Insert(memdbTable, &memdbRow{Key: key, Entry: entry}); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (m MemDBStore) Delete(key string) error {
	txn := m.db.Txn(true)
	defer txn.Abort()

	actual, err := txn.First(memdbTable, memdbIndex, key)
	if err != nil {
		return err
	} else if actual == nil {
		return nil
	}

	if err := txn.Delete(memdbTable, actual); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// Keys returns every key in index order, which is ascending.
func (m MemDBStore) Keys() ([]string, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(memdbTable, memdbIndex)
	if err != nil {
		return nil, err
	}
	var keys []string
	for raw := it.Next(); raw != nil; raw = it.Next() {
		keys = append(keys, raw.(*memdbRow).Key)
	}
	return keys, nil
}
