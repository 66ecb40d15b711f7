package storage

import (
	"encoding/json"
	stderrors "errors"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/manav03panchal/codetrack/internal/model"
)

var (
	// ErrKeyNotFound is returned when a key is not found in the database.
	ErrKeyNotFound = stderrors.New("key not found")
)

// IsErrKeyNotFound returns true if the error is a key not found error.
func IsErrKeyNotFound(err error) bool {
	return stderrors.Is(err, ErrKeyNotFound) || stderrors.Is(err, badger.ErrKeyNotFound)
}

// Get retrieves a value by key and unmarshals it into v.
func (d *DB) Get(key string, v model.Model) error {
	return d.db.View(func(txn *badger.Txn) error {
		return getTxn(txn, key, v)
	})
}

// Set stores a model in the database.
func (d *DB) Set(v model.Model) error {
	return d.db.Update(func(txn *badger.Txn) error {
		return setTxn(txn, v)
	})
}

// Delete removes a key from the database.
func (d *DB) Delete(key string) error {
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Exists checks if a key exists in the database.
func (d *DB) Exists(key string) (bool, error) {
	var exists bool
	err := d.db.View(func(txn *badger.Txn) error {
		var err error
		exists, err = existsTxn(txn, key)
		return err
	})
	return exists, err
}

// ListByPrefix retrieves all keys with the given prefix.
func (d *DB) ListByPrefix(prefix string) ([]string, error) {
	var keys []string
	err := d.db.View(func(txn *badger.Txn) error {
		keys = keysTxn(txn, prefix)
		return nil
	})
	return keys, err
}

// GetAllByPrefix retrieves all values with the given prefix.
func GetAllByPrefix[T model.Model](d *DB, prefix string, newFunc func() T) ([]T, error) {
	var results []T
	err := d.db.View(func(txn *badger.Txn) error {
		var err error
		results, err = scanTxn(txn, prefix, newFunc)
		return err
	})
	return results, err
}

func getTxn(txn *badger.Txn, key string, v model.Model) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return ErrKeyNotFound
		}
		return err
	}

	return item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, v); err != nil {
			return err
		}
		v.SetKey(key)
		return nil
	})
}

func setTxn(txn *badger.Txn, v model.Model) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(v.GetKey()), data)
}

func existsTxn(txn *badger.Txn, key string) (bool, error) {
	_, err := txn.Get([]byte(key))
	if err != nil {
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func keysTxn(txn *badger.Txn, prefix string) []string {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys []string
	prefixBytes := []byte(prefix)
	for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
		keys = append(keys, string(it.Item().KeyCopy(nil)))
	}
	return keys
}

func scanTxn[T model.Model](txn *badger.Txn, prefix string, newFunc func() T) ([]T, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchSize = 100
	it := txn.NewIterator(opts)
	defer it.Close()

	var results []T
	prefixBytes := []byte(prefix)
	for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
		item := it.Item()
		err := item.Value(func(val []byte) error {
			v := newFunc()
			if err := json.Unmarshal(val, v); err != nil {
				return err
			}
			v.SetKey(string(item.Key()))
			results = append(results, v)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// deletePrefixTxn removes every key under prefix and returns how many.
func deletePrefixTxn(txn *badger.Txn, prefix string) (int, error) {
	keys := keysTxn(txn, prefix)
	for _, k := range keys {
		if err := txn.Delete([]byte(k)); err != nil {
			return 0, err
		}
	}
	return len(keys), nil
}
