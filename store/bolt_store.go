package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/creativeprojects/onesecmail/lib"
	bolt "go.etcd.io/bbolt"
)

const (
	metadataBucket  = "metadata"
	addressBucket   = "address"
	versionKey      = "version"
	boltFileVersion = 1
)

var ErrEntryNotFound = errors.New("address book entry not found")

// Entry is a mailbox address saved under a name
type Entry struct {
	Name    string
	Address string
	Created time.Time
}

// BoltStore is the address book of the command line tool
type BoltStore struct {
	dbFile string
	db     *bolt.DB
	log    lib.Logger
}

func NewBoltStore(filename string) (*BoltStore, error) {
	return NewBoltStoreWithLogger(filename, nil)
}

func NewBoltStoreWithLogger(filename string, logger lib.Logger) (*BoltStore, error) {
	options := *bolt.DefaultOptions
	options.Timeout = 10 * time.Second

	err := os.MkdirAll(filepath.Dir(filename), 0700)
	if err != nil {
		return nil, fmt.Errorf("cannot open %q: %w", filename, err)
	}

	db, err := bolt.Open(filename, 0600, &options)
	if err != nil {
		return nil, fmt.Errorf("cannot open %q: %w", filename, err)
	}

	store := &BoltStore{
		dbFile: filename,
		db:     db,
		log:    lib.LoggerOrDefault(logger),
	}
	err = store.init()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *BoltStore) init() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(metadataBucket))
		if err != nil {
			return err
		}
		if data := bucket.Get([]byte(versionKey)); data != nil {
			version, err := deserializeInt(data)
			if err != nil {
				return fmt.Errorf("cannot read file version: %w", err)
			}
			if version > boltFileVersion {
				return fmt.Errorf("unsupported file version %d", version)
			}
			return nil
		}
		s.log.Printf("initializing address book %q", s.dbFile)
		version, err := serializeInt(boltFileVersion)
		if err != nil {
			return err
		}
		_, err = tx.CreateBucketIfNotExists([]byte(addressBucket))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(versionKey), version)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Save adds or replaces the entry name
func (s *BoltStore) Save(name, address string) (*Entry, error) {
	name = normalizeName(name)
	if name == "" {
		return nil, errors.New("empty name")
	}
	entry := &Entry{
		Name:    name,
		Address: address,
		Created: time.Now().Round(0),
	}
	data, err := serializeObject(entry)
	if err != nil {
		return nil, err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(addressBucket))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(name), data)
	})
	if err != nil {
		return nil, err
	}
	s.log.Printf("saved %s as %q", address, name)
	return entry, nil
}

// Get returns ErrEntryNotFound when no entry is saved under this name
func (s *BoltStore) Get(name string) (*Entry, error) {
	var entry *Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(addressBucket))
		if bucket == nil {
			return ErrEntryNotFound
		}
		data := bucket.Get([]byte(normalizeName(name)))
		if data == nil {
			return ErrEntryNotFound
		}
		var err error
		entry, err = deserializeObject[Entry](data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns all the entries, sorted by creation date
func (s *BoltStore) List() ([]Entry, error) {
	list := make([]Entry, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(addressBucket))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, v []byte) error {
			if v == nil {
				return nil
			}
			entry, err := deserializeObject[Entry](v)
			if err != nil {
				return fmt.Errorf("cannot read entry %q: %w", string(k), err)
			}
			list = append(list, *entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Created.Before(list[j].Created)
	})
	return list, nil
}

// Delete returns ErrEntryNotFound when no entry is saved under this name
func (s *BoltStore) Delete(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(addressBucket))
		if bucket == nil {
			return ErrEntryNotFound
		}
		key := []byte(normalizeName(name))
		if bucket.Get(key) == nil {
			return ErrEntryNotFound
		}
		return bucket.Delete(key)
	})
}

func (s *BoltStore) Backup(filename string) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.CopyFile(filename, 0600)
	})
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
