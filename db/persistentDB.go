package db

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

const (
	DB_FILENAME           = "slm-view.db"
	DB_INTERNAL_TABLENAME = "internal-metadata"
	DB_TABLE_PREFERENCES  = "preferences"
)

type PersistentDB struct {
	db *bolt.DB
}

// Open (or create) the view database in the working folder
func NewPersistentDB(baseFolder string, appVersion string) (*PersistentDB, error) {
	db, err := bolt.Open(filepath.Join(baseFolder, DB_FILENAME), 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open %v: %w", DB_FILENAME, err)
	}

	//set DB version
	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(DB_INTERNAL_TABLENAME))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		return b.Put([]byte("app_version"), []byte(appVersion))
	})
	if err != nil {
		zap.S().Warnf("failed to save app_version - %v", err)
	}

	return &PersistentDB{db: db}, nil
}

func (pd *PersistentDB) Close() error {
	return pd.db.Close()
}

func (pd *PersistentDB) AddEntry(tableName string, key string, value interface{}) error {
	var bytesBuff bytes.Buffer
	if err := gob.NewEncoder(&bytesBuff).Encode(value); err != nil {
		return err
	}

	return pd.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(tableName))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		return b.Put([]byte(key), bytesBuff.Bytes())
	})
}

// Decode the entry into value; found is false when the table or key does not exist
func (pd *PersistentDB) GetEntry(tableName string, key string, value interface{}) (bool, error) {
	found := false
	err := pd.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(tableName))
		if b == nil {
			return nil
		}
		v := b.Get([]byte(key))
		if v == nil {
			return nil
		}
		found = true

		// Decoding the serialized data
		return gob.NewDecoder(bytes.NewReader(v)).Decode(value)
	})
	return found, err
}
