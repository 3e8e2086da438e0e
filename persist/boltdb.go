package persist

import (
	"errors"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	// ErrBadHeader is returned when the header of a database does not match
	// the expected header for the service opening it.
	ErrBadHeader = errors.New("persist: database header mismatch")
	// ErrBadVersion is returned when the version of a database does not
	// match the version the opening service expects.
	ErrBadVersion = errors.New("persist: database version mismatch")
)

// Metadata identifies the format of a persisted bolt database, so that a
// service opening a pre-existing database file can refuse to run against
// data written by an incompatible version of itself.
type Metadata struct {
	Header  string
	Version string
}

var metadataBucket = []byte("Metadata")

// BoltDatabase is a persist-level wrapper for the bolt database, providing
// extra information such as a version number.
type BoltDatabase struct {
	Metadata
	*bolt.DB
}

// OpenDatabase opens a database and validates its metadata, writing fresh
// metadata if the database is new.
func OpenDatabase(md Metadata, filename string) (*BoltDatabase, error) {
	// Open with a timeout so that a second process holding the lock doesn't
	// hang this one forever.
	db, err := bolt.Open(filename, 0600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, err
	}

	boltDB := &BoltDatabase{Metadata: md, DB: db}
	if err := boltDB.checkMetadata(md); err != nil {
		db.Close()
		return nil, err
	}
	return boltDB, nil
}

// SaveMetadata overwrites the persisted metadata with db.Metadata.
func (db *BoltDatabase) SaveMetadata() error {
	return db.Update(db.updateMetadata)
}

func (db *BoltDatabase) checkMetadata(md Metadata) error {
	return db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(metadataBucket)
		if bucket == nil {
			return db.updateMetadata(tx)
		}
		if header := string(bucket.Get([]byte("Header"))); header != md.Header {
			return ErrBadHeader
		}
		if version := string(bucket.Get([]byte("Version"))); version != md.Version {
			return ErrBadVersion
		}
		return nil
	})
}

func (db *BoltDatabase) updateMetadata(tx *bolt.Tx) error {
	bucket, err := tx.CreateBucketIfNotExists(metadataBucket)
	if err != nil {
		return err
	}
	if err := bucket.Put([]byte("Header"), []byte(db.Header)); err != nil {
		return err
	}
	return bucket.Put([]byte("Version"), []byte(db.Version))
}

// Close closes the database.
func (db *BoltDatabase) Close() error {
	return db.DB.Close()
}
