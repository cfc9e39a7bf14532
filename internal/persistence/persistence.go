package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fanctl/amdfan/internal/ui"
	bolt "go.etcd.io/bbolt"
)

const (
	BucketSessions = "sessions"
)

// SessionRecord is stored while a device is under manual fan control,
// so a device left in manual mode by a crashed process can be found again.
type SessionRecord struct {
	DevicePath string    `json:"devicePath"`
	Pid        int       `json:"pid"`
	Sensor     string    `json:"sensor"`
	CurveFile  string    `json:"curveFile"`
	StartedAt  time.Time `json:"startedAt"`
}

type Persistence interface {
	Init() error

	SaveSession(record SessionRecord) error
	// LoadSession returns os.ErrNotExist if there is no record for the given device
	LoadSession(devicePath string) (SessionRecord, error)
	LoadSessions() ([]SessionRecord, error)
	DeleteSession(devicePath string) error
}

type persistence struct {
	dbPath  string
	timeout time.Duration
}

func NewPersistence(dbPath string) Persistence {
	p := &persistence{
		dbPath:  dbPath,
		timeout: 1 * time.Minute,
	}
	return p
}

func (p persistence) Init() (err error) {
	// get parent path of dbPath
	parentDir := filepath.Dir(p.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		ui.Info("Creating directory for db: %s", parentDir)
		err = os.MkdirAll(parentDir, 0755)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p persistence) openPersistence() (db *bolt.DB, err error) {
	db, err = bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: p.timeout})
	if err != nil {
		return nil, fmt.Errorf("cannot open database %s: %w", p.dbPath, err)
	}
	return db, nil
}

// SaveSession stores the given record, replacing any record of the same device
func (p persistence) SaveSession(record SessionRecord) (err error) {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketSessions))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		return b.Put([]byte(record.DevicePath), data)
	})
}

func (p persistence) LoadSession(devicePath string) (SessionRecord, error) {
	db, err := p.openPersistence()
	if err != nil {
		return SessionRecord{}, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	var record SessionRecord
	found := false
	err = db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketSessions))
		if b == nil {
			return os.ErrNotExist
		}
		v := b.Get([]byte(devicePath))
		if v == nil {
			return os.ErrNotExist
		}

		err := json.Unmarshal(v, &record)
		if err != nil {
			// if we cannot read the saved data, delete it
			ui.Warning("Unable to unmarshal saved session for %s: %v", devicePath, err)
			err := b.Delete([]byte(devicePath))
			if err != nil {
				ui.Error("Unable to delete corrupt data key %s: %v", devicePath, err)
			}
			return nil
		}

		found = true
		return nil
	})
	if err == nil && !found {
		return SessionRecord{}, os.ErrNotExist
	}

	return record, err
}

// LoadSessions returns all stored records ordered by device path
func (p persistence) LoadSessions() ([]SessionRecord, error) {
	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	var records []SessionRecord
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketSessions))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var record SessionRecord
			if err := json.Unmarshal(v, &record); err != nil {
				ui.Warning("Skipping unreadable session for %s: %v", string(k), err)
				return nil
			}
			records = append(records, record)
			return nil
		})
	})

	sort.Slice(records, func(i, j int) bool {
		return records[i].DevicePath < records[j].DevicePath
	})

	return records, err
}

func (p persistence) DeleteSession(devicePath string) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketSessions))
		if b == nil {
			// no session bucket yet
			return nil
		}
		v := b.Get([]byte(devicePath))
		if v == nil {
			// no record for given device
			return nil
		}

		return b.Delete([]byte(devicePath))
	})
}
