// Package store keeps summaries of finished comparisons in a bolt
// database, so runs can be listed and compared later.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"

	"bitbucket.org/Davydov/abmcmc/abtest"
)

// log is the global logging variable.
var log = logging.MustGetLogger("store")

// RUNS is the bucket name for all the records.
var RUNS = []byte("runs")

// ErrNotFound is returned by Load for unknown ids.
var ErrNotFound = errors.New("record not found")

// Record is one stored comparison.
type Record struct {
	ID      string         `json:"id"`
	Time    time.Time      `json:"time"`
	Input   string         `json:"input,omitempty"`
	Metric  string         `json:"metric,omitempty"`
	LabelA  string         `json:"labelA"`
	LabelB  string         `json:"labelB"`
	Summary abtest.Summary `json:"summary"`
}

// NewRecord creates a record with a fresh id and the current time.
func NewRecord(labelA, labelB, metric string, summary abtest.Summary) *Record {
	return &Record{
		ID:      uuid.NewString(),
		Time:    time.Now().UTC(),
		Metric:  metric,
		LabelA:  labelA,
		LabelB:  labelB,
		Summary: summary,
	}
}

// Store is a database of records.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the database file.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("error opening database %s: %w", path, err)
	}
	log.Infof("Opened database %s", path)
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores the record. A record with an empty id gets a new one.
func (s *Store) Save(r *Record) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if _, err := uuid.Parse(r.ID); err != nil {
		return fmt.Errorf("bad record id %q: %w", r.ID, err)
	}
	data, err := json.Marshal(r)
	if err != nil {
		log.Error("Error serializing record", err)
		return err
	}
	if err = SaveData(s.db, []byte(r.ID), data); err != nil {
		log.Error("Error saving record", err)
		return err
	}
	log.Debugf("Saved record %s", r.ID)
	return nil
}

// Load returns the record with the given id.
func (s *Store) Load(id string) (*Record, error) {
	b, err := LoadData(s.db, []byte(id))
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	var r Record
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns all the records sorted by time.
func (s *Store) List() ([]*Record, error) {
	var records []*Record
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(RUNS)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var r Record
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("record %s: %w", k, err)
			}
			records = append(records, &r)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Time.Before(records[j].Time)
	})
	return records, nil
}

// SaveData saves values in bolt database.
func SaveData(db *bolt.DB, key []byte, data []byte) error {
	if db == nil {
		return nil
	}
	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(RUNS)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
}

// LoadData loads data from bolt database. nil is returned if there is
// no such key.
func LoadData(db *bolt.DB, key []byte) ([]byte, error) {
	var data []byte
	if db == nil {
		return nil, nil
	}
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(RUNS)
		if b == nil {
			return nil
		}
		// v is only valid inside the transaction.
		if v := b.Get(key); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
