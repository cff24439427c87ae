// Package storage archives raw 3D image files in pebble, keyed by KSUID.
package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
)

// Errors
var (
	ErrSurveyNotFound = &StorageError{"survey not found"}
	ErrCorruption     = &StorageError{"data corruption detected"}
)

// StorageError represents an archive error
type StorageError struct {
	Message string
}

func (e *StorageError) Error() string {
	return e.Message
}

// Entry describes one archived file
type Entry struct {
	ID       ksuid.KSUID `json:"id"`
	StoredAt time.Time   `json:"stored_at"`
	Size     int         `json:"size"`
}

// Key spaces. Each survey is stored twice under its KSUID: the full
// envelope under surveyPrefix and its 16-byte header under metaPrefix, so
// listing and counting never read file contents.
var (
	surveyPrefix = []byte("survey/")
	metaPrefix   = []byte("meta/")
)

func surveyKey(id ksuid.KSUID) []byte {
	return append(append([]byte{}, surveyPrefix...), id.Bytes()...)
}

func metaKey(id ksuid.KSUID) []byte {
	return append(append([]byte{}, metaPrefix...), id.Bytes()...)
}

// prefixUpperBound returns the smallest key greater than every key with prefix
func prefixUpperBound(prefix []byte) []byte {
	end := append([]byte{}, prefix...)
	end[len(end)-1]++
	return end
}

// Archive stores raw survey files
type Archive struct {
	db  *pebble.DB
	now func() time.Time
}

// Open opens or creates an archive in the directory at path
func Open(path string) (*Archive, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return &Archive{db: db, now: time.Now}, nil
}

// Put stores raw and returns its new ID
func (a *Archive) Put(raw []byte) (ksuid.KSUID, error) {
	now := a.now()
	id, err := ksuid.NewRandomWithTime(now)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("failed to generate id: %w", err)
	}
	env, err := newEnvelope(raw, now)
	if err != nil {
		return ksuid.Nil, err
	}

	batch := a.db.NewBatch()
	defer batch.Close()
	if err := batch.Set(surveyKey(id), env.encode(), nil); err != nil {
		return ksuid.Nil, err
	}
	if err := batch.Set(metaKey(id), env.header(), nil); err != nil {
		return ksuid.Nil, err
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return ksuid.Nil, err
	}
	return id, nil
}

// Get returns a copy of the file stored under id
func (a *Archive) Get(id ksuid.KSUID) ([]byte, error) {
	data, closer, err := a.db.Get(surveyKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrSurveyNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	env, err := decodeEnvelope(data)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(env.Payload))
	copy(out, env.Payload)
	return out, nil
}

// Delete removes the file stored under id
func (a *Archive) Delete(id ksuid.KSUID) error {
	_, closer, err := a.db.Get(metaKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return ErrSurveyNotFound
	}
	if err != nil {
		return err
	}
	closer.Close()

	batch := a.db.NewBatch()
	defer batch.Close()
	if err := batch.Delete(surveyKey(id), nil); err != nil {
		return err
	}
	if err := batch.Delete(metaKey(id), nil); err != nil {
		return err
	}
	return batch.Commit(pebble.Sync)
}

func (a *Archive) metaIter() (*pebble.Iterator, error) {
	return a.db.NewIter(&pebble.IterOptions{
		LowerBound: metaPrefix,
		UpperBound: prefixUpperBound(metaPrefix),
	})
}

// List returns every archived file, oldest first. Only the stored headers
// are read; payload checksums are verified by Get.
func (a *Archive) List() ([]Entry, error) {
	iter, err := a.metaIter()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	entries := []Entry{}
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key()[len(metaPrefix):])
		if err != nil {
			return nil, fmt.Errorf("%w: bad key: %v", ErrCorruption, err)
		}
		env, err := decodeEnvelopeHeader(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("survey %s: %w", id, err)
		}
		entries = append(entries, Entry{ID: id, StoredAt: env.storedAt(), Size: int(env.Size)})
	}
	return entries, iter.Error()
}

// Count returns the number of archived files
func (a *Archive) Count() (int, error) {
	iter, err := a.metaIter()
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	n := 0
	for iter.First(); iter.Valid(); iter.Next() {
		n++
	}
	return n, iter.Error()
}

// Close closes the archive
func (a *Archive) Close() error {
	return a.db.Close()
}
