// Package store persists the profile-local state (session, cart) as keyed
// serialized-text records in an embedded SQLite file, and broadcasts
// change signals so every open storefront process converges on the same
// state.
package store

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Well-known profile keys. The session manager owns KeySession and also
// clears KeyCart on sign-out; the cart manager owns KeyCart.
const (
	KeySession = "auth_session"
	KeyCart    = "cart"
)

// Record is one keyed slot of profile state.
type Record struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

// Subscriber receives the new value of a key, or ok=false when the key
// was removed.
type Subscriber func(value string, ok bool)

// Store is the profile store. Writes notify in-process subscribers
// immediately; changes made by another process are picked up by Watch.
type Store struct {
	db *gorm.DB

	mu   sync.Mutex
	subs map[string]map[int]Subscriber
	next int
	seen map[string]string // last observed value per key, for Watch diffing
}

// Open opens (creating if needed) the profile store at path.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, err
	}
	s := &Store{
		db:   db,
		subs: make(map[string]map[int]Subscriber),
		seen: make(map[string]string),
	}
	if err := s.snapshot(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the value stored under key. ok is false when the key is
// absent.
func (s *Store) Get(key string) (string, bool, error) {
	var rec Record
	err := s.db.First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return rec.Value, true, nil
}

// Put stores value under key and notifies subscribers of that key.
func (s *Store) Put(key, value string) error {
	rec := Record{Key: key, Value: value, UpdatedAt: time.Now()}
	if err := s.db.Save(&rec).Error; err != nil {
		return err
	}
	s.mu.Lock()
	s.seen[key] = value
	s.mu.Unlock()
	s.notify(key, value, true)
	return nil
}

// Delete removes key and notifies its subscribers.
func (s *Store) Delete(key string) error {
	if err := s.db.Delete(&Record{}, "key = ?", key).Error; err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.seen, key)
	s.mu.Unlock()
	s.notify(key, "", false)
	return nil
}

// Subscribe registers fn for changes to key. The returned function
// removes the subscription; the subscriber owns its lifetime.
func (s *Store) Subscribe(key string, fn Subscriber) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs[key] == nil {
		s.subs[key] = make(map[int]Subscriber)
	}
	id := s.next
	s.next++
	s.subs[key][id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs[key], id)
	}
}

func (s *Store) notify(key, value string, ok bool) {
	s.mu.Lock()
	fns := make([]Subscriber, 0, len(s.subs[key]))
	for _, fn := range s.subs[key] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(value, ok)
	}
}

// snapshot loads the current table into the diffing map.
func (s *Store) snapshot() error {
	var recs []Record
	if err := s.db.Find(&recs).Error; err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range recs {
		s.seen[rec.Key] = rec.Value
	}
	return nil
}

// Watch polls for writes made by other processes sharing the profile
// file and re-broadcasts any changed keys, so two concurrent storefront
// instances converge. Convergence is eventual, bounded by interval.
func (s *Store) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.sweep(); err != nil {
				log.Printf("[Store] watch sweep failed: %v", err)
			}
		}
	}
}

func (s *Store) sweep() error {
	var recs []Record
	if err := s.db.Find(&recs).Error; err != nil {
		return err
	}

	current := make(map[string]string, len(recs))
	for _, rec := range recs {
		current[rec.Key] = rec.Value
	}

	type change struct {
		key   string
		value string
		ok    bool
	}
	var changes []change

	s.mu.Lock()
	for key, value := range current {
		if prev, ok := s.seen[key]; !ok || prev != value {
			changes = append(changes, change{key, value, true})
		}
	}
	for key := range s.seen {
		if _, ok := current[key]; !ok {
			changes = append(changes, change{key, "", false})
		}
	}
	s.seen = current
	s.mu.Unlock()

	for _, ch := range changes {
		s.notify(ch.key, ch.value, ch.ok)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
