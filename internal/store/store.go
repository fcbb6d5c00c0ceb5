package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/youhub/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Backend names accepted by NewStore
const (
	BackendBolt   = "bolt"
	BackendSqlite = "sqlite"
	BackendMemory = "memory"
)

var bucketKV = []byte("kv")

// NewStore opens the key/value store for backend in dir. An empty dir
// always yields a memory store.
func NewStore(backend, dir string) (domain.KV, error) {
	if backend == "" {
		backend = BackendBolt
	}
	if dir == "" && backend != BackendMemory {
		return NewMemoryStore(), nil
	}

	switch backend {
	case BackendBolt:
		return NewBoltStore(dir)
	case BackendSqlite:
		return NewSqliteStore(filepath.Join(dir, "youhub.sqlite"))
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s (supported: bolt, sqlite, memory)", backend)
	}
}

// BoltStore implements domain.KV using BoltDB with an in-memory cache
// for hot-path reads.
type BoltStore struct {
	db *bolt.DB
	mu sync.RWMutex // protects cache

	// promoted on access
	cache map[string]string
}

// NewBoltStore opens (or creates) youhub.db in dir
func NewBoltStore(dir string) (*BoltStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	dbPath := filepath.Join(dir, "youhub.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketKV)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init kv bucket: %w", err)
	}

	return &BoltStore{db: db, cache: make(map[string]string)}, nil
}

func (s *BoltStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	if v, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return v, true, nil
	}
	s.mu.RUnlock()

	var (
		val   string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketKV).Get([]byte(key)); v != nil {
			val, found = string(v), true
		}
		return nil
	})
	if err != nil || !found {
		return "", false, err
	}

	s.mu.Lock()
	s.cache[key] = val
	s.mu.Unlock()
	return val, true, nil
}

func (s *BoltStore) Set(_ context.Context, key, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketKV).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[key] = value
	s.mu.Unlock()
	return nil
}

func (s *BoltStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketKV).Delete([]byte(key))
	})
}

// List uses a cursor prefix scan; the memory cache is bypassed
func (s *BoltStore) List(_ context.Context, prefix string) (map[string]string, error) {
	out := make(map[string]string)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketKV).Cursor()
		p := []byte(prefix)
		for k, v := c.Seek(p); k != nil && strings.HasPrefix(string(k), prefix); k, v = c.Next() {
			out[string(k)] = string(v)
		}
		return nil
	})
	return out, err
}

func (s *BoltStore) Close() error {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
	return s.db.Close()
}
