package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"hushhly/cache"

	"github.com/rs/zerolog/log"
)

// DocumentStore keeps JSON documents grouped in namespaces. A namespace is a
// single KV item holding an object keyed by document key, so every write
// re-reads and re-serializes the whole namespace: O(namespace size).
//
// Writes to one namespace are serialized inside the process. Separate
// processes sharing a backend still race last-write-wins.
type DocumentStore struct {
	kv    KV
	cache *cache.Cache

	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

// NewDocumentStore wraps kv; c may be nil to disable read caching
func NewDocumentStore(kv KV, c *cache.Cache) *DocumentStore {
	return &DocumentStore{
		kv:    kv,
		cache: c,
		locks: make(map[string]*sync.RWMutex),
	}
}

func (s *DocumentStore) lock(namespace string) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[namespace]
	if !ok {
		l = &sync.RWMutex{}
		s.locks[namespace] = l
	}
	return l
}

// readNamespace loads and decodes a namespace. Missing and corrupt blobs both
// decode as an empty namespace.
func (s *DocumentStore) readNamespace(ctx context.Context, namespace string) (map[string]json.RawMessage, error) {
	blob, ok := s.cache.Get(namespace)
	if !ok {
		raw, found, err := s.kv.GetItem(ctx, namespace)
		if err != nil {
			return nil, fmt.Errorf("failed to read namespace %s: %w", namespace, err)
		}
		if !found {
			return make(map[string]json.RawMessage), nil
		}
		blob = []byte(raw)
		s.cache.Set(namespace, blob)
	}

	var docs map[string]json.RawMessage
	if err := json.Unmarshal(blob, &docs); err != nil {
		log.Warn().Err(err).Str("namespace", namespace).Msg("Unreadable namespace, treating as empty")
		return make(map[string]json.RawMessage), nil
	}
	if docs == nil {
		docs = make(map[string]json.RawMessage)
	}
	return docs, nil
}

func (s *DocumentStore) writeNamespace(ctx context.Context, namespace string, docs map[string]json.RawMessage) error {
	blob, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("failed to encode namespace %s: %w", namespace, err)
	}
	if err := s.kv.SetItem(ctx, namespace, string(blob)); err != nil {
		s.cache.Delete(namespace)
		return fmt.Errorf("failed to write namespace %s: %w", namespace, err)
	}
	if !s.cache.Set(namespace, blob) {
		// Dropped or rejected: make sure no older blob keeps answering reads
		s.cache.Delete(namespace)
	}
	return nil
}

// Get decodes the document stored under key into out. It reports false when
// the key is absent or its document cannot be decoded.
func (s *DocumentStore) Get(ctx context.Context, namespace, key string, out interface{}) (bool, error) {
	l := s.lock(namespace)
	l.RLock()
	defer l.RUnlock()

	docs, err := s.readNamespace(ctx, namespace)
	if err != nil {
		return false, err
	}
	raw, ok := docs[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Warn().Err(err).Str("namespace", namespace).Str("key", key).Msg("Unreadable document, using default")
		return false, nil
	}
	return true, nil
}

// Set replaces the document stored under key
func (s *DocumentStore) Set(ctx context.Context, namespace, key string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %s/%s: %w", namespace, key, err)
	}

	l := s.lock(namespace)
	l.Lock()
	defer l.Unlock()

	docs, err := s.readNamespace(ctx, namespace)
	if err != nil {
		return err
	}
	docs[key] = raw
	return s.writeNamespace(ctx, namespace, docs)
}

// Delete removes key from the namespace; deleting a missing key is a no-op
func (s *DocumentStore) Delete(ctx context.Context, namespace, key string) error {
	l := s.lock(namespace)
	l.Lock()
	defer l.Unlock()

	docs, err := s.readNamespace(ctx, namespace)
	if err != nil {
		return err
	}
	if _, ok := docs[key]; !ok {
		return nil
	}
	delete(docs, key)
	return s.writeNamespace(ctx, namespace, docs)
}

// Keys lists the document keys of a namespace in sorted order
func (s *DocumentStore) Keys(ctx context.Context, namespace string) ([]string, error) {
	l := s.lock(namespace)
	l.RLock()
	defer l.RUnlock()

	docs, err := s.readNamespace(ctx, namespace)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(docs))
	for k := range docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// UpdateFunc receives the current raw document (found=false when absent or
// unreadable) and returns the replacement. Returning an error aborts the write.
type UpdateFunc func(raw json.RawMessage, found bool) (interface{}, error)

// Update performs a read-modify-write of one document while holding the
// namespace write lock
func (s *DocumentStore) Update(ctx context.Context, namespace, key string, fn UpdateFunc) error {
	l := s.lock(namespace)
	l.Lock()
	defer l.Unlock()

	docs, err := s.readNamespace(ctx, namespace)
	if err != nil {
		return err
	}

	raw, found := docs[key]
	next, err := fn(raw, found)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode document %s/%s: %w", namespace, key, err)
	}
	docs[key] = encoded
	return s.writeNamespace(ctx, namespace, docs)
}

// Load returns the document under key, or def() when it is absent or
// unreadable
func Load[T any](ctx context.Context, s *DocumentStore, namespace, key string, def func() T) (T, error) {
	var v T
	found, err := s.Get(ctx, namespace, key, &v)
	if err != nil {
		return def(), err
	}
	if !found {
		return def(), nil
	}
	return v, nil
}

// Mutate loads the document (or def()), applies fn and stores the result
// atomically with respect to other writers of the namespace in this process.
// When fn returns an error nothing is written and the error is returned.
func Mutate[T any](ctx context.Context, s *DocumentStore, namespace, key string, def func() T, fn func(*T) error) (T, error) {
	var result T
	err := s.Update(ctx, namespace, key, func(raw json.RawMessage, found bool) (interface{}, error) {
		v := def()
		if found {
			var decoded T
			if err := json.Unmarshal(raw, &decoded); err != nil {
				log.Warn().Err(err).Str("namespace", namespace).Str("key", key).Msg("Unreadable document, using default")
			} else {
				v = decoded
			}
		}
		if err := fn(&v); err != nil {
			return nil, err
		}
		result = v
		return v, nil
	})
	return result, err
}
