package storage

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var _ DocumentStore = (*MemoryStore)(nil)

// MemoryStore is an in-process DocumentStore. Suitable for tests and
// single-node deployments without durability requirements.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore creates an empty in-memory document store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (m *MemoryStore) Put(name string, doc []byte) error {
	cp := make([]byte, len(doc))
	copy(cp, doc)
	m.mu.Lock()
	m.docs[name] = cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Get(name string) ([]byte, error) {
	m.mu.RLock()
	doc, ok := m.docs[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, name)
	}
	cp := make([]byte, len(doc))
	copy(cp, doc)
	return cp, nil
}

func (m *MemoryStore) Delete(name string) error {
	m.mu.Lock()
	delete(m.docs, name)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) List(prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.docs))
	for name := range m.docs {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}
