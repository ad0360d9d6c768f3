package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tickforge/tickforge/internal/core/storage"
	"github.com/tickforge/tickforge/internal/core/world"
)

const entityDocPrefix = "entity/"

// SaveTo writes every live entity as a JSON document into the store, one
// document per entity, named by id. Dispatch is paused for the duration so
// the snapshot is consistent.
func (e *Engine) SaveTo(store storage.DocumentStore) error {
	e.runMu.Lock()
	entities := e.store.All().Collect()
	e.runMu.Unlock()

	var all error
	for _, ent := range entities {
		doc, err := json.Marshal(ent)
		if err != nil {
			all = errors.Join(all, fmt.Errorf("marshal entity %s: %w", ent.ID, err))
			continue
		}
		if err := store.Put(entityDocPrefix+ent.ID, doc); err != nil {
			all = errors.Join(all, fmt.Errorf("store entity %s: %w", ent.ID, err))
		}
	}
	return all
}

// RestoreFrom loads entity documents back into the world. Documents whose id
// already exists live are skipped, so a restore over a running world never
// clobbers current state.
func (e *Engine) RestoreFrom(store storage.DocumentStore) (int, error) {
	names, err := store.List(entityDocPrefix)
	if err != nil {
		return 0, fmt.Errorf("list entity documents: %w", err)
	}

	restored := 0
	var all error
	for _, name := range names {
		doc, err := store.Get(name)
		if err != nil {
			all = errors.Join(all, err)
			continue
		}
		var ent world.Entity
		if err := json.Unmarshal(doc, &ent); err != nil {
			all = errors.Join(all, fmt.Errorf("decode %s: %w", name, err))
			continue
		}
		if ent.ID == "" {
			ent.ID = strings.TrimPrefix(name, entityDocPrefix)
		}
		if err := e.store.Add(&ent); err != nil {
			if errors.Is(err, world.ErrDuplicateID) {
				continue
			}
			all = errors.Join(all, err)
			continue
		}
		restored++
	}
	return restored, all
}
