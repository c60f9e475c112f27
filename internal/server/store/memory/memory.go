// Package memory is an in-process record store. Records are kept as JSON
// documents, so they go through the same encode/decode path as the Postgres
// backend. It is used by tests and by -storage=memory for local runs.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/dmitrijs2005/matchmaker/internal/common"
	"github.com/dmitrijs2005/matchmaker/internal/server/store"
)

type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
}

func New() *Store {
	return &Store{collections: make(map[string]map[string]map[string]any)}
}

func (s *Store) GetByID(_ context.Context, c store.Collection, id string, out any) error {
	s.mu.RLock()
	doc, ok := s.collections[c.Name][id]
	s.mu.RUnlock()
	if !ok {
		return common.ErrorNotFound
	}
	return decode(doc, out)
}

func (s *Store) Scan(_ context.Context, c store.Collection, p store.Predicate, out any) error {
	conds := p.Conditions()
	want := make([]any, len(conds))
	for i, cond := range conds {
		v, err := normalize(cond.Value)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrorStoreUnavailable, err)
		}
		want[i] = v
	}

	s.mu.RLock()
	ids := make([]string, 0, len(s.collections[c.Name]))
	for id := range s.collections[c.Name] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	matched := make([]map[string]any, 0)
	for _, id := range ids {
		doc := s.collections[c.Name][id]
		if matches(doc, conds, want) {
			matched = append(matched, doc)
		}
	}
	s.mu.RUnlock()

	return decode(matched, out)
}

func (s *Store) Put(_ context.Context, c store.Collection, item any) error {
	doc, err := toDocument(item)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorStoreUnavailable, err)
	}
	id, _ := doc[c.Key].(string)
	if id == "" {
		return fmt.Errorf("%w: item has no %q", common.ErrorStoreUnavailable, c.Key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collections[c.Name] == nil {
		s.collections[c.Name] = make(map[string]map[string]any)
	}
	s.collections[c.Name][id] = doc
	return nil
}

func (s *Store) Update(_ context.Context, c store.Collection, id string, set []store.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[c.Name][id]
	if !ok {
		return common.ErrorNotFound
	}

	next := make(map[string]any, len(doc)+len(set))
	for k, v := range doc {
		next[k] = v
	}
	for _, a := range set {
		v, err := normalize(a.Value)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrorStoreUnavailable, err)
		}
		next[a.Field] = v
	}
	s.collections[c.Name][id] = next
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func matches(doc map[string]any, conds []store.Condition, want []any) bool {
	for i, cond := range conds {
		if cond.Op != store.OpEqual {
			return false
		}
		got, ok := doc[cond.Field]
		if !ok || !reflect.DeepEqual(got, want[i]) {
			return false
		}
	}
	return true
}

// normalize passes v through JSON so it compares equal to decoded documents
// (numbers become float64 and so on).
func normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func toDocument(item any) (map[string]any, error) {
	b, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}
	doc := make(map[string]any)
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func decode(v any, out any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorStoreUnavailable, err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorStoreUnavailable, err)
	}
	return nil
}
