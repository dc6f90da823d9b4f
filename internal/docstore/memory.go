package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Document)}
}

func (s *MemoryStore) Put(ctx context.Context, collection, id string, data []byte) (string, error) {
	if !json.Valid(data) {
		return "", fmt.Errorf("invalid document payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collections[collection]
	if col == nil {
		col = make(map[string]Document)
		s.collections[collection] = col
	}

	if id == "" {
		id = uuid.New().String()
	}

	now := time.Now()
	doc := Document{ID: id, Data: append([]byte(nil), data...), CreatedAt: now, UpdatedAt: now}
	if existing, ok := col[id]; ok {
		doc.CreatedAt = existing.CreatedAt
	}
	col[id] = doc
	return id, nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := doc
	copied.Data = append([]byte(nil), doc.Data...)
	return &copied, nil
}

func (s *MemoryStore) Patch(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collections[collection]
	doc, ok := col[id]
	if !ok {
		return ErrNotFound
	}

	var merged map[string]interface{}
	if err := json.Unmarshal(doc.Data, &merged); err != nil {
		return fmt.Errorf("failed to decode stored document: %w", err)
	}
	for k, v := range fields {
		merged[k] = v
	}

	data, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("failed to encode patched document: %w", err)
	}

	doc.Data = data
	doc.UpdatedAt = time.Now()
	col[id] = doc
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collections[collection]
	if _, ok := col[id]; !ok {
		return ErrNotFound
	}
	delete(col, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, collection string, q Query) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []Document
	for _, doc := range s.collections[collection] {
		if q.Field != "" {
			var fields map[string]interface{}
			if err := json.Unmarshal(doc.Data, &fields); err != nil {
				continue
			}
			if str, _ := fields[q.Field].(string); str != q.Value {
				continue
			}
		}
		copied := doc
		copied.Data = append([]byte(nil), doc.Data...)
		docs = append(docs, copied)
	}

	orderBy := q.OrderBy
	sort.SliceStable(docs, func(i, j int) bool {
		a, b := sortKey(docs[i], orderBy), sortKey(docs[j], orderBy)
		if q.Desc {
			return a > b
		}
		return a < b
	})
	return docs, nil
}

func sortKey(doc Document, field string) string {
	if field == "" {
		return doc.CreatedAt.Format(time.RFC3339Nano)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(doc.Data, &fields); err != nil {
		return ""
	}
	str, _ := fields[field].(string)
	return str
}
