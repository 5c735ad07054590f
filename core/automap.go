package core

import (
	"context"
	"fmt"
	"sync"
)

// AutoMap caches instances of one resource type by the string form of their id.
// A miss triggers a find; only instances that exist remotely are cached.
type AutoMap struct {
	resourceType *ResourceType
	mu           sync.Mutex
	items        map[string]*Instance
}

func NewAutoMap(t *ResourceType) *AutoMap {
	return &AutoMap{resourceType: t, items: map[string]*Instance{}}
}

// Get returns the cached instance for id, fetching it on a miss.
// A 404 yields (nil, nil) and caches nothing.
func (m *AutoMap) Get(ctx context.Context, id any) (*Instance, error) {
	key := fmt.Sprint(id)
	m.mu.Lock()
	inst, ok := m.items[key]
	m.mu.Unlock()
	if ok {
		return inst, nil
	}
	inst, err := m.resourceType.Find(ctx, id)
	if err != nil || inst == nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if cached, ok := m.items[key]; ok {
		return cached, nil
	}
	m.items[key] = inst
	return inst, nil
}

// Put stores inst under its own id.
func (m *AutoMap) Put(inst *Instance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[fmt.Sprint(inst.ID())] = inst
}

func (m *AutoMap) Delete(id any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, fmt.Sprint(id))
}

func (m *AutoMap) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
