package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
)

type memObject struct {
	data        []byte
	contentType string
	metadata    map[string]string
}

// Memory is an in-memory Store for tests and local development.
// The Fail* hooks let tests inject failures for individual keys.
type Memory struct {
	mu      sync.Mutex
	objects map[string]memObject

	FailPut    func(key string) error
	FailGet    func(key string) error
	FailDelete func(key string) error
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]memObject)}
}

// Put stores data under key.
func (m *Memory) Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.FailPut != nil {
		if err := m.FailPut(key); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	m.objects[key] = memObject{data: buf, contentType: contentType, metadata: metadata}
	return nil
}

// Get returns the object under key, or ErrNotFound.
func (m *Memory) Get(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if m.FailGet != nil {
		if err := m.FailGet(key); err != nil {
			return nil, nil, err
		}
	}

	m.mu.Lock()
	obj, ok := m.objects[key]
	m.mu.Unlock()
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	info := &ObjectInfo{ContentType: obj.contentType, Size: int64(len(obj.data))}
	return io.NopCloser(bytes.NewReader(obj.data)), info, nil
}

// Delete removes the object under key; absent keys are a success.
func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.FailDelete != nil {
		if err := m.FailDelete(key); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Has reports whether an object exists under key.
func (m *Memory) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

// Keys returns all stored keys, sorted.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Metadata returns the stored metadata of an object, or nil.
func (m *Memory) Metadata(key string) map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.objects[key].metadata
}

var _ Store = (*Memory)(nil)
var _ Store = (*S3Store)(nil)
