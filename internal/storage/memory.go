package storage

import (
	"fmt"
	"sync"
)

// MemoryStore 内存键值存储，测试与降级运行使用
type MemoryStore struct {
	data         map[string]string
	maxValueSize int
	mu           sync.RWMutex
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

// NewMemoryStoreWithLimit 创建带单值字节上限的内存存储
func NewMemoryStoreWithLimit(maxValueSize int) *MemoryStore {
	return &MemoryStore{data: make(map[string]string), maxValueSize: maxValueSize}
}

// Load 读取键值
func (s *MemoryStore) Load(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

// Save 写入键值
func (s *MemoryStore) Save(key, value string) error {
	if s.maxValueSize > 0 && len(value) > s.maxValueSize {
		return fmt.Errorf("save %q (%d bytes): %w", key, len(value), ErrCapacityExceeded)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Close 无资源可释放
func (s *MemoryStore) Close() error {
	return nil
}
