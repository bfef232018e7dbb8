package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/privatep88/record-water-elc/internal/model"
	"github.com/privatep88/record-water-elc/internal/storage"
)

// 三个根集合各占一个逻辑键，字符串 JSON 落盘。
// 落盘失败不致命：内存状态仍然权威，调用方记告警即可。

// LoadFrom 从存储加载三个集合，键缺失按空集合处理
func (l *Ledger) LoadFrom(store storage.Store) error {
	var template []*model.SiteData
	if err := loadJSON(store, storage.KeyTemplate, &template); err != nil {
		return err
	}

	years := make(map[int][]*model.SiteData)
	if err := loadJSON(store, storage.KeyYearData, &years); err != nil {
		return err
	}

	archive := make(map[int][]*model.SiteData)
	if err := loadJSON(store, storage.KeyArchiveData, &archive); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.template = template
	l.years = years
	l.archive = archive
	return nil
}

// SaveTo 将三个集合写入存储
func (l *Ledger) SaveTo(store storage.Store) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err := saveJSON(store, storage.KeyTemplate, l.template); err != nil {
		return err
	}
	if err := saveJSON(store, storage.KeyYearData, l.years); err != nil {
		return err
	}
	if err := saveJSON(store, storage.KeyArchiveData, l.archive); err != nil {
		return err
	}
	return nil
}

func loadJSON(store storage.Store, key string, out interface{}) error {
	raw, ok, err := store.Load(key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if !ok || raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func saveJSON(store storage.Store, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Save(key, string(data)); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}
