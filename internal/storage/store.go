package storage

import "errors"

// 逻辑存储键，核心只认这三个
const (
	KeyYearData    = "year-data"
	KeyTemplate    = "template"
	KeyArchiveData = "archive-data"
)

// ErrCapacityExceeded 存储容量超限
// 持久化失败不致命：内存状态仍然权威可用
var ErrCapacityExceeded = errors.New("storage capacity exceeded")

// Store 键值持久化端口（字符串值）
// 核心不接触具体存储实现，由宿主注入
type Store interface {
	// Load 读取键值；键不存在时返回 ("", false, nil)
	Load(key string) (string, bool, error)
	// Save 写入键值，可能因容量超限失败
	Save(key, value string) error
	// Close 释放底层资源
	Close() error
}
