package transaction

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Store 内存中的交易记录存储
// 记录只增不删：被替换的记录标记为 replaced 而不是移除
type Store struct {
	mu      sync.RWMutex
	records map[string]*Record
	order   []string
}

// NewStore 创建记录存储
func NewStore() *Store {
	return &Store{
		records: make(map[string]*Record),
	}
}

// Create 写入一条新记录，初始状态强制为 created
func (st *Store) Create(rec *Record) error {
	if rec == nil || rec.ID == "" {
		return errors.New("record must have an ID")
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if _, exists := st.records[rec.ID]; exists {
		return errors.Errorf("record already exists: %s", rec.ID)
	}

	rec.Status = StatusCreated
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	st.records[rec.ID] = rec
	st.order = append(st.order, rec.ID)

	return nil
}

// Get 按 ID 查询记录副本
func (st *Store) Get(id string) (*Record, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	rec, ok := st.records[id]
	if !ok {
		return nil, false
	}

	clone := *rec
	return &clone, true
}

// List 返回全部记录副本（按创建顺序）
func (st *Store) List() []*Record {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]*Record, 0, len(st.order))
	for _, id := range st.order {
		clone := *st.records[id]
		out = append(out, &clone)
	}

	return out
}

// Transition 推进记录状态，拒绝非法迁移
// mutate 在持锁状态下执行，用于同步补充哈希、nonce 等字段
func (st *Store) Transition(id string, to Status, mutate func(*Record)) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	rec, ok := st.records[id]
	if !ok {
		return errors.Errorf("record not found: %s", id)
	}

	if !CanTransition(rec.Status, to) {
		return errors.Errorf("illegal status transition %s -> %s for record %s", rec.Status, to, id)
	}

	rec.Status = to
	if mutate != nil {
		mutate(rec)
	}

	return nil
}

// MarkReplaced 将记录标记为被替换
func (st *Store) MarkReplaced(id string, replacementHash string) error {
	return st.Transition(id, StatusReplaced, func(rec *Record) {
		rec.Error = "replaced by " + replacementHash
	})
}
