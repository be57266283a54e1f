// Package concurrency holds the serialization and retry primitives shared by
// the opening and battle services.
package concurrency

import (
	"sync"
)

// LockManager handles named locks. One lock per key serializes every
// mutation of the resource behind it, e.g. a user's balance and nonce pair
// or a battle's slot array.
type LockManager struct {
	locks sync.Map
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns a mutex for the given key
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// WithLock runs fn while holding the lock for key
func (lm *LockManager) WithLock(key string, fn func() error) error {
	mu := lm.GetLock(key)
	mu.Lock()
	defer mu.Unlock()
	return fn()
}

// Forget drops the lock for a key that will not be used again
func (lm *LockManager) Forget(key string) {
	lm.locks.Delete(key)
}

// UserKey is the lock key for a user's balance and nonce
func UserKey(userID string) string {
	return "user:" + userID
}

// BattleKey is the lock key for a battle's slot array
func BattleKey(battleID string) string {
	return "battle:" + battleID
}
