// Package position хранит последний подтверждённый фикс приёмника.
package position

import (
	"fmt"
	"sync"
	"time"
)

// Fix — широта/долгота в знаковых градусах (юг и запад отрицательные).
type Fix struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

func (f Fix) String() string {
	return fmt.Sprintf("{lat: %.7f, lon: %.7f}", f.Latitude, f.Longitude)
}

// Store — общий фикс сессии. Один писатель (цикл чтения), любое число читателей.
// Широта и долгота меняются только вместе: читатель не увидит пару из разных предложений.
type Store struct {
	mu      sync.RWMutex
	fix     Fix
	updated time.Time
	count   uint64
}

// NewStore создаёт хранилище с нулевым фиксом.
func NewStore() *Store {
	return &Store{}
}

// Set заменяет фикс целиком.
func (s *Store) Set(f Fix) {
	s.mu.Lock()
	s.fix = f
	s.updated = time.Now()
	s.count++
	s.mu.Unlock()
}

// Get возвращает текущий фикс.
func (s *Store) Get() Fix {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fix
}

// Snapshot — фикс, время последнего обновления и число обновлений; updated нулевой, пока фикса не было.
func (s *Store) Snapshot() (f Fix, updated time.Time, count uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fix, s.updated, s.count
}
