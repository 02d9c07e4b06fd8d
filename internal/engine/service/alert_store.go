package service

import (
	"sort"
	"sync"
	"sync/atomic"

	"stock-insight-engine/internal/entity"
)

// AlertStore holds the current alert set in memory. Alerts are ephemeral:
// each synthesis run fully replaces the previous set, and nothing survives
// a restart.
type AlertStore struct {
	mu     sync.RWMutex
	alerts []entity.Alert
	nextID atomic.Int64
}

// NewAlertStore creates an empty store.
func NewAlertStore() *AlertStore {
	return &AlertStore{}
}

// NextID hands out monotonically increasing alert ids.
func (s *AlertStore) NextID() int64 {
	return s.nextID.Add(1)
}

// Replace swaps in a freshly synthesized alert set, discarding the old one.
func (s *AlertStore) Replace(alerts []entity.Alert) {
	sortAlerts(alerts)
	s.mu.Lock()
	s.alerts = alerts
	s.mu.Unlock()
}

// List returns the current alerts in their deterministic order.
func (s *AlertStore) List() []entity.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// MarkRead flags one alert as read and re-sorts. Returns false when the id
// is unknown.
func (s *AlertStore) MarkRead(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alerts {
		if s.alerts[i].ID == id {
			s.alerts[i].Read = true
			sortAlerts(s.alerts)
			return true
		}
	}
	return false
}

// Delete removes one alert. Returns false when the id is unknown.
func (s *AlertStore) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alerts {
		if s.alerts[i].ID == id {
			s.alerts = append(s.alerts[:i], s.alerts[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops every alert.
func (s *AlertStore) Clear() {
	s.mu.Lock()
	s.alerts = nil
	s.mu.Unlock()
}

// sortAlerts imposes the ordering contract: unread before read, then
// severity high < medium < low, ties broken by descending id so the newest
// alert wins.
func sortAlerts(alerts []entity.Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if a.Read != b.Read {
			return !a.Read
		}
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() < b.Severity.Rank()
		}
		return a.ID > b.ID
	})
}
