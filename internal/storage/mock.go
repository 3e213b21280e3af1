package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/Veraticus/macro-log/internal/common"
	"github.com/Veraticus/macro-log/internal/model"
	"github.com/Veraticus/macro-log/internal/service"
	"github.com/google/uuid"
)

var _ service.Storage = (*MockStorage)(nil)

// MockStorage is an in-memory Storage for tests. Setting Err makes every call fail.
type MockStorage struct {
	Err     error
	targets model.Targets
	entries []model.Entry
	weights []model.WeightEntry
	calls   []string
	mu      sync.Mutex
}

// NewMockStorage creates a mock seeded with entries.
func NewMockStorage(entries ...model.Entry) *MockStorage {
	m := &MockStorage{}
	m.entries = append(m.entries, entries...)
	return m
}

// Calls returns the names of the methods invoked so far.
func (m *MockStorage) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockStorage) record(name string) error {
	m.calls = append(m.calls, name)
	return m.Err
}

// AddEntry implements service.EntryStore.
func (m *MockStorage) AddEntry(_ context.Context, entry *model.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("AddEntry"); err != nil {
		return err
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	m.entries = append(m.entries, *entry)
	return nil
}

// GetEntries implements service.EntryStore.
func (m *MockStorage) GetEntries(_ context.Context, filter service.EntryFilter) ([]model.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetEntries"); err != nil {
		return nil, err
	}
	var out []model.Entry
	for _, e := range m.entries {
		if filter.Matches(e.Date) {
			out = append(out, e)
		}
	}
	return out, nil
}

// GetEntry implements service.EntryStore.
func (m *MockStorage) GetEntry(_ context.Context, id string) (*model.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetEntry"); err != nil {
		return nil, err
	}
	for _, e := range m.entries {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, fmt.Errorf("entry %s: %w", id, common.ErrNotFound)
}

// UpdateEntry implements service.EntryStore.
func (m *MockStorage) UpdateEntry(_ context.Context, entry *model.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("UpdateEntry"); err != nil {
		return err
	}
	for i := range m.entries {
		if m.entries[i].ID == entry.ID {
			m.entries[i] = *entry
			return nil
		}
	}
	return fmt.Errorf("entry %s: %w", entry.ID, common.ErrNotFound)
}

// DeleteEntry implements service.EntryStore.
func (m *MockStorage) DeleteEntry(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("DeleteEntry"); err != nil {
		return err
	}
	for i := range m.entries {
		if m.entries[i].ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("entry %s: %w", id, common.ErrNotFound)
}

// AddWeight implements service.WeightStore.
func (m *MockStorage) AddWeight(_ context.Context, weight *model.WeightEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("AddWeight"); err != nil {
		return err
	}
	if weight.ID == "" {
		weight.ID = uuid.NewString()
	}
	m.weights = append(m.weights, *weight)
	return nil
}

// GetWeights implements service.WeightStore.
func (m *MockStorage) GetWeights(_ context.Context, filter service.EntryFilter) ([]model.WeightEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetWeights"); err != nil {
		return nil, err
	}
	var out []model.WeightEntry
	for _, w := range m.weights {
		if filter.Matches(w.Date) {
			out = append(out, w)
		}
	}
	return out, nil
}

// DeleteWeight implements service.WeightStore.
func (m *MockStorage) DeleteWeight(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("DeleteWeight"); err != nil {
		return err
	}
	for i := range m.weights {
		if m.weights[i].ID == id {
			m.weights = append(m.weights[:i], m.weights[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("weight %s: %w", id, common.ErrNotFound)
}

// GetTargets implements service.TargetStore.
func (m *MockStorage) GetTargets(_ context.Context) (*model.Targets, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetTargets"); err != nil {
		return nil, err
	}
	t := m.targets
	return &t, nil
}

// SetTargets implements service.TargetStore.
func (m *MockStorage) SetTargets(_ context.Context, targets *model.Targets) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("SetTargets"); err != nil {
		return err
	}
	m.targets = *targets
	return nil
}

// Close implements service.Storage.
func (m *MockStorage) Close() error {
	return nil
}
