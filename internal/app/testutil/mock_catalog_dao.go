package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"language-learner/internal/app/model"
	"language-learner/internal/app/repository"
)

// MockCatalogDAO is an in-memory repository.CatalogDAO.
type MockCatalogDAO struct {
	mu      sync.RWMutex
	records []model.CatalogRecord
	nextID  int
	closed  bool

	// ErrorMap maps a method name to the error it should return.
	ErrorMap map[string]error
}

// NewMockCatalogDAO creates an empty catalog.
func NewMockCatalogDAO() *MockCatalogDAO {
	return &MockCatalogDAO{nextID: 1, ErrorMap: make(map[string]error)}
}

// WithError makes method fail with err.
func (m *MockCatalogDAO) WithError(method string, err error) *MockCatalogDAO {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorMap[method] = err
	return m
}

func (m *MockCatalogDAO) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ErrorMap["Close"]; err != nil {
		return err
	}
	m.closed = true
	return nil
}

func (m *MockCatalogDAO) Record(_ context.Context, rec model.CatalogRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ErrorMap["Record"]; err != nil {
		return err
	}
	rec.ID = m.nextID
	m.nextID++
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *MockCatalogDAO) GetAllByCourse(_ context.Context, course string) ([]model.CatalogRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.ErrorMap["GetAllByCourse"]; err != nil {
		return nil, err
	}
	out := make([]model.CatalogRecord, 0)
	for _, r := range m.records {
		if r.Course == course {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MockCatalogDAO) CheckIfLessonProcessed(_ context.Context, course, lesson string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.ErrorMap["CheckIfLessonProcessed"]; err != nil {
		return false, err
	}
	for _, r := range m.records {
		if r.Course == course && r.Lesson == lesson && !r.HasError {
			return true, nil
		}
	}
	return false, nil
}

// Records returns a copy of everything recorded so far, oldest first.
func (m *MockCatalogDAO) Records() []model.CatalogRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.CatalogRecord(nil), m.records...)
}

// IsClosed reports whether Close succeeded.
func (m *MockCatalogDAO) IsClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

var _ repository.CatalogDAO = (*MockCatalogDAO)(nil)
