package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"language-learner/internal/app/api"
	"language-learner/internal/app/model"
)

// MockTranscriber is a configurable implementation of api.Transcriber.
// Expectations registered with On("Transcribe", ...) take precedence over the
// configured defaults.
type MockTranscriber struct {
	mock.Mock
	mu sync.RWMutex

	DefaultLatency  time.Duration
	DefaultError    error
	DefaultSegments []model.Segment

	CallCount   int
	CallHistory []TranscriptionCall
	ErrorMap    map[string]error
	ResponseMap map[string]*model.Transcript
}

// TranscriptionCall represents a single transcription call for tracking
type TranscriptionCall struct {
	AudioPath string
	Language  string
	Timestamp time.Time
	Error     error
}

// NewMockTranscriber creates a new MockTranscriber with sensible defaults
func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{
		DefaultSegments: SampleSegments(),
		ErrorMap:        make(map[string]error),
		ResponseMap:     make(map[string]*model.Transcript),
	}
}

// Transcribe implements the api.Transcriber interface
func (m *MockTranscriber) Transcribe(ctx context.Context, audioPath, language string) (*model.Transcript, error) {
	m.mu.Lock()
	m.CallCount++
	call := TranscriptionCall{AudioPath: audioPath, Language: language, Timestamp: time.Now()}
	latency := m.DefaultLatency
	err := m.DefaultError
	if e, ok := m.ErrorMap[audioPath]; ok {
		err = e
	}
	resp, hasResp := m.ResponseMap[audioPath]
	segments := append([]model.Segment(nil), m.DefaultSegments...)
	hasExpectations := len(m.ExpectedCalls) > 0
	m.mu.Unlock()

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			err = ctx.Err()
		}
	}

	if hasExpectations {
		args := m.Called(ctx, audioPath, language)
		if t, ok := args.Get(0).(*model.Transcript); ok {
			resp, hasResp = t, true
		}
		err = args.Error(1)
	}

	var out *model.Transcript
	if err == nil {
		if hasResp {
			copied := *resp
			out = &copied
		} else {
			out = &model.Transcript{Language: language, Segments: segments}
			out.Normalize()
		}
	}

	m.mu.Lock()
	call.Error = err
	m.CallHistory = append(m.CallHistory, call)
	m.mu.Unlock()
	return out, err
}

// Name reports a fixed backend name.
func (m *MockTranscriber) Name() string {
	return "mock"
}

// WithDefaultLatency sets the default processing latency
func (m *MockTranscriber) WithDefaultLatency(latency time.Duration) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DefaultLatency = latency
	return m
}

// WithDefaultError sets the default error to return
func (m *MockTranscriber) WithDefaultError(err error) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DefaultError = err
	return m
}

// SetErrorForFile sets a specific error for a given audio path
func (m *MockTranscriber) SetErrorForFile(audioPath string, err error) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorMap[audioPath] = err
	return m
}

// SetResponseForFile sets a specific transcript for a given audio path
func (m *MockTranscriber) SetResponseForFile(audioPath string, t *model.Transcript) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResponseMap[audioPath] = t
	return m
}

// SimulateProcessingError makes audioPath fail with a processing error.
func (m *MockTranscriber) SimulateProcessingError(audioPath, message string) *MockTranscriber {
	return m.SetErrorForFile(audioPath, fmt.Errorf("processing error: %s", message))
}

// GetCallCount returns the total number of calls made
func (m *MockTranscriber) GetCallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.CallCount
}

// GetCallHistory returns the complete call history
func (m *MockTranscriber) GetCallHistory() []TranscriptionCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	history := make([]TranscriptionCall, len(m.CallHistory))
	copy(history, m.CallHistory)
	return history
}

// WasCalledWith checks if the transcriber was called for a file with the
// given base name.
func (m *MockTranscriber) WasCalledWith(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, call := range m.CallHistory {
		if call.AudioPath == name || filepath.Base(call.AudioPath) == name {
			return true
		}
	}
	return false
}

// CalledStems returns the file stems seen so far, in call order.
func (m *MockTranscriber) CalledStems() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stems := make([]string, 0, len(m.CallHistory))
	for _, call := range m.CallHistory {
		base := filepath.Base(call.AudioPath)
		stems = append(stems, strings.TrimSuffix(base, filepath.Ext(base)))
	}
	return stems
}

// Reset clears all state and returns to default configuration
func (m *MockTranscriber) Reset() *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount = 0
	m.CallHistory = nil
	m.ErrorMap = make(map[string]error)
	m.ResponseMap = make(map[string]*model.Transcript)
	m.DefaultError = nil
	m.DefaultLatency = 0
	return m
}

var (
	_ api.Transcriber = (*MockTranscriber)(nil)
	_ api.Named       = (*MockTranscriber)(nil)
)
