package eventsrc

import (
	"context"

	"github.com/huangsam/netseries/internal/contract"
	"github.com/huangsam/netseries/schema"
	"github.com/stretchr/testify/mock"
)

// MockEventSource is a mock implementation of EventSource for testing.
type MockEventSource struct {
	mock.Mock
}

var _ contract.EventSource = &MockEventSource{} // Compile-time check

// Load implements the EventSource interface.
func (m *MockEventSource) Load(ctx context.Context) ([]schema.Event, error) {
	args := m.Called(ctx)
	events, _ := args.Get(0).([]schema.Event)
	return events, args.Error(1)
}

// Describe implements the EventSource interface.
func (m *MockEventSource) Describe() string {
	args := m.Called()
	return args.String(0)
}

// Close implements the EventSource interface.
func (m *MockEventSource) Close() error {
	args := m.Called()
	return args.Error(0)
}
