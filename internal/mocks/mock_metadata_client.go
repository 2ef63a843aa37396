// Package mocks holds testify mocks of the ports, in mockery's expecter style.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/api-integration/internal/domain/dataset"
	"github.com/jsamuelsen/api-integration/internal/domain/result"
	"github.com/jsamuelsen/api-integration/internal/ports"
)

var _ ports.MetadataClient = (*MockMetadataClient)(nil)

// MockMetadataClient is a mock of ports.MetadataClient.
type MockMetadataClient struct {
	mock.Mock
}

// NewMockMetadataClient creates a mock whose expectations are asserted when
// the test ends.
func NewMockMetadataClient(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockMetadataClient {
	m := &MockMetadataClient{}
	m.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockMetadataClientExpecter records typed expectations.
type MockMetadataClientExpecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expectation recorder.
func (m *MockMetadataClient) EXPECT() *MockMetadataClientExpecter {
	return &MockMetadataClientExpecter{mock: &m.Mock}
}

// FetchByID provides a mock function.
func (m *MockMetadataClient) FetchByID(ctx context.Context, id int) result.Of[*dataset.Metadata] {
	ret := m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for FetchByID")
	}

	if fn, ok := ret.Get(0).(func(context.Context, int) result.Of[*dataset.Metadata]); ok {
		return fn(ctx, id)
	}

	return ret.Get(0).(result.Of[*dataset.Metadata])
}

// MockMetadataClientFetchByIDCall is a typed FetchByID expectation.
type MockMetadataClientFetchByIDCall struct {
	*mock.Call
}

// FetchByID expects a FetchByID call with the given arguments.
func (e *MockMetadataClientExpecter) FetchByID(ctx, id any) *MockMetadataClientFetchByIDCall {
	return &MockMetadataClientFetchByIDCall{Call: e.mock.On("FetchByID", ctx, id)}
}

// Return sets the result of the call.
func (c *MockMetadataClientFetchByIDCall) Return(r result.Of[*dataset.Metadata]) *MockMetadataClientFetchByIDCall {
	c.Call.Return(r)
	return c
}

// RunAndReturn computes the result from the call arguments.
func (c *MockMetadataClientFetchByIDCall) RunAndReturn(fn func(context.Context, int) result.Of[*dataset.Metadata]) *MockMetadataClientFetchByIDCall {
	c.Call.Return(fn)
	return c
}

// Times limits how often the call may happen.
func (c *MockMetadataClientFetchByIDCall) Times(n int) *MockMetadataClientFetchByIDCall {
	c.Call.Times(n)
	return c
}

// Once expects exactly one call.
func (c *MockMetadataClientFetchByIDCall) Once() *MockMetadataClientFetchByIDCall {
	c.Call.Once()
	return c
}
