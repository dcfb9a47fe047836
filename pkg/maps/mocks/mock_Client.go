// Package mocks provides test doubles for the maps client.
package mocks

import (
	"context"

	maps "github.com/sells-group/poi-cli/pkg/maps"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// WalkingTime provides a mock function with given fields: ctx, lat, lon, destLat, destLon
func (_m *MockClient) WalkingTime(ctx context.Context, lat float64, lon float64, destLat float64, destLon float64) (*maps.TravelTime, error) {
	ret := _m.Called(ctx, lat, lon, destLat, destLon)

	if len(ret) == 0 {
		panic("no return value specified for WalkingTime")
	}

	var r0 *maps.TravelTime
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, float64, float64, float64, float64) (*maps.TravelTime, error)); ok {
		return rf(ctx, lat, lon, destLat, destLon)
	}
	if rf, ok := ret.Get(0).(func(context.Context, float64, float64, float64, float64) *maps.TravelTime); ok {
		r0 = rf(ctx, lat, lon, destLat, destLon)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*maps.TravelTime)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, float64, float64, float64, float64) error); ok {
		r1 = rf(ctx, lat, lon, destLat, destLon)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// DrivingTime provides a mock function with given fields: ctx, lat, lon, destination
func (_m *MockClient) DrivingTime(ctx context.Context, lat float64, lon float64, destination string) (*maps.TravelTime, error) {
	ret := _m.Called(ctx, lat, lon, destination)

	if len(ret) == 0 {
		panic("no return value specified for DrivingTime")
	}

	var r0 *maps.TravelTime
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, float64, float64, string) (*maps.TravelTime, error)); ok {
		return rf(ctx, lat, lon, destination)
	}
	if rf, ok := ret.Get(0).(func(context.Context, float64, float64, string) *maps.TravelTime); ok {
		r0 = rf(ctx, lat, lon, destination)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*maps.TravelTime)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, float64, float64, string) error); ok {
		r1 = rf(ctx, lat, lon, destination)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ReverseGeocode provides a mock function with given fields: ctx, lat, lon
func (_m *MockClient) ReverseGeocode(ctx context.Context, lat float64, lon float64) (string, error) {
	ret := _m.Called(ctx, lat, lon)

	if len(ret) == 0 {
		panic("no return value specified for ReverseGeocode")
	}

	var r0 string
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, float64, float64) (string, error)); ok {
		return rf(ctx, lat, lon)
	}
	if rf, ok := ret.Get(0).(func(context.Context, float64, float64) string); ok {
		r0 = rf(ctx, lat, lon)
	} else {
		r0 = ret.Get(0).(string)
	}

	if rf, ok := ret.Get(1).(func(context.Context, float64, float64) error); ok {
		r1 = rf(ctx, lat, lon)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockClient creates a new instance of MockClient. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	mock := &MockClient{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
