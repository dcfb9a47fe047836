package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/poi-cli/internal/annotate"
	"github.com/sells-group/poi-cli/internal/geo"
	"github.com/sells-group/poi-cli/internal/listing"
	"github.com/sells-group/poi-cli/internal/store"
)

// --- Annotator Mock ---

type mockAnnotator struct {
	mock.Mock
}

func (m *mockAnnotator) Annotate(ctx context.Context, c geo.Coordinate, location string) *annotate.Record {
	args := m.Called(ctx, c, location)
	return args.Get(0).(*annotate.Record)
}

// --- Store Mock ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Seen(ctx context.Context, listingID string) (bool, error) {
	args := m.Called(ctx, listingID)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) Save(ctx context.Context, l listing.Listing, rec *annotate.Record) (*store.Entry, error) {
	args := m.Called(ctx, l, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Entry), args.Error(1)
}

func (m *mockStore) MarkPosted(ctx context.Context, listingID string) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

func (m *mockStore) Get(ctx context.Context, listingID string) (*store.Entry, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Entry), args.Error(1)
}

func (m *mockStore) List(ctx context.Context, filter store.Filter) ([]store.Entry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Entry), args.Error(1)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}

// --- Notifier Mock ---

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Enabled() bool {
	return m.Called().Bool(0)
}

func (m *mockNotifier) Notify(ctx context.Context, l listing.Listing, rec *annotate.Record) error {
	return m.Called(ctx, l, rec).Error(0)
}
