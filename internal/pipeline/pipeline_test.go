package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/poi-cli/internal/annotate"
	"github.com/sells-group/poi-cli/internal/geo"
	"github.com/sells-group/poi-cli/internal/listing"
	"github.com/sells-group/poi-cli/internal/store"
)

func geotagged(id, where string) listing.Listing {
	c := geo.NewCoordinate(37.7749, -122.4194)
	return listing.Listing{ID: id, Name: "listing " + id, URL: "https://x/" + id, Price: "$3000", Where: where, Geotag: &c}
}

func somaRecord() *annotate.Record {
	return &annotate.Record{AreaFound: true, Area: "soma", DriveTime: "Unknown"}
}

func TestRun_AnnotatesSavesAndPosts(t *testing.T) {
	a := &mockAnnotator{}
	st := &mockStore{}
	n := &mockNotifier{}
	rec := somaRecord()
	l := geotagged("1", "SOMA")

	st.On("Seen", mock.Anything, "1").Return(false, nil)
	a.On("Annotate", mock.Anything, *l.Geotag, "SOMA").Return(rec)
	st.On("Save", mock.Anything, l, rec).Return(&store.Entry{Listing: l, Record: *rec}, nil)
	n.On("Enabled").Return(true)
	n.On("Notify", mock.Anything, l, rec).Return(nil)
	st.On("MarkPosted", mock.Anything, "1").Return(nil)

	r := NewRunner(a, st, n, Options{Concurrency: 2})
	summary, err := r.Run(context.Background(), []listing.Listing{l})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Annotated)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, StatusAnnotated, summary.Results[0].Status)
	assert.Same(t, rec, summary.Results[0].Record)

	a.AssertExpectations(t)
	st.AssertExpectations(t)
	n.AssertExpectations(t)
}

func TestRun_SkipsSeenAndUngeotagged(t *testing.T) {
	a := &mockAnnotator{}
	st := &mockStore{}

	st.On("Seen", mock.Anything, "seen").Return(true, nil)
	noGeo := listing.Listing{ID: "nogeo", URL: "https://x/nogeo"}

	r := NewRunner(a, st, nil, Options{Concurrency: 4})
	summary, err := r.Run(context.Background(), []listing.Listing{geotagged("seen", ""), noGeo})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 0, summary.Annotated)
	assert.Equal(t, "already seen", summary.Results[0].Reason)
	assert.Equal(t, "no geotag", summary.Results[1].Reason)

	a.AssertNotCalled(t, "Annotate", mock.Anything, mock.Anything, mock.Anything)
	st.AssertExpectations(t)
}

func TestRun_RepeatedListingPostedOnce(t *testing.T) {
	a := &mockAnnotator{}
	st := &mockStore{}
	n := &mockNotifier{}
	rec := somaRecord()
	l := geotagged("1", "")

	st.On("Seen", mock.Anything, "1").Return(false, nil)
	a.On("Annotate", mock.Anything, *l.Geotag, "").Return(rec)
	st.On("Save", mock.Anything, l, rec).Return(&store.Entry{Listing: l, Record: *rec}, nil)
	n.On("Enabled").Return(true)
	n.On("Notify", mock.Anything, l, rec).Return(nil)
	st.On("MarkPosted", mock.Anything, "1").Return(nil)

	r := NewRunner(a, st, n, Options{Concurrency: 4})
	summary, err := r.Run(context.Background(), []listing.Listing{l, l})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Annotated)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, StatusAnnotated, summary.Results[0].Status)
	assert.Equal(t, StatusSkipped, summary.Results[1].Status)
	assert.Equal(t, "duplicate in batch", summary.Results[1].Reason)

	a.AssertNumberOfCalls(t, "Annotate", 1)
	st.AssertNumberOfCalls(t, "Save", 1)
	n.AssertNumberOfCalls(t, "Notify", 1)
	st.AssertNumberOfCalls(t, "MarkPosted", 1)
}

func TestRun_FailuresDoNotAbortBatch(t *testing.T) {
	a := &mockAnnotator{}
	st := &mockStore{}
	n := &mockNotifier{}

	good := geotagged("good", "")
	badSave := geotagged("bad-save", "")
	badPost := geotagged("bad-post", "")
	badSeen := geotagged("bad-seen", "")

	a.On("Annotate", mock.Anything, mock.Anything, mock.Anything).Return(somaRecord())
	st.On("Seen", mock.Anything, "bad-seen").Return(false, errors.New("db down"))
	st.On("Seen", mock.Anything, mock.Anything).Return(false, nil)
	st.On("Save", mock.Anything, badSave, mock.Anything).Return(nil, errors.New("disk full"))
	st.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(&store.Entry{}, nil)
	n.On("Enabled").Return(true)
	n.On("Notify", mock.Anything, badPost, mock.Anything).Return(errors.New("invalid_auth"))
	n.On("Notify", mock.Anything, good, mock.Anything).Return(nil)
	st.On("MarkPosted", mock.Anything, "good").Return(nil)

	r := NewRunner(a, st, n, Options{Concurrency: 2})
	summary, err := r.Run(context.Background(), []listing.Listing{good, badSave, badPost, badSeen})
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 1, summary.Annotated)
	assert.Equal(t, 3, summary.Failed)
	assert.Equal(t, StatusAnnotated, summary.Results[0].Status)
	assert.Contains(t, summary.Results[1].Reason, "disk full")
	assert.Contains(t, summary.Results[2].Reason, "invalid_auth")
	assert.Contains(t, summary.Results[3].Reason, "db down")
	st.AssertNotCalled(t, "MarkPosted", mock.Anything, "bad-post")
}

func TestRun_DryRunDoesNotSaveOrPost(t *testing.T) {
	a := &mockAnnotator{}
	st := &mockStore{}
	n := &mockNotifier{}

	a.On("Annotate", mock.Anything, mock.Anything, mock.Anything).Return(somaRecord())
	st.On("Seen", mock.Anything, "1").Return(false, nil)

	r := NewRunner(a, st, n, Options{Concurrency: 1, DryRun: true})
	summary, err := r.Run(context.Background(), []listing.Listing{geotagged("1", "")})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Annotated)
	st.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	n.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_WithoutStoreOrNotifier(t *testing.T) {
	a := &mockAnnotator{}
	a.On("Annotate", mock.Anything, mock.Anything, "mission").Return(&annotate.Record{Area: "mission"})

	r := NewRunner(a, nil, nil, Options{})
	summary, err := r.Run(context.Background(), []listing.Listing{geotagged("1", "mission")})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Annotated)
	assert.Equal(t, "mission", summary.Results[0].Record.Area)
}

func TestRun_DisabledNotifierSkipsMarkPosted(t *testing.T) {
	a := &mockAnnotator{}
	st := &mockStore{}
	n := &mockNotifier{}

	a.On("Annotate", mock.Anything, mock.Anything, mock.Anything).Return(somaRecord())
	st.On("Seen", mock.Anything, "1").Return(false, nil)
	st.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(&store.Entry{}, nil)
	n.On("Enabled").Return(false)

	r := NewRunner(a, st, n, Options{Concurrency: 1})
	summary, err := r.Run(context.Background(), []listing.Listing{geotagged("1", "")})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Annotated)
	st.AssertNotCalled(t, "MarkPosted", mock.Anything, mock.Anything)
}

func TestRun_Empty(t *testing.T) {
	r := NewRunner(&mockAnnotator{}, nil, nil, Options{Concurrency: 1})
	summary, err := r.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total)
	assert.Empty(t, summary.Results)
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(&mockAnnotator{}, nil, nil, Options{Concurrency: 1})
	_, err := r.Run(ctx, []listing.Listing{geotagged("1", "")})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRunner_ClampsConcurrency(t *testing.T) {
	r := NewRunner(&mockAnnotator{}, nil, nil, Options{Concurrency: 0})
	assert.Equal(t, 1, r.opts.Concurrency)
}
