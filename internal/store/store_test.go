package store

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/hm2prom/internal/ccu"
	"github.com/nerrad567/hm2prom/internal/ccu/ccutest"
)

func newLoadedStore(t *testing.T) (*Store, *ccutest.Server) {
	t.Helper()
	srv := ccutest.NewServer(t)
	s := New(ccu.New(srv.Config()))
	require.NoError(t, s.Load(context.Background()))
	return s, srv
}

func TestStore_SnapshotBeforeLoad(t *testing.T) {
	s := New(ccu.New(ccutest.NewServer(t).Config()))

	_, err := s.Snapshot()
	assert.True(t, errors.Is(err, ErrNotLoaded))

	err = s.Refresh(context.Background(), ccu.DocStates)
	assert.True(t, errors.Is(err, ErrNotLoaded))
}

func TestStore_Load(t *testing.T) {
	s, _ := newLoadedStore(t)

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.Len(t, snap.Devices.Devices, 2)
	assert.Len(t, snap.Sysvars.Variables, 6)
	assert.Len(t, snap.RSSI.Samples, 2)
	for _, doc := range ccu.AllDocuments {
		assert.False(t, snap.Refreshed[doc].IsZero(), "refreshed[%s]", doc)
	}
}

func TestStore_LoadStaticFailureIsFatal(t *testing.T) {
	for _, doc := range []ccu.Document{ccu.DocDevices, ccu.DocRooms, ccu.DocFunctions, ccu.DocStates, ccu.DocSysvars} {
		t.Run(doc.String(), func(t *testing.T) {
			srv := ccutest.NewServer(t)
			srv.Fail(doc, http.StatusInternalServerError)
			s := New(ccu.New(srv.Config()))

			err := s.Load(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ccu.ErrFetchFailed))
			_, snapErr := s.Snapshot()
			assert.ErrorIs(t, snapErr, ErrNotLoaded)
		})
	}
}

func TestStore_LoadMalformedInventory(t *testing.T) {
	srv := ccutest.NewServer(t)
	srv.SetDocument(ccu.DocRooms, "<roomList><room")
	s := New(ccu.New(srv.Config()))

	err := s.Load(context.Background())
	assert.True(t, errors.Is(err, ccu.ErrParseFailed))
}

func TestStore_LoadRSSIFailureIsNotFatal(t *testing.T) {
	srv := ccutest.NewServer(t)
	srv.Fail(ccu.DocRSSI, http.StatusNotFound)
	s := New(ccu.New(srv.Config()))

	require.NoError(t, s.Load(context.Background()))
	snap, _ := s.Snapshot()
	assert.Empty(t, snap.RSSI.Samples)
	assert.True(t, snap.Refreshed[ccu.DocRSSI].IsZero())
}

func TestStore_RefreshStaticDocument(t *testing.T) {
	s, srv := newLoadedStore(t)

	for _, doc := range []ccu.Document{ccu.DocDevices, ccu.DocRooms, ccu.DocFunctions, ccu.DocRSSI} {
		err := s.Refresh(context.Background(), doc)
		assert.True(t, errors.Is(err, ErrStaticDocument), doc.String())
		assert.Equal(t, int64(1), srv.Hits(doc), "static document %s re-fetched", doc)
	}
}

func TestStore_RefreshReplacesDocument(t *testing.T) {
	s, srv := newLoadedStore(t)
	before, _ := s.Snapshot()

	srv.SetDocument(ccu.DocStates, ccutest.WithStateValue("1005", "21.5", "22.0"))
	require.NoError(t, s.Refresh(context.Background(), ccu.DocStates))

	after, _ := s.Snapshot()
	assert.NotSame(t, before, after)

	dp, ok := after.Datapoint("1005")
	require.True(t, ok)
	assert.Equal(t, "22.0", dp.Value)

	// Old snapshot is untouched
	old, _ := before.Datapoint("1005")
	assert.Equal(t, "21.5", old.Value)

	// Static parts are shared
	assert.Same(t, before.Devices, after.Devices)
	assert.Same(t, before.Sysvars, after.Sysvars)
}

func TestStore_RefreshFailureKeepsPrevious(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(*ccutest.Server)
		wantErr error
	}{
		{
			name:    "fetch failure",
			prepare: func(srv *ccutest.Server) { srv.Fail(ccu.DocStates, http.StatusBadGateway) },
			wantErr: ccu.ErrFetchFailed,
		},
		{
			name:    "parse failure",
			prepare: func(srv *ccutest.Server) { srv.SetDocument(ccu.DocStates, "<stateList><device") },
			wantErr: ccu.ErrParseFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, srv := newLoadedStore(t)
			before, _ := s.Snapshot()

			tt.prepare(srv)
			err := s.Refresh(context.Background(), ccu.DocStates)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "error = %v", err)

			after, _ := s.Snapshot()
			assert.Same(t, before, after)
		})
	}
}

func TestStore_RefreshTimestamps(t *testing.T) {
	s, _ := newLoadedStore(t)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	require.NoError(t, s.Refresh(context.Background(), ccu.DocSysvars))

	snap, _ := s.Snapshot()
	assert.Equal(t, fixed, snap.Refreshed[ccu.DocSysvars])
	assert.NotEqual(t, fixed, snap.Refreshed[ccu.DocStates])
}

func TestSnapshot_FirstMatchWins(t *testing.T) {
	devices := &ccu.DeviceList{Devices: []ccu.Device{
		{IseID: "1", Name: "first", Channels: []ccu.Channel{{IseID: "10", Name: "first channel"}}},
		{IseID: "1", Name: "second", Channels: []ccu.Channel{{IseID: "10", Name: "second channel"}}},
	}}
	snap := &Snapshot{static: buildStaticIndex(devices, nil, nil), volatile: buildVolatileIndex(nil, nil)}

	dev, ok := snap.Device("1")
	require.True(t, ok)
	assert.Equal(t, "first", dev.Name)

	ch, ok := snap.Channel("10")
	require.True(t, ok)
	assert.Equal(t, "first channel", ch.Name)

	_, ok = snap.Sysvar("missing")
	assert.False(t, ok)
}

func TestSnapshot_GroupIndex(t *testing.T) {
	s, _ := newLoadedStore(t)
	snap, _ := s.Snapshot()

	assert.ElementsMatch(t, []string{"Kitchen", "Living"}, snap.RoomsOf("1004"))
	assert.Equal(t, []string{"Living"}, snap.RoomsOf("2001"))
	assert.Empty(t, snap.RoomsOf("1001"))
	assert.Equal(t, []string{"Heating"}, snap.FunctionsOf("1004"))
	assert.Empty(t, snap.FunctionsOf("unknown"))
}
