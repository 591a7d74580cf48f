package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nerrad567/hm2prom/internal/ccu"
)

// Fetcher retrieves the raw bytes of one XML-API document.
// *ccu.Client satisfies this interface.
type Fetcher interface {
	Fetch(ctx context.Context, doc ccu.Document) ([]byte, error)
}

// Logger defines the logging interface used by the store.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a Logger that discards all output.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Store holds the six parsed documents as an atomically swapped Snapshot.
//
// Inventory documents (devices, rooms, functions, rssi) are loaded once by
// Load. States and sysvars are replaced by Refresh; a failed refresh leaves
// the previous document in place.
//
// Thread Safety: All methods are safe for concurrent use. Readers never
// block writers and always observe a complete Snapshot.
type Store struct {
	fetcher Fetcher
	logger  Logger
	now     func() time.Time

	writeMu sync.Mutex
	current atomic.Pointer[Snapshot]
}

// New creates an empty Store. Call Load before reading.
func New(fetcher Fetcher) *Store {
	return &Store{
		fetcher: fetcher,
		logger:  noopLogger{},
		now:     time.Now,
	}
}

// SetLogger sets the logger for the store.
func (s *Store) SetLogger(logger Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Load fetches all six documents and publishes the first Snapshot.
//
// A failure on devices, rooms, functions, states or sysvars is returned and
// nothing is published: without them no inventory can be built. The RSSI
// document is informational and a failure only logs a warning.
func (s *Store) Load(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	devices, err := fetchAndParse(ctx, s.fetcher, ccu.DocDevices, ccu.ParseDeviceList)
	if err != nil {
		return err
	}
	rooms, err := fetchAndParse(ctx, s.fetcher, ccu.DocRooms, ccu.ParseRoomList)
	if err != nil {
		return err
	}
	functions, err := fetchAndParse(ctx, s.fetcher, ccu.DocFunctions, ccu.ParseFunctionList)
	if err != nil {
		return err
	}
	states, err := fetchAndParse(ctx, s.fetcher, ccu.DocStates, ccu.ParseStateList)
	if err != nil {
		return err
	}
	sysvars, err := fetchAndParse(ctx, s.fetcher, ccu.DocSysvars, ccu.ParseSysvarList)
	if err != nil {
		return err
	}

	now := s.now()
	refreshed := map[ccu.Document]time.Time{
		ccu.DocDevices:   now,
		ccu.DocRooms:     now,
		ccu.DocFunctions: now,
		ccu.DocStates:    now,
		ccu.DocSysvars:   now,
	}

	rssi, err := fetchAndParse(ctx, s.fetcher, ccu.DocRSSI, ccu.ParseRSSIList)
	if err != nil {
		s.logger.Warn("rssi document unavailable", "error", err)
		rssi = &ccu.RSSIList{}
	} else {
		refreshed[ccu.DocRSSI] = now
	}

	snap := &Snapshot{
		Devices:   devices,
		Rooms:     rooms,
		Functions: functions,
		States:    states,
		Sysvars:   sysvars,
		RSSI:      rssi,
		Refreshed: refreshed,
		static:    buildStaticIndex(devices, rooms, functions),
		volatile:  buildVolatileIndex(states, sysvars),
	}
	s.current.Store(snap)

	s.logger.Info("documents loaded",
		"devices", len(devices.Devices),
		"rooms", len(rooms.Rooms),
		"functions", len(functions.Functions),
		"sysvars", len(sysvars.Variables),
		"rssi", len(rssi.Samples),
	)
	return nil
}

// Refresh re-fetches one volatile document and publishes a new Snapshot.
//
// Returns:
//   - ErrStaticDocument for inventory documents
//   - ErrNotLoaded before Load has succeeded
//   - a ccu.ErrFetchFailed or ccu.ErrParseFailed chain; the previous
//     document stays in place
func (s *Store) Refresh(ctx context.Context, doc ccu.Document) error {
	if !doc.Volatile() {
		return fmt.Errorf("%w: %s", ErrStaticDocument, doc)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap := s.current.Load()
	if snap == nil {
		return ErrNotLoaded
	}

	var next *Snapshot
	switch doc {
	case ccu.DocStates:
		states, err := fetchAndParse(ctx, s.fetcher, doc, ccu.ParseStateList)
		if err != nil {
			return err
		}
		next = snap.withVolatile(doc, states, nil, s.now())
	case ccu.DocSysvars:
		sysvars, err := fetchAndParse(ctx, s.fetcher, doc, ccu.ParseSysvarList)
		if err != nil {
			return err
		}
		next = snap.withVolatile(doc, nil, sysvars, s.now())
	}

	s.current.Store(next)
	s.logger.Debug("document refreshed", "document", doc)
	return nil
}

// Snapshot returns the current Snapshot.
func (s *Store) Snapshot() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

func fetchAndParse[T any](ctx context.Context, f Fetcher, doc ccu.Document, parse func([]byte) (*T, error)) (*T, error) {
	data, err := f.Fetch(ctx, doc)
	if err != nil {
		return nil, err
	}
	v, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc, err)
	}
	return v, nil
}
