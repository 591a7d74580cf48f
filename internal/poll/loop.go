package poll

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nerrad567/hm2prom/internal/ccu"
	"github.com/nerrad567/hm2prom/internal/coerce"
	"github.com/nerrad567/hm2prom/internal/inventory"
	"github.com/nerrad567/hm2prom/internal/resolve"
	"github.com/nerrad567/hm2prom/internal/store"
)

// volatileDocuments are refreshed at the start of every cycle, in order.
var volatileDocuments = []ccu.Document{ccu.DocStates, ccu.DocSysvars}

// Logger defines the logging interface used by the poll loop.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Emitter publishes observations and self-metrics. *metrics.Emitter
// satisfies it.
type Emitter interface {
	EmitDatapoint(ch resolve.ChannelContext, channelID string, dp resolve.DatapointRecord, v coerce.Value) error
	EmitSysvar(sv resolve.SysvarRecord, v coerce.Value) error

	RefreshFailed(document string)
	RefreshSucceeded(document string, at time.Time)
	ClassificationFailed()
	DatapointFailed()
	SysvarFailed()
	CycleDone(d time.Duration)
	SetInventory(channels, sysvars, wireless int)
}

// noopLogger is a Logger that discards all output.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// CycleResult summarises one polling cycle.
type CycleResult struct {
	// Emitted counts published datapoint and sysvar observations.
	Emitted int
	// Dropped counts datapoint values that could not be classified.
	Dropped int
	// Skipped counts entities with nothing to publish (missing or empty value).
	Skipped int
	// Failed counts entities whose processing returned an error or panicked.
	Failed int
	// RefreshErr is non-nil when a volatile document could not be refreshed;
	// nothing was emitted in that case.
	RefreshErr error
	Duration   time.Duration
}

// Loop drives the refresh, resolve, coerce and emit cycle.
//
// Everything happens sequentially on the goroutine calling Run. A failure
// in one entity is logged and counted, and processing continues with the
// next entity; nothing below startup ever stops the loop.
type Loop struct {
	store    *store.Store
	emitter  Emitter
	interval time.Duration
	logger   Logger
	now      func() time.Time

	inv   inventory.Inventory
	ready atomic.Bool

	cycles   uint64
	status   atomic.Pointer[Status]
	statusMu sync.Mutex
	onStatus []func(Status)
}

// New creates a Loop. Call Init before Run.
func New(st *store.Store, emitter Emitter, interval time.Duration) *Loop {
	return &Loop{
		store:    st,
		emitter:  emitter,
		interval: interval,
		logger:   noopLogger{},
		now:      time.Now,
	}
}

// SetLogger sets the logger for the loop.
func (l *Loop) SetLogger(logger Logger) {
	if logger != nil {
		l.logger = logger
	}
}

// OnStatus registers a callback invoked with the new Status after Init and
// after every cycle. Callbacks run on the loop goroutine.
func (l *Loop) OnStatus(fn func(Status)) {
	l.statusMu.Lock()
	defer l.statusMu.Unlock()
	l.onStatus = append(l.onStatus, fn)
}

// Init loads all documents and builds the work lists.
//
// Any error here is unrecoverable: without the inventory documents there is
// nothing to poll. The returned error wraps ErrInventory.
func (l *Loop) Init(ctx context.Context) error {
	if err := l.store.Load(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrInventory, err)
	}
	snap, err := l.store.Snapshot()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInventory, err)
	}

	l.inv = inventory.Build(snap)
	l.emitter.SetInventory(len(l.inv.Channels), len(l.inv.Sysvars), l.inv.WirelessDevices)
	for doc, at := range snap.Refreshed {
		l.emitter.RefreshSucceeded(doc.String(), at)
	}

	l.logger.Debug("channel worklist", "channels", l.inv.Channels)
	l.logger.Debug("sysvar worklist", "sysvars", l.inv.Sysvars)
	l.logger.Info("inventory built",
		"channels", len(l.inv.Channels),
		"sysvars", len(l.inv.Sysvars),
		"wireless_devices", l.inv.WirelessDevices,
	)

	l.ready.Store(true)
	l.publishStatus(CycleResult{}, snap)
	return nil
}

// Run executes a cycle immediately and then one cycle per interval until
// ctx is cancelled. It returns nil on cancellation.
func (l *Loop) Run(ctx context.Context) error {
	if !l.ready.Load() {
		return ErrNotInitialised
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("poll loop stopped", "cycles", l.cycles)
			return nil
		case <-timer.C:
			l.RunCycle(ctx)
			timer.Reset(l.interval)
		}
	}
}

// RunCycle performs one refresh and emission pass.
func (l *Loop) RunCycle(ctx context.Context) CycleResult {
	start := l.now()
	var res CycleResult

	for _, doc := range volatileDocuments {
		if err := l.store.Refresh(ctx, doc); err != nil {
			l.logger.Warn("document refresh failed, keeping previous", "document", doc, "error", err)
			l.emitter.RefreshFailed(doc.String())
			res.RefreshErr = errors.Join(res.RefreshErr, err)
			continue
		}
		l.emitter.RefreshSucceeded(doc.String(), l.now())
	}

	snap, err := l.store.Snapshot()
	if err != nil {
		res.RefreshErr = errors.Join(res.RefreshErr, err)
	}

	if res.RefreshErr == nil {
		r := resolve.New(snap)
		for _, id := range l.inv.Channels {
			if ctx.Err() != nil {
				break
			}
			l.processChannel(r, id, &res)
		}
		for _, id := range l.inv.Sysvars {
			if ctx.Err() != nil {
				break
			}
			l.processSysvar(r, id, &res)
		}
	}

	res.Duration = l.now().Sub(start)
	l.emitter.CycleDone(res.Duration)
	l.cycles++
	l.publishStatus(res, snap)

	return res
}

func (l *Loop) processChannel(r *resolve.Resolver, channelID string, res *CycleResult) {
	err := isolate(func() error {
		cc := r.Channel(channelID)
		if !cc.Channel.Found {
			l.logger.Debug("channel not in device document", "channel", channelID)
		} else if !cc.Parent.Found {
			l.logger.Debug("channel parent device not found", "channel", channelID, "parent_device", cc.Channel.ParentDevice)
		}

		for _, dpID := range r.ChannelDatapointIDs(channelID) {
			l.processDatapoint(r, cc, channelID, dpID, res)
		}
		return nil
	})
	if err != nil {
		l.logger.Warn("channel processing failed", "channel", channelID, "error", err)
		l.emitter.DatapointFailed()
		res.Failed++
	}
}

func (l *Loop) processDatapoint(r *resolve.Resolver, cc resolve.ChannelContext, channelID, datapointID string, res *CycleResult) {
	err := isolate(func() error {
		rec := r.DatapointState(datapointID)
		if !rec.Found || (!rec.Value.Classified() && rec.Raw == "") {
			l.logger.Debug("datapoint has no value", "datapoint", datapointID, "channel", channelID)
			res.Skipped++
			return nil
		}

		v, err := coerce.Classify(rec.Value, coerce.Datapoint)
		if err != nil {
			l.logger.Warn("datapoint value not classifiable, dropped",
				"datapoint", datapointID,
				"name", rec.Name,
				"value", rec.Raw,
				"channel", channelID,
				"error", err,
			)
			l.emitter.ClassificationFailed()
			res.Dropped++
			return nil
		}

		if err := l.emitter.EmitDatapoint(cc, channelID, rec, v); err != nil {
			return err
		}
		res.Emitted++
		return nil
	})
	if err != nil {
		l.logger.Warn("datapoint processing failed", "datapoint", datapointID, "channel", channelID, "error", err)
		l.emitter.DatapointFailed()
		res.Failed++
	}
}

func (l *Loop) processSysvar(r *resolve.Resolver, sysvarID string, res *CycleResult) {
	err := isolate(func() error {
		rec := r.SysvarState(sysvarID)
		if !rec.Found || !rec.HasValue {
			l.logger.Debug("sysvar has no value", "sysvar", sysvarID)
			res.Skipped++
			return nil
		}

		v, err := coerce.Classify(rec.Value, coerce.Sysvar)
		if err != nil {
			return err
		}
		if err := l.emitter.EmitSysvar(rec, v); err != nil {
			return err
		}
		res.Emitted++
		return nil
	})
	if err != nil {
		l.logger.Warn("sysvar processing failed", "sysvar", sysvarID, "error", err)
		l.emitter.SysvarFailed()
		res.Failed++
	}
}

// isolate runs fn and converts a panic into an error so that one broken
// entity cannot unwind the cycle.
func isolate(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrEntityPanic, r)
		}
	}()
	return fn()
}

// Inventory returns the work lists built by Init.
func (l *Loop) Inventory() inventory.Inventory {
	return l.inv
}

// Ready reports whether Init has succeeded.
func (l *Loop) Ready() bool {
	return l.ready.Load()
}
