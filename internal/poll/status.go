package poll

import (
	"time"

	"github.com/nerrad567/hm2prom/internal/store"
)

// Status is the exporter's informational status: inventory sizes fixed at
// startup plus the outcome of the most recent cycle.
type Status struct {
	Channels        int                  `json:"channels"`
	Sysvars         int                  `json:"sysvars"`
	WirelessDevices int                  `json:"wireless_devices"`
	Cycles          uint64               `json:"cycles"`
	LastCycle       time.Time            `json:"last_cycle,omitempty"`
	LastDurationMS  int64                `json:"last_duration_ms"`
	Emitted         int                  `json:"emitted"`
	Dropped         int                  `json:"dropped"`
	Skipped         int                  `json:"skipped"`
	Failed          int                  `json:"failed"`
	Stale           bool                 `json:"stale"`
	LastError       string               `json:"last_error,omitempty"`
	LastRefresh     map[string]time.Time `json:"last_refresh"`
}

// Status returns the most recent Status. Before Init it is the zero value.
func (l *Loop) Status() Status {
	if s := l.status.Load(); s != nil {
		return *s
	}
	return Status{}
}

func (l *Loop) publishStatus(res CycleResult, snap *store.Snapshot) {
	st := Status{
		Channels:        len(l.inv.Channels),
		Sysvars:         len(l.inv.Sysvars),
		WirelessDevices: l.inv.WirelessDevices,
		Cycles:          l.cycles,
		LastDurationMS:  res.Duration.Milliseconds(),
		Emitted:         res.Emitted,
		Dropped:         res.Dropped,
		Skipped:         res.Skipped,
		Failed:          res.Failed,
		Stale:           res.RefreshErr != nil,
		LastRefresh:     make(map[string]time.Time),
	}
	if l.cycles > 0 {
		st.LastCycle = l.now()
	}
	if res.RefreshErr != nil {
		st.LastError = res.RefreshErr.Error()
	}
	if snap != nil {
		for doc, at := range snap.Refreshed {
			st.LastRefresh[doc.String()] = at
		}
	}
	l.status.Store(&st)

	if l.cycles > 0 {
		l.logger.Info("exporter status",
			"cycle", st.Cycles,
			"channels", st.Channels,
			"sysvars", st.Sysvars,
			"wireless_devices", st.WirelessDevices,
			"emitted", st.Emitted,
			"dropped", st.Dropped,
			"skipped", st.Skipped,
			"failed", st.Failed,
			"stale", st.Stale,
			"duration_ms", st.LastDurationMS,
		)
	}

	l.statusMu.Lock()
	callbacks := make([]func(Status), len(l.onStatus))
	copy(callbacks, l.onStatus)
	l.statusMu.Unlock()

	for _, fn := range callbacks {
		fn(st)
	}
}
