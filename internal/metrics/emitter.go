package metrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nerrad567/hm2prom/internal/coerce"
	"github.com/nerrad567/hm2prom/internal/resolve"
)

// Metric family names.
const (
	StatesName = "hm2prom_states"
	SysvarName = "hm2prom_sysvar"
	RSSIRXName = "hm2prom_rssi_rx"
	RSSITXName = "hm2prom_rssi_tx"
)

const (
	namespace = "hm2prom"

	// listSep joins room and function names into one label value.
	listSep = ","

	familyDatapoint = "datapoint"
	familySysvar    = "sysvar"
)

// StateLabels are the label names of hm2prom_states, in order.
var StateLabels = []string{
	"datapoint_ise_id",
	"datapoint_name",
	"datapoint_type",
	"datapoint_value_type",
	"datapoint_value_unit",
	"channel_iseid",
	"channel_address",
	"channel_name",
	"channel_type",
	"channel_parent_device",
	"channel_direction",
	"channel_rooms",
	"channel_functions",
	"parent_device_ise_id",
	"parent_device_address",
	"parent_device_name",
	"parent_device_type",
}

// SysvarLabels are the label names of hm2prom_sysvar, in order.
var SysvarLabels = []string{
	"sysvar_ise_id",
	"sysvar_name",
	"sysvar_type",
	"sysvar_value_list",
	"sysvar_value_unit",
	"sysvar_value_string",
}

// RSSILabels are the label names of the two RSSI families.
var RSSILabels = []string{
	"rssi_address",
	"rssi_devicename",
	"rssi_room",
	"rssi_direction",
}

// Emitter publishes gauge observations for datapoints and system variables,
// plus the exporter's own health metrics.
//
// Thread Safety: All methods are safe for concurrent use; the underlying
// vectors support scraping while the poll loop writes.
type Emitter struct {
	states  *prometheus.GaugeVec
	sysvars *prometheus.GaugeVec
	rssiRX  *prometheus.GaugeVec
	rssiTX  *prometheus.GaugeVec

	refreshFailures        *prometheus.CounterVec
	classificationFailures *prometheus.CounterVec
	entityFailures         *prometheus.CounterVec
	cycleDuration          prometheus.Gauge
	lastRefresh            *prometheus.GaugeVec
	inventory              *prometheus.GaugeVec
}

// NewEmitter creates every metric family and registers it with reg.
//
// Returns:
//   - *Emitter: Ready to publish
//   - error: If any family is already registered with reg
func NewEmitter(reg prometheus.Registerer) (*Emitter, error) {
	e := &Emitter{
		states: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: StatesName,
			Help: "Homematic export metrics",
		}, StateLabels),
		sysvars: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: SysvarName,
			Help: "Homematic export sysvar",
		}, SysvarLabels),
		rssiRX: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: RSSIRXName,
			Help: "Homematic export rssi (receive) radio strength",
		}, RSSILabels),
		rssiTX: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: RSSITXName,
			Help: "Homematic export rssi (transmit) radio strength",
		}, RSSILabels),
		refreshFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_failures_total",
			Help:      "Failed refreshes of a controller document.",
		}, []string{"document"}),
		classificationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classification_failures_total",
			Help:      "Values dropped because they could not be classified.",
		}, []string{"family"}),
		entityFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entity_failures_total",
			Help:      "Entities whose processing failed within a cycle.",
		}, []string{"family"}),
		cycleDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Duration of the most recent polling cycle.",
		}),
		lastRefresh: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_refresh_success_timestamp_seconds",
			Help:      "Unix time of the last successful refresh of a controller document.",
		}, []string{"document"}),
		inventory: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inventory_entities",
			Help:      "Entities in the startup work lists.",
		}, []string{"kind"}),
	}

	collectors := []prometheus.Collector{
		e.states, e.sysvars, e.rssiRX, e.rssiTX,
		e.refreshFailures, e.classificationFailures, e.entityFailures,
		e.cycleDuration, e.lastRefresh, e.inventory,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering metric: %w", err)
		}
	}

	return e, nil
}

// EmitDatapoint sets the hm2prom_states series for one datapoint.
//
// The value must be Boolean or Numeric; anything else returns
// ErrUnpublishable and nothing is written.
func (e *Emitter) EmitDatapoint(ch resolve.ChannelContext, channelID string, dp resolve.DatapointRecord, v coerce.Value) error {
	gauge, _, set := v.Observation()
	if !set {
		return fmt.Errorf("%w: datapoint %s has %s value", ErrUnpublishable, dp.IseID, v.Kind)
	}

	e.states.WithLabelValues(
		dp.IseID,
		dp.Name,
		dp.Type,
		dp.ValueType,
		dp.ValueUnit,
		channelID,
		ch.Channel.Address,
		ch.Channel.Name,
		ch.Channel.Type,
		ch.Channel.ParentDevice,
		ch.Channel.Direction,
		strings.Join(ch.Rooms, listSep),
		strings.Join(ch.Functions, listSep),
		ch.Parent.IseID,
		ch.Parent.Address,
		ch.Parent.Name,
		ch.Parent.Type,
	).Set(gauge)
	return nil
}

// EmitSysvar publishes one system variable.
//
// Numeric and Boolean values set the gauge with an empty string label.
// Opaque values only materialise the series with the text in
// sysvar_value_string; the gauge value is left untouched.
func (e *Emitter) EmitSysvar(sv resolve.SysvarRecord, v coerce.Value) error {
	if !v.Classified() {
		return fmt.Errorf("%w: sysvar %s is unclassified", ErrUnpublishable, sv.IseID)
	}

	gauge, label, set := v.Observation()
	g := e.sysvars.WithLabelValues(
		sv.IseID,
		sv.Name,
		sv.Type,
		sv.ValueList,
		sv.Unit,
		label,
	)
	if set {
		g.Set(gauge)
	}
	return nil
}

// RefreshFailed counts a failed document refresh.
func (e *Emitter) RefreshFailed(document string) {
	e.refreshFailures.WithLabelValues(document).Inc()
}

// RefreshSucceeded records the time of a successful document refresh.
func (e *Emitter) RefreshSucceeded(document string, at time.Time) {
	e.lastRefresh.WithLabelValues(document).Set(float64(at.UnixNano()) / 1e9)
}

// ClassificationFailed counts a dropped datapoint value.
func (e *Emitter) ClassificationFailed() {
	e.classificationFailures.WithLabelValues(familyDatapoint).Inc()
}

// DatapointFailed counts a datapoint or channel whose processing failed.
func (e *Emitter) DatapointFailed() {
	e.entityFailures.WithLabelValues(familyDatapoint).Inc()
}

// SysvarFailed counts a system variable whose processing failed.
func (e *Emitter) SysvarFailed() {
	e.entityFailures.WithLabelValues(familySysvar).Inc()
}

// CycleDone records how long a polling cycle took.
func (e *Emitter) CycleDone(d time.Duration) {
	e.cycleDuration.Set(d.Seconds())
}

// SetInventory publishes the sizes of the work lists.
func (e *Emitter) SetInventory(channels, sysvars, wireless int) {
	e.inventory.WithLabelValues("channel").Set(float64(channels))
	e.inventory.WithLabelValues("sysvar").Set(float64(sysvars))
	e.inventory.WithLabelValues("wireless_device").Set(float64(wireless))
}
