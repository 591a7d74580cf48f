package resolve

import (
	"github.com/samber/lo"

	"github.com/nerrad567/hm2prom/internal/ccu"
	"github.com/nerrad567/hm2prom/internal/coerce"
	"github.com/nerrad567/hm2prom/internal/store"
)

// ChannelRecord describes a channel as listed in the device document.
// Found is false and all fields are empty when the id is unknown.
type ChannelRecord struct {
	IseID        string
	Address      string
	Name         string
	Type         string
	ParentDevice string
	Direction    string
	Found        bool
}

// DeviceRecord describes a device as listed in the device document.
type DeviceRecord struct {
	IseID   string
	Address string
	Name    string
	Type    string
	Found   bool
}

// DatapointRecord describes a datapoint from the state document.
// Value has the boolean rule applied; any other text is left unclassified.
type DatapointRecord struct {
	IseID     string
	Name      string
	Type      string
	ValueType string
	ValueUnit string
	Timestamp string
	Raw       string
	Value     coerce.Value
	Found     bool
}

// SysvarRecord describes a system variable.
// HasValue is false when the document carries no value attribute.
type SysvarRecord struct {
	IseID     string
	Name      string
	Type      string
	ValueList string
	Unit      string
	Timestamp string
	Raw       string
	Value     coerce.Value
	HasValue  bool
	Found     bool
}

// ChannelContext is everything known about a channel across the device,
// room and function documents.
type ChannelContext struct {
	Channel   ChannelRecord
	Parent    DeviceRecord
	Rooms     []string
	Functions []string
}

// Resolver joins entities across the documents of a single Snapshot.
//
// All lookups are pure: they never fail for missing data and return empty
// or partial records instead.
type Resolver struct {
	snap *store.Snapshot
}

// New creates a Resolver over snap. Use one Resolver per polling cycle.
func New(snap *store.Snapshot) *Resolver {
	return &Resolver{snap: snap}
}

// ChannelInfo returns the first channel in the device document with the given id.
func (r *Resolver) ChannelInfo(channelID string) ChannelRecord {
	ch, ok := r.snap.Channel(channelID)
	if !ok {
		return ChannelRecord{}
	}
	return ChannelRecord{
		IseID:        ch.IseID,
		Address:      ch.Address,
		Name:         ch.Name,
		Type:         ch.Type,
		ParentDevice: ch.ParentDevice,
		Direction:    ch.Direction,
		Found:        true,
	}
}

// ChannelRooms returns the names of all rooms listing the channel.
// The result is empty, never nil, when there are none.
func (r *Resolver) ChannelRooms(channelID string) []string {
	return cloneNames(r.snap.RoomsOf(channelID))
}

// ChannelFunctions returns the names of all functions listing the channel.
func (r *Resolver) ChannelFunctions(channelID string) []string {
	return cloneNames(r.snap.FunctionsOf(channelID))
}

// ChannelParentDevice follows the channel's parent_device reference.
// The record is empty if the channel or the referenced device is missing.
func (r *Resolver) ChannelParentDevice(channelID string) DeviceRecord {
	ch, ok := r.snap.Channel(channelID)
	if !ok {
		return DeviceRecord{}
	}
	dev, ok := r.snap.Device(ch.ParentDevice)
	if !ok {
		return DeviceRecord{}
	}
	return DeviceRecord{
		IseID:   dev.IseID,
		Address: dev.Address,
		Name:    dev.Name,
		Type:    dev.Type,
		Found:   true,
	}
}

// ChannelDatapointIDs returns the ids of every datapoint under the channel
// in the state document, in document order.
func (r *Resolver) ChannelDatapointIDs(channelID string) []string {
	ch, ok := r.snap.StateChannel(channelID)
	if !ok {
		return []string{}
	}
	return lo.FilterMap(ch.Datapoints, func(dp ccu.Datapoint, _ int) (string, bool) {
		return dp.IseID, dp.IseID != ""
	})
}

// DatapointState looks up a datapoint in the state document.
func (r *Resolver) DatapointState(datapointID string) DatapointRecord {
	dp, ok := r.snap.Datapoint(datapointID)
	if !ok {
		return DatapointRecord{}
	}
	return DatapointRecord{
		IseID:     dp.IseID,
		Name:      dp.Name,
		Type:      dp.Type,
		ValueType: dp.ValueType,
		ValueUnit: dp.ValueUnit,
		Timestamp: dp.Timestamp,
		Raw:       dp.Value,
		Value:     coerce.PreCoerce(dp.Value),
		Found:     true,
	}
}

// SysvarState looks up a system variable in the sysvar document.
func (r *Resolver) SysvarState(sysvarID string) SysvarRecord {
	sv, ok := r.snap.Sysvar(sysvarID)
	if !ok {
		return SysvarRecord{}
	}
	rec := SysvarRecord{
		IseID:     sv.IseID,
		Name:      sv.Name,
		Type:      sv.Type,
		ValueList: sv.ValueList,
		Unit:      sv.Unit,
		Timestamp: sv.Timestamp,
		Found:     true,
	}
	if sv.Value != nil {
		rec.Raw = *sv.Value
		rec.Value = coerce.PreCoerce(*sv.Value)
		rec.HasValue = true
	}
	return rec
}

// Channel resolves the full context of a channel in one call.
func (r *Resolver) Channel(channelID string) ChannelContext {
	return ChannelContext{
		Channel:   r.ChannelInfo(channelID),
		Parent:    r.ChannelParentDevice(channelID),
		Rooms:     r.ChannelRooms(channelID),
		Functions: r.ChannelFunctions(channelID),
	}
}

func cloneNames(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}
