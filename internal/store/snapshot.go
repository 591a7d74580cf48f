package store

import (
	"time"

	"github.com/nerrad567/hm2prom/internal/ccu"
)

// Snapshot is one consistent, immutable view of all six documents plus the
// lookup indices derived from them.
//
// A Snapshot is never modified after it has been published; a refresh
// builds a new one that shares the unchanged parts.
type Snapshot struct {
	Devices   *ccu.DeviceList
	Rooms     *ccu.RoomList
	Functions *ccu.FunctionList
	States    *ccu.StateList
	Sysvars   *ccu.SysvarList
	RSSI      *ccu.RSSIList

	// Refreshed holds the time each document was last replaced.
	Refreshed map[ccu.Document]time.Time

	static   *staticIndex
	volatile *volatileIndex
}

// staticIndex is built once from the inventory documents.
// For duplicated ids the first occurrence in document order wins.
type staticIndex struct {
	channels  map[string]ccu.Channel
	devices   map[string]ccu.Device
	rooms     map[string][]string
	functions map[string][]string
}

// volatileIndex is rebuilt whenever states or sysvars are replaced.
type volatileIndex struct {
	stateChannels map[string]*ccu.StateChannel
	datapoints    map[string]*ccu.Datapoint
	sysvars       map[string]*ccu.SystemVariable
}

func buildStaticIndex(devices *ccu.DeviceList, rooms *ccu.RoomList, functions *ccu.FunctionList) *staticIndex {
	idx := &staticIndex{
		channels:  make(map[string]ccu.Channel),
		devices:   make(map[string]ccu.Device),
		rooms:     make(map[string][]string),
		functions: make(map[string][]string),
	}

	if devices != nil {
		for _, dev := range devices.Devices {
			if _, ok := idx.devices[dev.IseID]; !ok {
				idx.devices[dev.IseID] = dev
			}
			for _, ch := range dev.Channels {
				if _, ok := idx.channels[ch.IseID]; !ok {
					idx.channels[ch.IseID] = ch
				}
			}
		}
	}
	if rooms != nil {
		indexGroups(idx.rooms, rooms.Rooms)
	}
	if functions != nil {
		indexGroups(idx.functions, functions.Functions)
	}

	return idx
}

// indexGroups records, per channel id, the names of every group listing it.
// A group that lists a channel twice contributes its name twice.
func indexGroups(into map[string][]string, groups []ccu.Group) {
	for _, g := range groups {
		for _, member := range g.Channels {
			into[member.IseID] = append(into[member.IseID], g.Name)
		}
	}
}

func buildVolatileIndex(states *ccu.StateList, sysvars *ccu.SysvarList) *volatileIndex {
	idx := &volatileIndex{
		stateChannels: make(map[string]*ccu.StateChannel),
		datapoints:    make(map[string]*ccu.Datapoint),
		sysvars:       make(map[string]*ccu.SystemVariable),
	}

	if states != nil {
		for d := range states.Devices {
			dev := &states.Devices[d]
			for c := range dev.Channels {
				ch := &dev.Channels[c]
				if _, ok := idx.stateChannels[ch.IseID]; !ok {
					idx.stateChannels[ch.IseID] = ch
				}
				for p := range ch.Datapoints {
					dp := &ch.Datapoints[p]
					if _, ok := idx.datapoints[dp.IseID]; !ok {
						idx.datapoints[dp.IseID] = dp
					}
				}
			}
		}
	}
	if sysvars != nil {
		for i := range sysvars.Variables {
			sv := &sysvars.Variables[i]
			if _, ok := idx.sysvars[sv.IseID]; !ok {
				idx.sysvars[sv.IseID] = sv
			}
		}
	}

	return idx
}

// Channel returns the first channel in the device document with the given id.
func (s *Snapshot) Channel(id string) (ccu.Channel, bool) {
	ch, ok := s.static.channels[id]
	return ch, ok
}

// Device returns the first device in the device document with the given id.
func (s *Snapshot) Device(id string) (ccu.Device, bool) {
	dev, ok := s.static.devices[id]
	return dev, ok
}

// RoomsOf returns the names of all rooms listing the channel, in document order.
// The returned slice must not be modified.
func (s *Snapshot) RoomsOf(channelID string) []string {
	return s.static.rooms[channelID]
}

// FunctionsOf returns the names of all functions listing the channel, in document order.
// The returned slice must not be modified.
func (s *Snapshot) FunctionsOf(channelID string) []string {
	return s.static.functions[channelID]
}

// StateChannel returns the first channel in the state document with the given id.
func (s *Snapshot) StateChannel(id string) (*ccu.StateChannel, bool) {
	ch, ok := s.volatile.stateChannels[id]
	return ch, ok
}

// Datapoint returns the first datapoint in the state document with the given id.
func (s *Snapshot) Datapoint(id string) (*ccu.Datapoint, bool) {
	dp, ok := s.volatile.datapoints[id]
	return dp, ok
}

// Sysvar returns the first system variable with the given id.
func (s *Snapshot) Sysvar(id string) (*ccu.SystemVariable, bool) {
	sv, ok := s.volatile.sysvars[id]
	return sv, ok
}

// withVolatile returns a copy of s with states and/or sysvars replaced.
// A nil argument keeps the current document.
func (s *Snapshot) withVolatile(doc ccu.Document, states *ccu.StateList, sysvars *ccu.SysvarList, at time.Time) *Snapshot {
	next := *s
	if states != nil {
		next.States = states
	}
	if sysvars != nil {
		next.Sysvars = sysvars
	}

	next.Refreshed = make(map[ccu.Document]time.Time, len(s.Refreshed)+1)
	for k, v := range s.Refreshed {
		next.Refreshed[k] = v
	}
	next.Refreshed[doc] = at

	next.volatile = buildVolatileIndex(next.States, next.Sysvars)
	return &next
}
