package inventory

import (
	"github.com/samber/lo"

	"github.com/nerrad567/hm2prom/internal/ccu"
	"github.com/nerrad567/hm2prom/internal/store"
)

// Inventory holds the work lists that drive every polling cycle.
// It is built once at startup and never changes afterwards: entities added
// on the controller later are not picked up until the exporter restarts.
type Inventory struct {
	// Channels lists channel ids grouped by owning device, in document order.
	Channels []string

	// Sysvars lists system variable ids in document order.
	Sysvars []string

	// WirelessDevices is the number of entries in the RSSI document.
	WirelessDevices int
}

// Build derives the work lists from a loaded Snapshot.
func Build(snap *store.Snapshot) Inventory {
	inv := Inventory{
		Channels: BuildChannelWorklist(snap.Devices),
		Sysvars:  BuildSysvarWorklist(snap.Sysvars),
	}
	if snap.RSSI != nil {
		inv.WirelessDevices = len(snap.RSSI.Samples)
	}
	return inv
}

// BuildChannelWorklist returns, for every device in document order, the ids
// of all channels anywhere in the document whose parent_device equals that
// device's id.
//
// Channels whose parent device is not listed are not included. If two
// devices share an id their channels appear once per device; duplicates are
// kept.
func BuildChannelWorklist(devices *ccu.DeviceList) []string {
	if devices == nil {
		return []string{}
	}

	all := lo.FlatMap(devices.Devices, func(d ccu.Device, _ int) []ccu.Channel {
		return d.Channels
	})
	byParent := lo.GroupBy(all, func(ch ccu.Channel) string {
		return ch.ParentDevice
	})

	worklist := make([]string, 0, len(all))
	for _, dev := range devices.Devices {
		if dev.IseID == "" {
			continue
		}
		for _, ch := range byParent[dev.IseID] {
			worklist = append(worklist, ch.IseID)
		}
	}
	return worklist
}

// BuildSysvarWorklist returns every system variable id in document order.
// Entries without an id are skipped.
func BuildSysvarWorklist(sysvars *ccu.SysvarList) []string {
	if sysvars == nil {
		return []string{}
	}

	return lo.FilterMap(sysvars.Variables, func(sv ccu.SystemVariable, _ int) (string, bool) {
		return sv.IseID, sv.IseID != ""
	})
}
