// Package inventory builds the channel and system variable work lists.
//
// A polling cycle does not walk the controller documents directly. It walks
// two lists of ids that are computed once from the startup Snapshot and stay
// fixed for the lifetime of the process:
//
//   - Channels: for every device in document order, the ids of all channels
//     whose parent_device names that device. A channel whose parent is not
//     listed never makes it into the list.
//   - Sysvars: every system variable id in document order.
//
// Devices and system variables without an ise_id are left out. An empty
// upstream document yields an empty list, not an error.
//
// Entities created on the controller after startup are picked up on the
// next restart. Entities that disappear keep their slot in the list and
// simply resolve to nothing.
//
// # Key Types
//
//   - Inventory: the two work lists plus the wireless device count taken
//     from the RSSI document (zero when that document was unavailable)
//
// # Usage
//
//	snap, err := st.Snapshot()
//	if err != nil {
//	    return err
//	}
//	inv := inventory.Build(snap)
//	for _, channelID := range inv.Channels {
//	    // resolve and emit
//	}
package inventory
