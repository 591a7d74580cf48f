// Package resolve joins channels, devices, rooms, functions, datapoints and
// system variables across the controller documents.
//
// The documents share ids but no integrity guarantee. A channel may point
// at a device that does not exist, appear in no room, or have no entry in
// the state document. None of this is an error: every lookup returns a
// record with a Found flag and empty fields for whatever could not be
// joined.
//
// # Lookups
//
//	ChannelInfo          device document   channel attributes
//	ChannelRooms         room document     names of rooms listing the channel
//	ChannelFunctions     function document names of functions listing the channel
//	ChannelParentDevice  device document   the device named by parent_device
//	ChannelDatapointIDs  state document    datapoint ids under the channel
//	DatapointState       state document    one datapoint and its raw value
//	SysvarState          sysvar document   one system variable and its value
//
// Channel bundles the first four into a ChannelContext, which is what the
// emitter labels a datapoint with.
//
// Room and function names are returned in document order. A channel listed
// twice in the same room appears twice; the emitter joins the names with a
// comma.
//
// Datapoint and system variable lookups apply the boolean rule before
// returning, so "true" and "false" never reach numeric parsing.
//
// # Usage
//
//	r := resolve.New(snap)
//	cc := r.Channel(channelID)
//	for _, dpID := range r.ChannelDatapointIDs(channelID) {
//	    rec := r.DatapointState(dpID)
//	    ...
//	}
//
// A Resolver is bound to one Snapshot and never observes later refreshes.
package resolve
