// Package ccu talks to the XML-API add-on of a Homematic CCU.
//
// The controller exposes six independent documents:
//   - devicelist.cgi: devices and their channels
//   - roomlist.cgi: rooms and the channels they contain
//   - functionlist.cgi: functions (trades) and the channels they contain
//   - statelist.cgi: current datapoint values per channel
//   - sysvarlist.cgi: system variables
//   - rssilist.cgi: radio signal strength per wireless device
//
// None of the documents guarantees referential integrity with the others:
// a channel may reference a device that is not listed, and rooms or
// functions may reference channels that no longer exist.
//
// # Usage
//
//	client := ccu.New(cfg.CCU)
//	raw, err := client.Fetch(ctx, ccu.DocStates)
//	if err != nil {
//	    return err // wraps ccu.ErrFetchFailed
//	}
//	states, err := ccu.ParseStateList(raw) // wraps ccu.ErrParseFailed
//
// Payloads are ISO-8859-1 encoded; Parse handles the conversion.
package ccu
