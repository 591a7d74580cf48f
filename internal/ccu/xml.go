package ccu

import "encoding/xml"

// DeviceList is the devicelist.cgi document.
type DeviceList struct {
	XMLName xml.Name `xml:"deviceList"`
	Devices []Device `xml:"device"`
}

// Device is a physical or virtual device registered with the controller.
type Device struct {
	Name     string    `xml:"name,attr"`
	Address  string    `xml:"address,attr"`
	IseID    string    `xml:"ise_id,attr"`
	Type     string    `xml:"device_type,attr"`
	Channels []Channel `xml:"channel"`
}

// Channel is a single sensor or actuator unit of a device.
type Channel struct {
	Name         string `xml:"name,attr"`
	Address      string `xml:"address,attr"`
	IseID        string `xml:"ise_id,attr"`
	Type         string `xml:"type,attr"`
	Direction    string `xml:"direction,attr"`
	ParentDevice string `xml:"parent_device,attr"`
}

// RoomList is the roomlist.cgi document.
type RoomList struct {
	XMLName xml.Name `xml:"roomList"`
	Rooms   []Group  `xml:"room"`
}

// FunctionList is the functionlist.cgi document.
type FunctionList struct {
	XMLName   xml.Name `xml:"functionList"`
	Functions []Group  `xml:"function"`
}

// Group is a named set of channels. Rooms and functions share this shape.
type Group struct {
	Name     string        `xml:"name,attr"`
	IseID    string        `xml:"ise_id,attr"`
	Channels []GroupMember `xml:"channel"`
}

// GroupMember references a channel by id from a room or function.
type GroupMember struct {
	IseID string `xml:"ise_id,attr"`
}

// StateList is the statelist.cgi document.
type StateList struct {
	XMLName xml.Name      `xml:"stateList"`
	Devices []StateDevice `xml:"device"`
}

// StateDevice groups the channels of one device in the state document.
type StateDevice struct {
	Name     string         `xml:"name,attr"`
	IseID    string         `xml:"ise_id,attr"`
	Channels []StateChannel `xml:"channel"`
}

// StateChannel groups the datapoints of one channel in the state document.
type StateChannel struct {
	Name       string      `xml:"name,attr"`
	IseID      string      `xml:"ise_id,attr"`
	Datapoints []Datapoint `xml:"datapoint"`
}

// Datapoint is a single measured or controlled value.
// Value is the raw attribute text; an absent attribute decodes as "".
type Datapoint struct {
	Name      string `xml:"name,attr"`
	Type      string `xml:"type,attr"`
	IseID     string `xml:"ise_id,attr"`
	Value     string `xml:"value,attr"`
	ValueType string `xml:"valuetype,attr"`
	ValueUnit string `xml:"valueunit,attr"`
	Timestamp string `xml:"timestamp,attr"`
}

// SysvarList is the sysvarlist.cgi document.
type SysvarList struct {
	XMLName   xml.Name         `xml:"systemVariables"`
	Variables []SystemVariable `xml:"systemVariable"`
}

// SystemVariable is a user or script defined value.
// Value is nil when the attribute is absent, which is distinct from an
// empty string.
type SystemVariable struct {
	Name      string  `xml:"name,attr"`
	IseID     string  `xml:"ise_id,attr"`
	Value     *string `xml:"value,attr"`
	ValueList string  `xml:"value_list,attr"`
	Unit      string  `xml:"unit,attr"`
	Type      string  `xml:"type,attr"`
	Timestamp string  `xml:"timestamp,attr"`
}

// RSSIList is the rssilist.cgi document.
type RSSIList struct {
	XMLName xml.Name `xml:"rssiList"`
	Samples []RSSI   `xml:"rssi"`
}

// RSSI is a radio signal sample keyed by device hardware address.
type RSSI struct {
	Device string `xml:"device,attr"`
	RX     string `xml:"rx,attr"`
	TX     string `xml:"tx,attr"`
}
