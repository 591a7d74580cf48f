package ccu

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"golang.org/x/net/html/charset"
)

// Parse decodes an XML-API payload into v.
//
// The controller declares ISO-8859-1 in its XML prolog, which encoding/xml
// cannot read on its own, so the decoder is given a charset-aware reader.
func Parse(data []byte, v any) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return nil
}

// ParseDeviceList decodes a devicelist.cgi payload.
func ParseDeviceList(data []byte) (*DeviceList, error) {
	var doc DeviceList
	if err := Parse(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseRoomList decodes a roomlist.cgi payload.
func ParseRoomList(data []byte) (*RoomList, error) {
	var doc RoomList
	if err := Parse(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseFunctionList decodes a functionlist.cgi payload.
func ParseFunctionList(data []byte) (*FunctionList, error) {
	var doc FunctionList
	if err := Parse(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseStateList decodes a statelist.cgi payload.
func ParseStateList(data []byte) (*StateList, error) {
	var doc StateList
	if err := Parse(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseSysvarList decodes a sysvarlist.cgi payload.
func ParseSysvarList(data []byte) (*SysvarList, error) {
	var doc SysvarList
	if err := Parse(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseRSSIList decodes a rssilist.cgi payload.
func ParseRSSIList(data []byte) (*RSSIList, error) {
	var doc RSSIList
	if err := Parse(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
