package ccu

import "github.com/nerrad567/hm2prom/internal/infrastructure/config"

// Document names one of the six XML-API documents.
type Document string

// The six documents exposed by the controller.
const (
	DocDevices   Document = "devices"
	DocRooms     Document = "rooms"
	DocFunctions Document = "functions"
	DocStates    Document = "states"
	DocSysvars   Document = "sysvars"
	DocRSSI      Document = "rssi"
)

// AllDocuments lists every document in the order they are loaded at startup.
var AllDocuments = []Document{DocDevices, DocRooms, DocFunctions, DocStates, DocSysvars, DocRSSI}

// Volatile reports whether the document is re-fetched every polling cycle.
// Inventory documents (devices, rooms, functions) and the RSSI list are
// fetched once.
func (d Document) Volatile() bool {
	return d == DocStates || d == DocSysvars
}

// String implements fmt.Stringer.
func (d Document) String() string {
	return string(d)
}

// pathsFromConfig maps each document to its configured relative path.
func pathsFromConfig(p config.CCUPathsConfig) map[Document]string {
	return map[Document]string{
		DocDevices:   p.Devices,
		DocRooms:     p.Rooms,
		DocFunctions: p.Functions,
		DocStates:    p.States,
		DocSysvars:   p.Sysvars,
		DocRSSI:      p.RSSI,
	}
}
