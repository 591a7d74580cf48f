// Package ccutest provides a fake XML-API server and fixture documents for tests.
package ccutest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/nerrad567/hm2prom/internal/ccu"
	"github.com/nerrad567/hm2prom/internal/infrastructure/config"
)

// Server is an httptest server answering the six XML-API paths.
// Documents can be swapped or made to fail while the server runs.
type Server struct {
	*httptest.Server

	paths config.CCUPathsConfig

	mu      sync.RWMutex
	bodies  map[ccu.Document]string
	failing map[ccu.Document]int
	hits    map[ccu.Document]*atomic.Int64
}

// NewServer starts a fake controller serving the fixture documents.
// It is closed automatically when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		paths: config.CCUPathsConfig{
			Devices:   "/config/xmlapi/devicelist.cgi",
			Rooms:     "/config/xmlapi/roomlist.cgi",
			Functions: "/config/xmlapi/functionlist.cgi",
			States:    "/config/xmlapi/statelist.cgi",
			Sysvars:   "/config/xmlapi/sysvarlist.cgi",
			RSSI:      "/config/xmlapi/rssilist.cgi",
		},
		bodies: map[ccu.Document]string{
			ccu.DocDevices:   DeviceListXML,
			ccu.DocRooms:     RoomListXML,
			ccu.DocFunctions: FunctionListXML,
			ccu.DocStates:    StateListXML,
			ccu.DocSysvars:   SysvarListXML,
			ccu.DocRSSI:      RSSIListXML,
		},
		failing: make(map[ccu.Document]int),
		hits:    make(map[ccu.Document]*atomic.Int64),
	}
	for _, doc := range ccu.AllDocuments {
		s.hits[doc] = &atomic.Int64{}
	}

	routes := map[string]ccu.Document{
		s.paths.Devices:   ccu.DocDevices,
		s.paths.Rooms:     ccu.DocRooms,
		s.paths.Functions: ccu.DocFunctions,
		s.paths.States:    ccu.DocStates,
		s.paths.Sysvars:   ccu.DocSysvars,
		s.paths.RSSI:      ccu.DocRSSI,
	}

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		s.hits[doc].Add(1)

		s.mu.RLock()
		status := s.failing[doc]
		body := s.bodies[doc]
		s.mu.RUnlock()

		if status != 0 {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "text/xml; charset=ISO-8859-1")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)

	return s
}

// Config returns a CCU configuration pointing at the fake server.
func (s *Server) Config() config.CCUConfig {
	return config.CCUConfig{
		URL:     s.URL,
		Timeout: 5,
		Paths:   s.paths,
	}
}

// SetDocument replaces the body served for doc.
func (s *Server) SetDocument(doc ccu.Document, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies[doc] = body
}

// Fail makes doc answer with the given HTTP status. Zero restores normal service.
func (s *Server) Fail(doc ccu.Document, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[doc] = status
}

// Hits returns how many requests doc has received.
func (s *Server) Hits(doc ccu.Document) int64 {
	return s.hits[doc].Load()
}

// WithStateValue returns StateListXML with the value of one datapoint replaced.
func WithStateValue(datapointID, oldValue, newValue string) string {
	return strings.Replace(StateListXML,
		`ise_id="`+datapointID+`" value="`+oldValue+`"`,
		`ise_id="`+datapointID+`" value="`+newValue+`"`, 1)
}
