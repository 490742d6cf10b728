// Package stopfindertest provides an in-process fake of the stop finder for
// tests of code that drives stopfinder.Client.
package stopfindertest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gorilla/mux"

	"github.com/atoll101/tfnsw-realtime/stopfinder"
)

// Paths served by the fake.
const (
	ProxyPath  = "/api/stop-finder"
	DirectPath = "/v1/tp/stop_finder"
)

// Reply is the canned answer for one query. A zero Status means 200.
type Reply struct {
	Status    int
	Locations []stopfinder.Location
	Message   string
}

// Server is a fake stop finder keyed by query text. Unknown queries get an
// empty locations list.
type Server struct {
	*httptest.Server
	APIKey string

	mu      sync.Mutex
	replies map[string]Reply
	queries []string
}

// NewServer starts a fake that accepts apiKey
func NewServer(apiKey string) *Server {
	s := &Server{APIKey: apiKey, replies: map[string]Reply{}}
	r := mux.NewRouter()
	r.HandleFunc(ProxyPath, s.handle("query")).Methods(http.MethodGet).Queries("query", "{query}")
	r.HandleFunc(DirectPath, s.handle("name_sf")).Methods(http.MethodGet).Queries("name_sf", "{query}", "outputFormat", "rapidJSON")
	s.Server = httptest.NewServer(r)
	return s
}

// Set registers the reply for a query
func (s *Server) Set(query string, r Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[query] = r
}

// Queries returns the query texts received so far, in order
func (s *Server) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.queries))
	copy(out, s.queries)
	return out
}

// ProxyURL is the proxy-style endpoint of the fake
func (s *Server) ProxyURL() string { return s.URL + ProxyPath }

// DirectURL is the direct-style endpoint of the fake
func (s *Server) DirectURL() string { return s.URL + DirectPath }

func (s *Server) handle(param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "apikey "+s.APIKey {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"ErrorDetails": stopfinder.ErrorDetails{Message: "invalid API key"},
			})
			return
		}
		q := r.URL.Query()
		text := q.Get(param)
		if q.Get("type_sf") == "" || q.Get("anyMaxSizeHitList") == "" {
			http.Error(w, "missing search parameters", http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		s.queries = append(s.queries, text)
		reply, ok := s.replies[text]
		s.mu.Unlock()

		if !ok {
			writeJSON(w, http.StatusOK, stopfinder.Response{Locations: []stopfinder.Location{}})
			return
		}
		status := reply.Status
		if status == 0 {
			status = http.StatusOK
		}
		if status != http.StatusOK {
			writeJSON(w, status, map[string]any{
				"ErrorDetails": stopfinder.ErrorDetails{Message: reply.Message},
			})
			return
		}
		writeJSON(w, status, stopfinder.Response{Locations: reply.Locations})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Stop builds a stop candidate serving the given product classes
func Stop(id, name, shortName, suburb string, productClasses ...int) stopfinder.Location {
	loc := stopfinder.Location{
		ID:               id,
		Name:             name,
		DisassembledName: shortName,
		Type:             stopfinder.LocationStop,
		AssignedStops:    []stopfinder.AssignedStop{{ID: id, ProductClasses: productClasses}},
	}
	if suburb != "" {
		loc.Parent = &stopfinder.Parent{Name: suburb, Type: "locality"}
	}
	return loc
}
