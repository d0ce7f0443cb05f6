// Package grocytest runs an in-memory Grocy API for tests.
package grocytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/five82/grocy-tui/internal/grocy"
)

// APIKey is the key the fake server accepts.
const APIKey = "test-key"

// Request records one mutation the server received.
type Request struct {
	Method    string
	Kind      string
	ID        int
	RequestID string
	Body      map[string]any
}

// Server is a fake Grocy instance backed by maps of JSON rows.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	rows     map[string]map[int]map[string]any
	changed  time.Time
	requests []Request
	failures map[string]int
}

// New starts a fake server and closes it when t finishes.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		rows:     make(map[string]map[int]map[string]any),
		changed:  time.Now().Add(-time.Hour).UTC(),
		failures: make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(s.requireKey)
	r.Get("/api/system/db-changed-time", s.handleChangedTime)
	r.Get("/api/objects/{kind}", s.handleList)
	r.Post("/api/objects/{kind}", s.handleCreate)
	r.Put("/api/objects/{kind}/{id}", s.handleUpdate)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Seed stores rows for kind; each value is marshalled to JSON first.
func (s *Server) Seed(kind grocy.ObjectKind, rows ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		encoded, err := json.Marshal(row)
		if err != nil {
			panic(err)
		}
		var decoded map[string]any
		if err := json.Unmarshal(encoded, &decoded); err != nil {
			panic(err)
		}
		id := toInt(decoded["id"])
		s.table(string(kind))[id] = decoded
	}
	s.changed = time.Now().UTC()
}

// FailNext makes the next n mutations of kind answer 400.
func (s *Server) FailNext(kind grocy.ObjectKind, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[string(kind)] = n
}

// Requests returns the mutations received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// ChangedTime reports the fake database change time.
func (s *Server) ChangedTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed
}

func (s *Server) table(kind string) map[int]map[string]any {
	tbl, ok := s.rows[kind]
	if !ok {
		tbl = make(map[int]map[string]any)
		s.rows[kind] = tbl
	}
	return tbl
}

func (s *Server) requireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("GROCY-API-KEY") != APIKey {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error_message": "invalid api key"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleChangedTime(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"changed_time": s.ChangedTime().Local().Format(time.DateTime),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	s.mu.Lock()
	tbl := s.table(kind)
	ids := make([]int, 0, len(tbl))
	for id := range tbl {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, tbl[id])
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(r, kind, 0, body)
	if s.consumeFailure(kind) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error_message": "forced failure"})
		return
	}
	tbl := s.table(kind)
	id := toInt(body["id"])
	if id <= 0 || tbl[id] != nil {
		id = 1
		for existing := range tbl {
			if existing >= id {
				id = existing + 1
			}
		}
	}
	body["id"] = id
	tbl[id] = body
	s.changed = time.Now().UTC()
	writeJSON(w, http.StatusOK, grocy.CreatedResponse{CreatedObjectID: id})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error_message": "invalid id"})
		return
	}
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(r, kind, id, body)
	if s.consumeFailure(kind) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error_message": "forced failure"})
		return
	}
	tbl := s.table(kind)
	if tbl[id] == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error_message": "object not found"})
		return
	}
	body["id"] = id
	tbl[id] = body
	s.changed = time.Now().UTC()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) record(r *http.Request, kind string, id int, body map[string]any) {
	s.requests = append(s.requests, Request{
		Method:    r.Method,
		Kind:      kind,
		ID:        id,
		RequestID: r.Header.Get("X-Request-ID"),
		Body:      body,
	})
}

func (s *Server) consumeFailure(kind string) bool {
	if s.failures[kind] <= 0 {
		return false
	}
	s.failures[kind]--
	return true
}

func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	defer r.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error_message": "invalid json"})
		return nil, false
	}
	return body, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		i, _ := strconv.Atoi(n)
		return i
	default:
		return 0
	}
}
