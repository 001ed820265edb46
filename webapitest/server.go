// Package webapitest provides an in-process cuwo web API server for tests.
//
// The server speaks the same wire protocol as the cuwo webapi script: JSON bodies,
// a shared key in the "key" query parameter, and {"error": code} bodies with status
// 200 for every failure.
package webapitest

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/MazeXD/cuwo/webapi"
)

// Version is the web API version reported by the server
const Version = "0.0.3"

// Request is a request received by the server
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   string
	Header http.Header
}

// Message is a chat message received by the server; Receiver is empty for broadcasts
type Message struct {
	Receiver string
	Text     string
}

type override struct {
	status int
	body   string
}

// Server is a fake cuwo web API server
type Server struct {
	*httptest.Server

	Key string

	mu        sync.Mutex
	version   string
	clock     string
	limit     int
	seed      int64
	players   []*Player
	requests  []Request
	messages  []Message
	kicked    []string
	overrides map[string]override
}

// NewServer starts a server accepting key and holding players in join order.
// Callers must Close it.
func NewServer(key string, players ...Player) *Server {
	s := &Server{
		Key:       key,
		version:   Version,
		clock:     "12:00",
		limit:     4,
		seed:      26879,
		overrides: make(map[string]override),
	}
	for i := range players {
		p := players[i]
		s.players = append(s.players, &p)
	}

	s.Server = httptest.NewServer(s.handler())
	return s
}

func (s *Server) handler() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, webapi.CodeInvalidResource)
	})

	r.HandleFunc("/", s.handleVersion)

	api := r.NewRoute().Subrouter()
	api.Use(s.requireKey)
	api.HandleFunc("/status", s.handleStatus)
	api.HandleFunc("/player/{name}", s.handlePlayer)
	api.HandleFunc("/kick/{name}", s.handleKick)
	api.HandleFunc("/time", s.handleGetTime)
	api.HandleFunc("/time/{value}", s.handleSetTime)
	api.HandleFunc("/message/", s.handleMessage)
	api.HandleFunc("/message/{receiver}/", s.handleMessage)

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		body, _ := io.ReadAll(req.Body)
		req.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: req.Method,
			Path:   req.URL.Path,
			Query:  req.URL.Query(),
			Body:   string(body),
			Header: req.Header.Clone(),
		})
		o, ok := s.overrides[req.URL.Path]
		s.mu.Unlock()

		if ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(o.status)
			io.WriteString(w, o.body)
			return
		}

		r.ServeHTTP(w, req)
	})
}

func (s *Server) requireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != s.Key {
			writeError(w, webapi.CodeUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, map[string]any{"version": s.version})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.players))
	for _, p := range s.players {
		names = append(names, p.Name)
	}
	writeJSON(w, map[string]any{
		"players":      names,
		"player-limit": s.limit,
		"seed":         s.seed,
	})
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(mux.Vars(r)["name"])
	if p == nil {
		writeError(w, webapi.CodeInvalidPlayer)
		return
	}

	var equipment, skills bool
	for _, part := range strings.Split(r.URL.Query().Get("include"), ",") {
		switch strings.ToLower(part) {
		case "equipment":
			equipment = true
		case "skills":
			skills = true
		}
	}
	writeJSON(w, map[string]any{"player": p.encode(equipment, skills)})
}

func (s *Server) handleKick(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := mux.Vars(r)["name"]
	for i, p := range s.players {
		if strings.EqualFold(p.Name, name) {
			s.players = append(s.players[:i], s.players[i+1:]...)
			s.kicked = append(s.kicked, p.Name)
			writeSuccess(w)
			return
		}
	}
	writeError(w, webapi.CodeInvalidPlayer)
}

func (s *Server) handleGetTime(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, map[string]any{"time": s.clock})
}

var clockPattern = regexp.MustCompile(`^\d{1,2}:\d{1,2}$`)

func (s *Server) handleSetTime(w http.ResponseWriter, r *http.Request) {
	value := mux.Vars(r)["value"]
	if !clockPattern.MatchString(value) {
		writeError(w, webapi.CodeInvalidTime)
		return
	}
	hh, mm, _ := strings.Cut(value, ":")
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	if h > 23 || m > 59 {
		writeError(w, webapi.CodeInvalidTime)
		return
	}

	s.mu.Lock()
	s.clock = value
	s.mu.Unlock()
	writeSuccess(w)
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	if len(body) == 0 {
		writeError(w, webapi.CodeInvalidMethod)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	receiver := mux.Vars(r)["receiver"]
	if receiver != "" {
		p := s.find(receiver)
		if p == nil {
			writeError(w, webapi.CodeInvalidPlayer)
			return
		}
		receiver = p.Name
	}
	s.messages = append(s.messages, Message{Receiver: receiver, Text: string(body)})
	writeSuccess(w)
}

// find returns the joined player called name, ignoring case. s.mu must be held.
func (s *Server) find(name string) *Player {
	for _, p := range s.players {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// Host returns the host the server listens on
func (s *Server) Host() string {
	host, _, _ := net.SplitHostPort(s.Listener.Addr().String())
	return host
}

// Port returns the port the server listens on
func (s *Server) Port() int {
	_, port, _ := net.SplitHostPort(s.Listener.Addr().String())
	n, _ := strconv.Atoi(port)
	return n
}

// Override makes the server answer every request for path with status and the raw body
func (s *Server) Override(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[path] = override{status: status, body: body}
}

// SetVersion changes the reported web API version
func (s *Server) SetVersion(version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version = version
}

// Clock returns the in-game time
func (s *Server) Clock() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock
}

// Requests returns every request received so far
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request, or the zero Request
func (s *Server) LastRequest() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}
	}
	return s.requests[len(s.requests)-1]
}

// Messages returns the chat messages received so far
func (s *Server) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// Kicked returns the names of kicked players in kick order
func (s *Server) Kicked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.kicked...)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int) {
	writeJSON(w, map[string]any{"error": code})
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, map[string]any{"success": 1})
}
