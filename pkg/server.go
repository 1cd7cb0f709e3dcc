package pysubscript

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/pprof"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vilterp/pysubscript/pkg/versiontable"
)

type Server struct {
	checker    *Checker
	httpServer *http.Server

	mu          sync.Mutex
	connections map[int]*connection
	nextConnID  int

	ctx context.Context
}

func NewServer(cfg Config) (*Server, error) {
	checker, err := NewChecker(cfg, versiontable.Builtin(), nil)
	if err != nil {
		return nil, err
	}
	log.Printf("checking against Python %s\n", checker.Target())
	if cfg.CacheFile != "" {
		log.Printf("opened result cache: %s\n", cfg.CacheFile)
	}

	server := &Server{
		checker:     checker,
		connections: map[int]*connection{},
		ctx:         context.Background(),
	}
	server.httpServer = &http.Server{Addr: cfg.Listen, Handler: server.handler()}
	return server, nil
}

func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()

	// Serve metrics.
	mux.Handle(
		"/metrics",
		promhttp.HandlerFor(s.checker.metrics.registry, promhttp.HandlerOpts{}),
	)

	mux.HandleFunc("/table", func(resp http.ResponseWriter, req *http.Request) {
		type entry struct {
			Symbol      string `json:"symbol"`
			MinVersion  string `json:"minVersion"`
			TypingAlias string `json:"typingAlias,omitempty"`
		}
		var entries []entry
		for _, r := range s.checker.Table().Requirements() {
			entries = append(entries, entry{
				Symbol:      r.Symbol.QualifiedName(),
				MinVersion:  r.MinVersion.String(),
				TypingAlias: r.TypingAlias,
			})
		}
		resp.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(resp).Encode(entries); err != nil {
			log.Println("error writing table:", err)
		}
	})

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	// Serve WebSocket endpoint for check requests.
	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     func(_ *http.Request) bool { return true },
	}
	mux.HandleFunc("/check", func(resp http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(resp, req, nil)
		if err != nil {
			log.Println(err)
			return
		}
		s.addConnection(conn)
	})

	return mux
}

// addConnection serves requests from wsConn until it closes.
func (s *Server) addConnection(wsConn *websocket.Conn) {
	s.mu.Lock()
	conn := newConnection(wsConn, s, s.nextConnID)
	s.nextConnID++
	s.connections[conn.id] = conn
	s.mu.Unlock()

	conn.handleRequests()
}

func (s *Server) removeConn(conn *connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.connections, conn.id)
}

func (s *Server) ListenAndServe() error {
	log.Println("serving HTTP at", fmt.Sprintf("http://%s/", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

func (s *Server) Close() error {
	log.Println("closing http server...")
	if err := s.httpServer.Close(); err != nil {
		return err
	}
	s.mu.Lock()
	for _, conn := range s.connections {
		conn.clientConn.Close()
	}
	s.mu.Unlock()
	log.Println("closing result cache...")
	if err := s.checker.Close(); err != nil {
		return err
	}
	log.Println("bye!")
	return nil
}
