package pysubscript

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vilterp/pysubscript/pkg/diag"
	clog "github.com/vilterp/pysubscript/pkg/log"
)

type connection struct {
	clientConn *websocket.Conn
	id         int
	server     *Server
	responses  chan *CheckResponse
	context    context.Context
}

func newConnection(wsConn *websocket.Conn, server *Server, ID int) *connection {
	ctx := context.WithValue(server.ctx, clog.ConnIDKey, ID)
	conn := &connection{
		clientConn: wsConn,
		id:         ID,
		server:     server,
		responses:  make(chan *CheckResponse),
		context:    ctx,
	}
	go conn.writeResponsesToSocket()
	return conn
}

func (conn *connection) Ctx() context.Context {
	return conn.context
}

// writeResponsesToSocket owns writes, and closes the socket once
// responses is closed and drained.
func (conn *connection) writeResponsesToSocket() {
	defer conn.clientConn.Close()
	for resp := range conn.responses {
		if err := conn.clientConn.WriteJSON(resp); err != nil {
			clog.Println(conn, "error writing to socket:", err)
		}
	}
}

func (conn *connection) handleRequests() {
	clog.Println(conn, "initiated from", conn.clientConn.RemoteAddr())
	defer close(conn.responses)
	for {
		_, message, readErr := conn.clientConn.ReadMessage()
		if readErr != nil {
			clog.Println(conn, "terminated:", readErr)
			conn.server.removeConn(conn)
			return
		}
		req := &CheckRequest{}
		if err := json.Unmarshal(message, req); err != nil {
			header := requestHeader{}
			if headerErr := json.Unmarshal(message, &header); headerErr != nil {
				header.ID = 0
			}
			clog.Println(conn, "malformed request:", err)
			msg := "malformed request: " + err.Error()
			conn.responses <- &CheckResponse{ID: header.ID, Error: &msg}
			continue
		}
		conn.responses <- conn.handleRequest(req)
	}
}

func (conn *connection) handleRequest(req *CheckRequest) *CheckResponse {
	ctx := context.WithValue(conn.context, clog.RequestIDKey, req.ID)
	checker := conn.server.checker
	if req.PythonVersion != nil {
		if req.PythonVersion.Major != 3 {
			msg := fmt.Sprintf("unsupported target %s: only Python 3 targets are supported", *req.PythonVersion)
			return &CheckResponse{ID: req.ID, Target: *req.PythonVersion, Error: &msg}
		}
		checker = checker.WithTarget(*req.PythonVersion)
	}

	diags, err := checker.CheckSource(ctx, req.Filename, []byte(req.Source))
	if err != nil {
		clog.Println(clog.FromContext(ctx), err)
		msg := err.Error()
		return &CheckResponse{ID: req.ID, Target: checker.Target(), Error: &msg}
	}
	if diags == nil {
		diags = []diag.Diagnostic{}
	}
	return &CheckResponse{ID: req.ID, Target: checker.Target(), Diagnostics: diags}
}
