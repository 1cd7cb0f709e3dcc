package pysubscript

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/vilterp/pysubscript/pkg/diag"
	"github.com/vilterp/pysubscript/pkg/pyversion"
)

// Client talks to a Server's /check endpoint. Requests may be issued
// from several goroutines; responses are matched up by ID.
type Client struct {
	URL          string
	ServerClosed chan struct{}

	conn *websocket.Conn

	mu      sync.Mutex
	nextID  int
	pending map[int]chan *CheckResponse
	err     error
}

func NewClient(url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	client := &Client{
		URL:          url,
		ServerClosed: make(chan struct{}),
		conn:         conn,
		nextID:       1,
		pending:      map[int]chan *CheckResponse{},
	}
	go client.handleIncoming()
	return client, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) handleIncoming() {
	defer close(c.ServerClosed)
	for {
		resp := &CheckResponse{}
		if err := c.conn.ReadJSON(resp); err != nil {
			c.mu.Lock()
			c.err = err
			for id, ch := range c.pending {
				close(ch)
				delete(c.pending, id)
			}
			c.mu.Unlock()
			return
		}

		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		delete(c.pending, resp.ID)
		c.mu.Unlock()
		if ok {
			ch <- resp
		}
	}
}

// Check sends source to the server and waits for its diagnostics. A nil
// version uses the server's target.
func (c *Client) Check(filename string, source string, version *pyversion.Version) ([]diag.Diagnostic, error) {
	ch := make(chan *CheckResponse, 1)

	c.mu.Lock()
	if c.err != nil {
		err := c.err
		c.mu.Unlock()
		return nil, errors.Wrap(err, "connection closed")
	}
	id := c.nextID
	c.nextID++
	c.pending[id] = ch
	writeErr := c.conn.WriteJSON(&CheckRequest{
		ID:            id,
		Filename:      filename,
		Source:        source,
		PythonVersion: version,
	})
	if writeErr != nil {
		delete(c.pending, id)
	}
	c.mu.Unlock()
	if writeErr != nil {
		return nil, errors.Wrap(writeErr, "sending check request")
	}

	resp, ok := <-ch
	if !ok {
		c.mu.Lock()
		err := c.err
		c.mu.Unlock()
		return nil, errors.Wrap(err, "connection closed")
	}
	if resp.Error != nil {
		return nil, &serverError{RequestID: resp.ID, Message: *resp.Error}
	}
	return resp.Diagnostics, nil
}
