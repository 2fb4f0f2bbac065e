// Package tunnel implements the RemoteInvoker over a single persistent
// WebSocket to the management tunnel endpoint. Requests and responses are
// JSON frames matched by id.
package tunnel

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pwszpl/go-wlsrealm/src/bean"
	"github.com/pwszpl/go-wlsrealm/src/invoker"
)

// Endpoint describes how to reach and authenticate with the tunnel.
type Endpoint struct {
	Host     string
	Port     int
	Username string
	Password string
}

func (e Endpoint) addr() string { return fmt.Sprintf("%s:%d", e.Host, e.Port) }

type frame struct {
	ID        string    `json:"id"`
	Op        string    `json:"op,omitempty"` // "attribute" or "invoke"
	Bean      string    `json:"bean,omitempty"`
	Attribute string    `json:"attribute,omitempty"`
	Method    string    `json:"method,omitempty"`
	Args      []wireArg `json:"args,omitempty"`
	Value     any       `json:"value"`
	Error     string    `json:"error,omitempty"`
}

type wireArg struct {
	Kind  string `json:"kind"`
	Value any    `json:"value"`
}

// Transport multiplexes calls over one WebSocket. A mutex serializes the
// request/response exchanges, so a single Transport may be shared across
// goroutines at the cost of one call in flight at a time.
type Transport struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	logger func(format string, args ...any)
}

// Connect dials the tunnel with basic-auth credentials and returns a live
// transport. Failures here surface as ConnectionErrors.
func Connect(ctx context.Context, ep Endpoint, logger func(format string, args ...any)) (*Transport, error) {
	if logger == nil {
		logger = func(format string, args ...any) {}
	}
	hdr := http.Header{}
	enc := base64.StdEncoding.EncodeToString([]byte(ep.Username + ":" + ep.Password))
	hdr.Set("Authorization", "Basic "+enc)

	dialer := &websocket.Dialer{HandshakeTimeout: 30 * time.Second}
	conn, _, err := dialer.DialContext(ctx, fmt.Sprintf("ws://%s/management/tunnel", ep.addr()), hdr)
	if err != nil {
		return nil, &bean.ConnectionError{Endpoint: ep.addr(), Cause: err}
	}
	logger("tunnel: session established with %s", ep.addr())
	return &Transport{conn: conn, logger: logger}, nil
}

// GetAttribute reads a named attribute of a bean.
func (t *Transport) GetAttribute(ctx context.Context, h bean.Handle, name string) (invoker.Value, error) {
	v, err := t.roundTrip(ctx, frame{
		ID:        uuid.NewString(),
		Op:        "attribute",
		Bean:      h.String(),
		Attribute: name,
	})
	if err != nil {
		return invoker.Null, &bean.RemoteCallError{Op: name, Bean: h, Cause: err}
	}
	return v, nil
}

// Invoke calls a named method on a bean with typed arguments.
func (t *Transport) Invoke(ctx context.Context, h bean.Handle, method string, args ...bean.Arg) (invoker.Value, error) {
	wire := make([]wireArg, len(args))
	for i, a := range args {
		wire[i] = wireArg{Kind: string(a.Kind()), Value: a.WireValue()}
	}
	v, err := t.roundTrip(ctx, frame{
		ID:     uuid.NewString(),
		Op:     "invoke",
		Bean:   h.String(),
		Method: method,
		Args:   wire,
	})
	if err != nil {
		return invoker.Null, &bean.RemoteCallError{Op: method, Bean: h, Cause: err}
	}
	return v, nil
}

func (t *Transport) roundTrip(ctx context.Context, req frame) (invoker.Value, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Time{}
	}
	if err := t.conn.SetWriteDeadline(deadline); err != nil {
		return invoker.Null, err
	}
	if err := t.conn.SetReadDeadline(deadline); err != nil {
		return invoker.Null, err
	}

	if err := t.conn.WriteJSON(req); err != nil {
		return invoker.Null, err
	}
	for {
		var resp frame
		if err := t.conn.ReadJSON(&resp); err != nil {
			return invoker.Null, err
		}
		if resp.ID != req.ID {
			t.logger("tunnel: dropping stray frame %q", resp.ID)
			continue
		}
		if resp.Error != "" {
			return invoker.Null, errors.New(resp.Error)
		}
		return invoker.NewValue(resp.Value), nil
	}
}

// Close sends a close frame and tears the connection down.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return t.conn.Close()
}
