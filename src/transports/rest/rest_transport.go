// Package rest implements the RemoteInvoker over the management REST
// bridge: one authenticated session, attribute reads and method invocations
// as POSTs against the bean endpoints.
package rest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pwszpl/go-wlsrealm/src/bean"
	"github.com/pwszpl/go-wlsrealm/src/invoker"
	"github.com/pwszpl/go-wlsrealm/src/json"
)

// Endpoint describes how to reach and authenticate with the bridge.
type Endpoint struct {
	Host     string
	Port     int
	Username string
	Password string
}

func (e Endpoint) addr() string { return fmt.Sprintf("%s:%d", e.Host, e.Port) }

// Transport is a live session with the bridge. It holds no state beyond the
// session token, so it is safe for concurrent use as long as the underlying
// http.Client is.
type Transport struct {
	base       string
	httpClient *http.Client
	token      string
	logger     func(format string, args ...any)
}

// Connect authenticates against the bridge and returns a live transport.
// Failures here surface as ConnectionErrors; once the session exists, call
// failures surface as RemoteCallErrors instead.
func Connect(ctx context.Context, ep Endpoint, logger func(format string, args ...any)) (*Transport, error) {
	if logger == nil {
		logger = func(format string, args ...any) {}
	}
	t := &Transport{
		base:       fmt.Sprintf("http://%s/management", ep.addr()),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}

	payload, err := json.Marshal(map[string]string{
		"username": ep.Username,
		"password": ep.Password,
	})
	if err != nil {
		return nil, &bean.ConnectionError{Endpoint: ep.addr(), Cause: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.base+"/session", bytes.NewReader(payload))
	if err != nil {
		return nil, &bean.ConnectionError{Endpoint: ep.addr(), Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, &bean.ConnectionError{Endpoint: ep.addr(), Cause: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, &bean.ConnectionError{Endpoint: ep.addr(), Cause: fmt.Errorf("login rejected: %s", resp.Status)}
	}
	var session struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, &bean.ConnectionError{Endpoint: ep.addr(), Cause: err}
	}
	if session.Token == "" {
		return nil, &bean.ConnectionError{Endpoint: ep.addr(), Cause: errors.New("no session token in login response")}
	}
	t.token = session.Token
	t.logger("rest: session established with %s", ep.addr())
	return t, nil
}

type callRequest struct {
	ID        string    `json:"id"`
	Bean      string    `json:"bean"`
	Attribute string    `json:"attribute,omitempty"`
	Method    string    `json:"method,omitempty"`
	Args      []wireArg `json:"args,omitempty"`
}

type wireArg struct {
	Kind  string `json:"kind"`
	Value any    `json:"value"`
}

type callResponse struct {
	Value any    `json:"value"`
	Error string `json:"error,omitempty"`
}

// GetAttribute reads a named attribute of a bean.
func (t *Transport) GetAttribute(ctx context.Context, h bean.Handle, name string) (invoker.Value, error) {
	v, err := t.call(ctx, "/bean/attribute", callRequest{
		ID:        uuid.NewString(),
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
	v, err := t.call(ctx, "/bean/invoke", callRequest{
		ID:     uuid.NewString(),
		Bean:   h.String(),
		Method: method,
		Args:   wire,
	})
	if err != nil {
		return invoker.Null, &bean.RemoteCallError{Op: method, Bean: h, Cause: err}
	}
	return v, nil
}

func (t *Transport) call(ctx context.Context, path string, req callRequest) (invoker.Value, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return invoker.Null, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.base+path, bytes.NewReader(payload))
	if err != nil {
		return invoker.Null, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Session-Token", t.token)

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return invoker.Null, err
	}
	defer resp.Body.Close()

	var out callResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&out)
	if resp.StatusCode >= 400 {
		if decodeErr == nil && out.Error != "" {
			return invoker.Null, errors.New(out.Error)
		}
		return invoker.Null, fmt.Errorf("bridge returned %s", resp.Status)
	}
	if decodeErr != nil {
		return invoker.Null, decodeErr
	}
	return invoker.NewValue(out.Value), nil
}

// Close logs the session out. The transport is unusable afterwards.
func (t *Transport) Close() error {
	req, err := http.NewRequest(http.MethodDelete, t.base+"/session", nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Session-Token", t.token)
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}
