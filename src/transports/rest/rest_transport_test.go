package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/pwszpl/go-wlsrealm/src/bean"
)

type bridgeRequest struct {
	ID        string `json:"id"`
	Bean      string `json:"bean"`
	Attribute string `json:"attribute"`
	Method    string `json:"method"`
	Args      []struct {
		Kind  string `json:"kind"`
		Value any    `json:"value"`
	} `json:"args"`
}

func newBridge(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/management/session":
			if r.Method == http.MethodDelete {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			var creds struct{ Username, Password string }
			json.NewDecoder(r.Body).Decode(&creds)
			if creds.Password != "welcome1" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"token": "s1"})
		case "/management/bean/attribute":
			if r.Header.Get("X-Session-Token") != "s1" {
				http.Error(w, "no session", http.StatusUnauthorized)
				return
			}
			var req bridgeRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.ID == "" {
				http.Error(w, "missing request id", http.StatusBadRequest)
				return
			}
			switch req.Bean + "#" + req.Attribute {
			case "realm#AuthenticationProviders":
				json.NewEncoder(w).Encode(map[string]any{"value": []string{"prov1"}})
			case "realm#Missing":
				json.NewEncoder(w).Encode(map[string]any{"value": nil})
			default:
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(map[string]any{"error": "no such bean"})
			}
		case "/management/bean/invoke":
			var req bridgeRequest
			json.NewDecoder(r.Body).Decode(&req)
			switch req.Method {
			case "isMember":
				if len(req.Args) != 2 || req.Args[0].Kind != "string" {
					http.Error(w, "bad args", http.StatusBadRequest)
					return
				}
				json.NewEncoder(w).Encode(map[string]any{"value": true})
			case "explode":
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]any{"error": "provider exploded"})
			default:
				json.NewEncoder(w).Encode(map[string]any{"value": nil})
			}
		default:
			http.NotFound(w, r)
		}
	}))
}

func endpointFor(t *testing.T, server *httptest.Server, password string) Endpoint {
	t.Helper()
	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	port, _ := strconv.Atoi(u.Port())
	return Endpoint{Host: u.Hostname(), Port: port, Username: "weblogic", Password: password}
}

func TestConnect_And_Calls(t *testing.T) {
	server := newBridge(t)
	defer server.Close()
	ctx := context.Background()

	tr, err := Connect(ctx, endpointFor(t, server, "welcome1"), nil)
	if err != nil {
		t.Fatalf("connect error: %v", err)
	}
	defer tr.Close()

	v, err := tr.GetAttribute(ctx, "realm", "AuthenticationProviders")
	if err != nil {
		t.Fatalf("attribute error: %v", err)
	}
	handles, err := v.HandleSlice()
	if err != nil || len(handles) != 1 || handles[0] != "prov1" {
		t.Fatalf("unexpected handles: %v %v", handles, err)
	}

	v, err = tr.GetAttribute(ctx, "realm", "Missing")
	if err != nil {
		t.Fatalf("attribute error: %v", err)
	}
	if !v.IsNull() {
		t.Fatalf("expected a null value, got %#v", v.Raw())
	}

	v, err = tr.Invoke(ctx, "prov1", "isMember", bean.StringArg("admins"), bean.StringArg("alice"))
	if err != nil {
		t.Fatalf("invoke error: %v", err)
	}
	ok, err := v.Bool()
	if err != nil || !ok {
		t.Fatalf("unexpected result: %v %v", ok, err)
	}
}

func TestConnect_RejectedCredentials(t *testing.T) {
	server := newBridge(t)
	defer server.Close()

	_, err := Connect(context.Background(), endpointFor(t, server, "wrong"), nil)
	var ce *bean.ConnectionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConnectionError, got %v", err)
	}
}

func TestInvoke_RemoteFailure(t *testing.T) {
	server := newBridge(t)
	defer server.Close()
	ctx := context.Background()

	tr, err := Connect(ctx, endpointFor(t, server, "welcome1"), nil)
	if err != nil {
		t.Fatalf("connect error: %v", err)
	}
	defer tr.Close()

	_, err = tr.Invoke(ctx, "prov1", "explode")
	var rce *bean.RemoteCallError
	if !errors.As(err, &rce) {
		t.Fatalf("expected RemoteCallError, got %v", err)
	}
	if rce.Op != "explode" || !strings.Contains(rce.Error(), "provider exploded") {
		t.Fatalf("unexpected error detail: %v", rce)
	}
}

func TestGetAttribute_MissingBean(t *testing.T) {
	server := newBridge(t)
	defer server.Close()
	ctx := context.Background()

	tr, err := Connect(ctx, endpointFor(t, server, "welcome1"), nil)
	if err != nil {
		t.Fatalf("connect error: %v", err)
	}
	defer tr.Close()

	_, err = tr.GetAttribute(ctx, "nope", "Name")
	var rce *bean.RemoteCallError
	if !errors.As(err, &rce) {
		t.Fatalf("expected RemoteCallError, got %v", err)
	}
}
