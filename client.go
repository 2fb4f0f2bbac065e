// Package wlsrealm queries the identity providers plugged into a remote
// management service's default security realm: membership and existence
// checks plus cursor-backed user and group listings. The remote service
// exposes its objects only as named beans reachable through attribute reads
// and method invocations; this package never talks to the directory
// backends themselves.
package wlsrealm

import (
	"context"
	"errors"
	"fmt"

	"github.com/pwszpl/go-wlsrealm/src/bean"
	"github.com/pwszpl/go-wlsrealm/src/cursor"
	"github.com/pwszpl/go-wlsrealm/src/invoker"
	"github.com/pwszpl/go-wlsrealm/src/resolver"
	"github.com/pwszpl/go-wlsrealm/src/transports/rest"
	"github.com/pwszpl/go-wlsrealm/src/transports/tunnel"
)

// Provider query methods on a provider bean. The membership check takes the
// group before the user.
const (
	methodIsMember    = "isMember"
	methodUserExists  = "userExists"
	methodGroupExists = "groupExists"
	methodListUsers   = "listUsers"
	methodListGroups  = "listGroups"
)

// RealmClient is the public entry point. Provider discovery runs once at
// construction; every query afterwards goes straight to the live service,
// nothing is cached. A RealmClient is safe for concurrent use only if its
// RemoteInvoker is.
type RealmClient struct {
	cfg      *ClientConfig
	inv      invoker.RemoteInvoker
	registry *resolver.Registry
	pager    *cursor.Pager
}

// New builds a client on an already established invoker session and runs
// provider discovery. A realm whose provider list is absent yields a client
// with zero providers, not an error.
func New(ctx context.Context, cfg *ClientConfig, inv invoker.RemoteInvoker) (*RealmClient, error) {
	if cfg == nil {
		cfg = NewClientConfig()
	}
	if inv == nil {
		return nil, errors.New("wlsrealm: a RemoteInvoker is required")
	}
	registry, err := resolver.Resolve(ctx, inv, cfg.chain())
	if err != nil {
		return nil, err
	}
	return &RealmClient{
		cfg:      cfg,
		inv:      inv,
		registry: registry,
		pager:    cursor.New(inv, cfg.Logger),
	}, nil
}

// Connect loads the endpoint profile, establishes the session over the
// configured transport, and returns a ready client.
func Connect(ctx context.Context, cfg *ClientConfig) (*RealmClient, error) {
	if cfg == nil {
		cfg = NewClientConfig()
	}
	profile, err := cfg.LoadProfile()
	if err != nil {
		return nil, err
	}

	var inv invoker.RemoteInvoker
	switch profile.Transport {
	case "", TransportREST:
		inv, err = rest.Connect(ctx, rest.Endpoint{
			Host:     profile.Host,
			Port:     profile.Port,
			Username: profile.Username,
			Password: profile.Password,
		}, cfg.Logger)
	case TransportTunnel:
		inv, err = tunnel.Connect(ctx, tunnel.Endpoint{
			Host:     profile.Host,
			Port:     profile.Port,
			Username: profile.Username,
			Password: profile.Password,
		}, cfg.Logger)
	default:
		return nil, fmt.Errorf("unsupported transport: %s", profile.Transport)
	}
	if err != nil {
		return nil, err
	}

	client, err := New(ctx, cfg, inv)
	if err != nil {
		inv.Close()
		return nil, err
	}
	return client, nil
}

// ListIdentityProviders returns the provider names found in the realm, in
// discovery order.
func (c *RealmClient) ListIdentityProviders() []string {
	return c.registry.Names()
}

// IsMember reports whether user belongs to group according to the named
// provider.
func (c *RealmClient) IsMember(ctx context.Context, provider, user, group string) (bool, error) {
	h, err := c.provider(provider)
	if err != nil {
		return false, err
	}
	v, err := c.inv.Invoke(ctx, h, methodIsMember, bean.StringArg(group), bean.StringArg(user))
	if err != nil {
		return false, err
	}
	return c.boolResult(methodIsMember, h, v)
}

// UserExists reports whether the named provider knows the user.
func (c *RealmClient) UserExists(ctx context.Context, provider, user string) (bool, error) {
	return c.exists(ctx, provider, methodUserExists, user)
}

// GroupExists reports whether the named provider knows the group.
func (c *RealmClient) GroupExists(ctx context.Context, provider, group string) (bool, error) {
	return c.exists(ctx, provider, methodGroupExists, group)
}

// ListUsers lists the users of a provider matching the glob-like filter.
// The limit only hints how much the remote service is willing to enumerate
// per listing call; the result may be shorter or longer.
func (c *RealmClient) ListUsers(ctx context.Context, provider, filter string, limit int) ([]string, error) {
	return c.list(ctx, provider, methodListUsers, filter, limit)
}

// ListGroups lists the groups of a provider matching the glob-like filter.
func (c *RealmClient) ListGroups(ctx context.Context, provider, filter string, limit int) ([]string, error) {
	return c.list(ctx, provider, methodListGroups, filter, limit)
}

// Close releases the invoker session.
func (c *RealmClient) Close() error {
	return c.inv.Close()
}

func (c *RealmClient) exists(ctx context.Context, provider, method, name string) (bool, error) {
	h, err := c.provider(provider)
	if err != nil {
		return false, err
	}
	v, err := c.inv.Invoke(ctx, h, method, bean.StringArg(name))
	if err != nil {
		return false, err
	}
	return c.boolResult(method, h, v)
}

func (c *RealmClient) list(ctx context.Context, provider, method, filter string, limit int) ([]string, error) {
	h, err := c.provider(provider)
	if err != nil {
		return nil, err
	}
	v, err := c.inv.Invoke(ctx, h, method, bean.StringArg(filter), bean.IntArg(limit))
	if err != nil {
		return nil, err
	}
	token, err := v.String()
	if err != nil {
		return nil, &bean.RemoteCallError{Op: method, Bean: h, Cause: err}
	}
	return c.pager.Drain(ctx, h, token)
}

func (c *RealmClient) boolResult(method string, h bean.Handle, v invoker.Value) (bool, error) {
	ok, err := v.Bool()
	if err != nil {
		return false, &bean.RemoteCallError{Op: method, Bean: h, Cause: err}
	}
	return ok, nil
}

// provider resolves a name against the registry without touching the remote
// service.
func (c *RealmClient) provider(name string) (bean.Handle, error) {
	h, ok := c.registry.Lookup(name)
	if !ok {
		return "", &bean.UnknownProviderError{Provider: name}
	}
	return h, nil
}
