// Package cursor drives the remote service's forward-only listing cursors.
// A cursor is an opaque token issued by a listing call on a provider bean;
// every cursor method is invoked on the bean that issued the token.
package cursor

import (
	"context"

	"github.com/pwszpl/go-wlsrealm/src/bean"
	"github.com/pwszpl/go-wlsrealm/src/invoker"
)

// Cursor protocol methods on the provider bean.
const (
	methodHaveCurrent    = "haveCurrent"
	methodGetCurrentName = "getCurrentName"
	methodAdvance        = "advance"
	methodClose          = "close"
)

// Pager drains a server-side cursor into an ordered name list. The remote
// service alone decides when the cursor is exhausted; the pager imposes no
// cap of its own.
type Pager struct {
	inv    invoker.RemoteInvoker
	logger func(format string, args ...any)
}

// New creates a Pager with an optional logger.
func New(inv invoker.RemoteInvoker, logger func(format string, args ...any)) *Pager {
	if logger == nil {
		logger = func(format string, args ...any) {}
	}
	return &Pager{inv: inv, logger: logger}
}

// Drain consumes the cursor until the service reports no current element
// and returns the names in cursor order. An empty cursor yields an empty
// list, not an error. Any failure mid-loop discards what was collected; the
// documented recovery is a fresh cursor from a new listing call. Callers
// needing the partial results should use DrainResumable.
func (p *Pager) Drain(ctx context.Context, provider bean.Handle, token string) ([]string, error) {
	names, _, err := p.drain(ctx, provider, token)
	if err != nil {
		return nil, err
	}
	return names, nil
}

// DrainResumable behaves like Drain, except a mid-loop failure also hands
// back the names collected so far together with the still-live token, so
// the caller may resume from where the drain stopped. On success the
// returned token is empty.
func (p *Pager) DrainResumable(ctx context.Context, provider bean.Handle, token string) ([]string, string, error) {
	return p.drain(ctx, provider, token)
}

func (p *Pager) drain(ctx context.Context, provider bean.Handle, token string) ([]string, string, error) {
	names := []string{}
	for {
		v, err := p.inv.Invoke(ctx, provider, methodHaveCurrent, bean.StringArg(token))
		if err != nil {
			return names, token, err
		}
		more, err := v.Bool()
		if err != nil {
			return names, token, &bean.RemoteCallError{Op: methodHaveCurrent, Bean: provider, Cause: err}
		}
		if !more {
			break
		}

		nv, err := p.inv.Invoke(ctx, provider, methodGetCurrentName, bean.StringArg(token))
		if err != nil {
			return names, token, err
		}
		name, err := nv.String()
		if err != nil {
			return names, token, &bean.RemoteCallError{Op: methodGetCurrentName, Bean: provider, Cause: err}
		}
		names = append(names, name)

		if _, err := p.inv.Invoke(ctx, provider, methodAdvance, bean.StringArg(token)); err != nil {
			return names, token, err
		}
	}
	p.closeCursor(ctx, provider, token)
	return names, "", nil
}

// closeCursor asks the service to discard the cursor. Failures are logged
// and dropped; the service reaps abandoned cursors on its own schedule.
func (p *Pager) closeCursor(ctx context.Context, provider bean.Handle, token string) {
	if _, err := p.inv.Invoke(ctx, provider, methodClose, bean.StringArg(token)); err != nil {
		p.logger("cursor: close of %q on bean %q failed: %v", token, provider, err)
	}
}
