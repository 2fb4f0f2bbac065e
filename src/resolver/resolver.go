// Package resolver discovers the realm's identity providers by walking a
// fixed chain of attribute reads from the root service bean.
package resolver

import (
	"context"
	"errors"

	"github.com/pwszpl/go-wlsrealm/src/bean"
	"github.com/pwszpl/go-wlsrealm/src/invoker"
)

// Chain names the attribute path from the root service bean down to the
// realm's provider list. Values come from configuration; nothing in this
// package reaches for ambient defaults.
type Chain struct {
	Root          bean.Handle
	DomainAttr    string
	SecurityAttr  string
	RealmAttr     string
	ProvidersAttr string
	NameAttr      string
}

// DefaultChain is the attribute chain of a stock domain runtime service.
func DefaultChain(root bean.Handle) Chain {
	return Chain{
		Root:          root,
		DomainAttr:    "DomainConfiguration",
		SecurityAttr:  "SecurityConfiguration",
		RealmAttr:     "DefaultRealm",
		ProvidersAttr: "AuthenticationProviders",
		NameAttr:      "Name",
	}
}

// Registry maps provider names to their bean handles, in discovery order.
// Resolve writes it once; afterwards it is read-only and therefore safe for
// concurrent readers without locking.
type Registry struct {
	names   []string
	handles map[string]bean.Handle
}

func (r *Registry) Len() int { return len(r.names) }

// Names returns the provider names in discovery order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Lookup returns the handle registered under name.
func (r *Registry) Lookup(name string) (bean.Handle, bool) {
	h, ok := r.handles[name]
	return h, ok
}

// add keeps the first handle seen for a duplicate name.
func (r *Registry) add(name string, h bean.Handle) {
	if _, ok := r.handles[name]; ok {
		return
	}
	r.handles[name] = h
	r.names = append(r.names, name)
}

// Resolve walks the attribute chain and builds the provider registry.
//
// An absent link anywhere in the chain means the realm has no providers to
// offer and yields an empty registry. A read that fails outright, or a link
// of the wrong shape, yields a ResolutionError. That absent-vs-broken
// decision is made here, once, instead of being reconstructed by null
// checks at every step.
func Resolve(ctx context.Context, inv invoker.RemoteInvoker, chain Chain) (*Registry, error) {
	if chain.Root.IsZero() {
		return nil, &bean.ResolutionError{Step: "root", Cause: errors.New("no root bean configured")}
	}
	reg := &Registry{handles: make(map[string]bean.Handle)}

	cur := chain.Root
	for _, attr := range []string{chain.DomainAttr, chain.SecurityAttr, chain.RealmAttr} {
		v, err := inv.GetAttribute(ctx, cur, attr)
		if err != nil {
			return nil, &bean.ResolutionError{Step: attr, Cause: err}
		}
		if v.IsNull() {
			return reg, nil
		}
		next, err := v.Handle()
		if err != nil {
			return nil, &bean.ResolutionError{Step: attr, Cause: err}
		}
		cur = next
	}

	v, err := inv.GetAttribute(ctx, cur, chain.ProvidersAttr)
	if err != nil {
		return nil, &bean.ResolutionError{Step: chain.ProvidersAttr, Cause: err}
	}
	if v.IsNull() {
		return reg, nil
	}
	providers, err := v.HandleSlice()
	if err != nil {
		return nil, &bean.ResolutionError{Step: chain.ProvidersAttr, Cause: err}
	}

	for _, h := range providers {
		nv, err := inv.GetAttribute(ctx, h, chain.NameAttr)
		if err != nil {
			return nil, &bean.ResolutionError{Step: chain.NameAttr, Cause: err}
		}
		name, err := nv.String()
		if err != nil {
			return nil, &bean.ResolutionError{Step: chain.NameAttr, Cause: err}
		}
		reg.add(name, h)
	}
	return reg, nil
}
