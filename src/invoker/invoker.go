// Package invoker defines the boundary to the remote management service:
// attribute reads and method invocations against a bean handle.
package invoker

import (
	"context"

	"github.com/pwszpl/go-wlsrealm/src/bean"
)

// RemoteInvoker performs attribute reads and method invocations on remote
// beans. Implementations own argument and result serialization and any
// deadline or retry policy. The packages built on top of this interface do
// no locking of their own; sharing a client across goroutines is safe only
// if the RemoteInvoker itself is safe for concurrent use.
type RemoteInvoker interface {
	// GetAttribute reads a named attribute of a bean. A remote null is
	// reported as a null Value, not an error.
	GetAttribute(ctx context.Context, h bean.Handle, name string) (Value, error)

	// Invoke calls a named method on a bean with typed arguments. Methods
	// without a result yield a null Value.
	Invoke(ctx context.Context, h bean.Handle, method string, args ...bean.Arg) (Value, error)

	// Close releases the session with the remote service.
	Close() error
}
