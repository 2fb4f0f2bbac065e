// Package bean holds the value types shared by every layer of the client:
// opaque bean handles, typed invocation arguments and the error taxonomy.
package bean

// Handle is an opaque reference to a bean held by the remote management
// service. Handles come out of attribute reads and are passed back into
// later reads and invocations; the client never parses them. The zero value
// means "no bean".
type Handle string

func (h Handle) IsZero() bool { return h == "" }

func (h Handle) String() string { return string(h) }

// ArgKind discriminates the closed set of argument types a remote method
// accepts.
type ArgKind string

const (
	KindBool   ArgKind = "boolean"
	KindString ArgKind = "string"
	KindInt    ArgKind = "integer"
	KindHandle ArgKind = "handle"
)

// Arg is a single typed argument for a remote method invocation. Transports
// read the kind and the matching wire value; nothing else inspects the
// payload.
type Arg struct {
	kind ArgKind
	b    bool
	s    string
	i    int
	h    Handle
}

func BoolArg(v bool) Arg { return Arg{kind: KindBool, b: v} }

func StringArg(v string) Arg { return Arg{kind: KindString, s: v} }

func IntArg(v int) Arg { return Arg{kind: KindInt, i: v} }

func HandleArg(h Handle) Arg { return Arg{kind: KindHandle, h: h} }

// Kind returns the discriminator.
func (a Arg) Kind() ArgKind { return a.kind }

// WireValue returns the value to serialize for Kind.
func (a Arg) WireValue() any {
	switch a.kind {
	case KindBool:
		return a.b
	case KindString:
		return a.s
	case KindInt:
		return a.i
	case KindHandle:
		return a.h.String()
	default:
		return nil
	}
}
