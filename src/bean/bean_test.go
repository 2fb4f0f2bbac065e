package bean

import (
	"errors"
	"testing"
)

func TestArgKindsAndWireValues(t *testing.T) {
	cases := []struct {
		arg  Arg
		kind ArgKind
		wire any
	}{
		{BoolArg(true), KindBool, true},
		{StringArg("*"), KindString, "*"},
		{IntArg(10), KindInt, 10},
		{HandleArg(Handle("prov1")), KindHandle, "prov1"},
	}
	for _, c := range cases {
		if c.arg.Kind() != c.kind || c.arg.WireValue() != c.wire {
			t.Fatalf("arg %v: got kind %q value %#v", c, c.arg.Kind(), c.arg.WireValue())
		}
	}
}

func TestErrorUnwrapping(t *testing.T) {
	cause := errors.New("socket closed")
	err := error(&RemoteCallError{Op: "isMember", Bean: "prov1", Cause: cause})
	if !errors.Is(err, cause) {
		t.Fatal("RemoteCallError does not unwrap to its cause")
	}

	wrapped := error(&ResolutionError{Step: "DefaultRealm", Cause: err})
	var rce *RemoteCallError
	if !errors.As(wrapped, &rce) || rce.Op != "isMember" {
		t.Fatalf("ResolutionError does not expose the nested call failure: %v", wrapped)
	}
}

func TestHandleZero(t *testing.T) {
	if !Handle("").IsZero() || Handle("prov1").IsZero() {
		t.Fatal("IsZero misreports")
	}
}
