package bean

import "fmt"

// RemoteCallError reports a failed attribute read or method invocation
// inside an established session. Op is the attribute or method name.
type RemoteCallError struct {
	Op    string
	Bean  Handle
	Cause error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("remote call %q on bean %q failed: %v", e.Op, e.Bean, e.Cause)
}

func (e *RemoteCallError) Unwrap() error { return e.Cause }

// ResolutionError reports a broken or malformed link while walking the
// provider discovery attribute chain.
type ResolutionError struct {
	Step  string
	Cause error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving attribute %q: %v", e.Step, e.Cause)
}

func (e *ResolutionError) Unwrap() error { return e.Cause }

// UnknownProviderError is returned when a caller names an identity provider
// that discovery did not find in the realm.
type UnknownProviderError struct {
	Provider string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf(
		"identity provider %q not found in the realm. "+
			"Please check the provider name against ListIdentityProviders.",
		e.Provider,
	)
}

// ConnectionError reports a failed session bootstrap, as opposed to a call
// that failed inside an already established session.
type ConnectionError struct {
	Endpoint string
	Cause    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connecting to %s: %v", e.Endpoint, e.Cause)
}

func (e *ConnectionError) Unwrap() error { return e.Cause }
