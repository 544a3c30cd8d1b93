package cwelookup

import "fmt"

// StatusError reports a non-success HTTP status from a remote source
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Bad Request - %d", e.StatusCode)
}

// CredentialLoadError is returned when a credential file cannot be read
type CredentialLoadError struct {
	Name string
	Path string
	Err  error
}

func (e *CredentialLoadError) Error() string {
	return fmt.Sprintf("loading %s from %q: %v", e.Name, e.Path, e.Err)
}

func (e *CredentialLoadError) Unwrap() error {
	return e.Err
}

// SnapshotLoadError is returned when the local snapshot cannot be read or parsed
type SnapshotLoadError struct {
	Path string
	Err  error
}

func (e *SnapshotLoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("loading snapshot: %v", e.Err)
	}
	return fmt.Sprintf("loading snapshot %q: %v", e.Path, e.Err)
}

func (e *SnapshotLoadError) Unwrap() error {
	return e.Err
}
