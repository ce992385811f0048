package supervisor

import "errors"

// alreadyExistsError signals a duplicate model uid, replica id, or worker
// address.
type alreadyExistsError struct{ id string }

func (e alreadyExistsError) Error() string { return "already registered: " + e.id }

func ErrAlreadyExists(id string) error { return alreadyExistsError{id: id} }

// IsAlreadyExists reports whether err indicates a duplicate registration.
func IsAlreadyExists(err error) bool {
	var e alreadyExistsError
	return errors.As(err, &e)
}

// notFoundError signals an unknown model uid, replica binding, or worker.
type notFoundError struct{ id string }

func (e notFoundError) Error() string { return "not found: " + e.id }

func ErrNotFound(id string) error { return notFoundError{id: id} }

// IsNotFound reports whether err indicates a missing model or worker.
func IsNotFound(err error) bool {
	var e notFoundError
	return errors.As(err, &e)
}

// noWorkerError signals an empty worker registry at placement time.
type noWorkerError struct{}

func (noWorkerError) Error() string { return "no available worker found" }

func ErrNoAvailableWorker() error { return noWorkerError{} }

// IsNoAvailableWorker reports whether err indicates placement had no
// candidates.
func IsNoAvailableWorker(err error) bool {
	var e noWorkerError
	return errors.As(err, &e)
}

// remoteError wraps a failed call to a worker, keeping the address.
type remoteError struct {
	address string
	err     error
}

func (e remoteError) Error() string { return "worker " + e.address + ": " + e.err.Error() }

func (e remoteError) Unwrap() error { return e.err }

func ErrRemote(address string, err error) error { return remoteError{address: address, err: err} }

// IsRemoteFailure reports whether err came back from a worker call.
func IsRemoteFailure(err error) bool {
	var e remoteError
	return errors.As(err, &e)
}
