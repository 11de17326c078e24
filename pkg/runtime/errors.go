package runtime

import (
	"errors"
	"fmt"
)

var (
	ErrMultipleReplies     = errors.New("at most one reply-tracked message is allowed per transaction")
	ErrAlreadyInstantiated = errors.New("controller is already instantiated")
	ErrReplyTimeout        = errors.New("registry reply timed out")
	ErrHostClosed          = errors.New("host is closed")
)

// ProvisioningError reports that the registry could not create a denomination.
type ProvisioningError struct {
	Subdenom string
	Err      error
}

func (errorValue ProvisioningError) Error() string {
	return fmt.Sprintf("failed to provision denomination %s: %v", errorValue.Subdenom, errorValue.Err)
}

func (errorValue ProvisioningError) Unwrap() error {
	return errorValue.Err
}

// DispatchError reports that the registry rejected an outbound instruction.
type DispatchError struct {
	Kind string
	Err  error
}

func (errorValue DispatchError) Error() string {
	return fmt.Sprintf("registry rejected %s: %v", errorValue.Kind, errorValue.Err)
}

func (errorValue DispatchError) Unwrap() error {
	return errorValue.Err
}
