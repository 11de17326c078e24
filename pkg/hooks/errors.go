package hooks

import "fmt"

type HooksError struct {
	Message string
}

func (errorValue HooksError) Error() string {
	return errorValue.Message
}

type UnauthorizedError struct {
	HooksError
	Sender string
}

func NewUnauthorizedError(sender string) error {
	return UnauthorizedError{
		HooksError: HooksError{Message: "unauthorized"},
		Sender:     sender,
	}
}

type InvalidAddressError struct {
	HooksError
	Address string
}

func NewInvalidAddressError(address string) error {
	return InvalidAddressError{
		HooksError: HooksError{Message: fmt.Sprintf("invalid puppeteer address: %q", address)},
		Address:    address,
	}
}

type AlreadyInstantiatedError struct {
	HooksError
}
