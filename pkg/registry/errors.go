package registry

import "fmt"

type RegistryError struct {
	Message string
}

func (errorValue RegistryError) Error() string {
	return errorValue.Message
}

type DenomExistsError struct {
	RegistryError
	Denom string
}

func NewDenomExistsError(denom string) error {
	return DenomExistsError{
		RegistryError: RegistryError{Message: fmt.Sprintf("denomination %s already exists", denom)},
		Denom:         denom,
	}
}

type DenomNotFoundError struct {
	RegistryError
	Denom string
}

func NewDenomNotFoundError(denom string) error {
	return DenomNotFoundError{
		RegistryError: RegistryError{Message: fmt.Sprintf("denomination %s not found", denom)},
		Denom:         denom,
	}
}

type InvalidSubdenomError struct {
	RegistryError
	Subdenom string
}

func NewInvalidSubdenomError(subdenom string, reason string) error {
	return InvalidSubdenomError{
		RegistryError: RegistryError{Message: fmt.Sprintf("invalid subdenom %q: %s", subdenom, reason)},
		Subdenom:      subdenom,
	}
}

type NotDenomAdminError struct {
	RegistryError
	Denom string
	Owner string
}

func NewNotDenomAdminError(denom string, owner string) error {
	return NotDenomAdminError{
		RegistryError: RegistryError{Message: fmt.Sprintf("%s is not the admin of %s", owner, denom)},
		Denom:         denom,
		Owner:         owner,
	}
}

type InsufficientFundsError struct {
	RegistryError
	Account   string
	Required  Coin
	Available uint64
}

func NewInsufficientFundsError(account string, required Coin, available uint64) error {
	return InsufficientFundsError{
		RegistryError: RegistryError{Message: fmt.Sprintf(
			"insufficient funds in %s: required %s, available %d",
			account,
			required,
			available,
		)},
		Account:   account,
		Required:  required,
		Available: available,
	}
}
