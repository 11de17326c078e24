package issuance

import "fmt"

type IssuanceError struct {
	Message string
}

func (errorValue IssuanceError) Error() string {
	return errorValue.Message
}

type InvalidAddressError struct {
	IssuanceError
	Address string
}

func NewInvalidAddressError(address string) error {
	return InvalidAddressError{
		IssuanceError: IssuanceError{Message: fmt.Sprintf("invalid address: %q", address)},
		Address:       address,
	}
}

type InvalidSubdenomError struct {
	IssuanceError
	Subdenom string
}

type InvalidMessageError struct {
	IssuanceError
}

type UnauthorizedError struct {
	IssuanceError
	Sender string
}

func NewUnauthorizedError(sender string) error {
	return UnauthorizedError{
		IssuanceError: IssuanceError{Message: "unauthorized"},
		Sender:        sender,
	}
}

type NothingToMintError struct {
	IssuanceError
}

func NewNothingToMintError() error {
	return NothingToMintError{IssuanceError: IssuanceError{Message: "nothing to mint"}}
}

type PaymentReason string

const (
	PaymentNoFunds        PaymentReason = "no_funds"
	PaymentMultipleDenoms PaymentReason = "multiple_denoms"
	PaymentWrongDenom     PaymentReason = "wrong_denom"
	PaymentZeroAmount     PaymentReason = "zero_amount"
)

type PaymentError struct {
	IssuanceError
	Reason PaymentReason
	Denom  string
}

func NewPaymentError(reason PaymentReason, denom string) error {
	return PaymentError{
		IssuanceError: IssuanceError{Message: fmt.Sprintf("invalid payment for %s: %s", denom, reason)},
		Reason:        reason,
		Denom:         denom,
	}
}

type UnknownReplyIDError struct {
	IssuanceError
	ID uint64
}

func NewUnknownReplyIDError(id uint64) error {
	return UnknownReplyIDError{
		IssuanceError: IssuanceError{Message: fmt.Sprintf("unknown reply id: %d", id)},
		ID:            id,
	}
}

type ProvisioningFailedError struct {
	IssuanceError
	Subdenom string
}

type AlreadyProvisionedError struct {
	IssuanceError
	Denom string
}
