package issuance

import "github.com/hashgraph-online/issuance-sdk-go/pkg/registry"

// MustPay returns the amount of denom attached to a call. The funds must be
// exactly one coin, of denom, with a non-zero amount.
func MustPay(funds []registry.Coin, denom string) (uint64, error) {
	switch {
	case len(funds) == 0:
		return 0, NewPaymentError(PaymentNoFunds, denom)
	case len(funds) > 1:
		return 0, NewPaymentError(PaymentMultipleDenoms, denom)
	}

	coin := funds[0]
	if coin.Denom != denom {
		return 0, NewPaymentError(PaymentWrongDenom, denom)
	}
	if coin.Amount == 0 {
		return 0, NewPaymentError(PaymentZeroAmount, denom)
	}
	return coin.Amount, nil
}
