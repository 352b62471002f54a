package shared

import "errors"

var (
	// ErrUnknownAccountType signals a payment method or account type outside {card, cash}
	ErrUnknownAccountType = errors.New("unknown account type")

	// ErrSameAccountTransfer signals a transfer whose from and to accounts are equal
	ErrSameAccountTransfer = errors.New("transfer source and destination accounts must differ")

	// ErrInvalidAmount signals a non-positive monetary amount
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrNotConvertible signals an expense that does not qualify for
	// conversion to a cash withdrawal
	ErrNotConvertible = errors.New("expense does not qualify for cash withdrawal conversion")

	// ErrReauthenticationFailed signals a failed password re-check on a
	// privileged operation
	ErrReauthenticationFailed = errors.New("password re-authentication failed")
)
