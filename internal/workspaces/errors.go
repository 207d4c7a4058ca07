package workspaces

import "errors"

var (
	ErrNotFound         = errors.New("workspace not found")
	ErrOfferNotFound    = errors.New("offer not found")
	ErrBonusNotFound    = errors.New("bonus not found")
	ErrTooManyBonuses   = errors.New("too many bonus dimensions")
	ErrBonusNotAllowed  = errors.New("dimension does not accept bonuses")
	ErrInvalidOffer     = errors.New("invalid offer")
	ErrUnsupportedState = errors.New("unsupported workspace version")
)
