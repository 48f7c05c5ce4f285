package match

import "errors"

var (
	ErrInvalidQuantity  = errors.New("order quantity must be positive")
	ErrInvalidPrice     = errors.New("order price must be positive")
	ErrDuplicateOrderID = errors.New("order id already resting in the book")
	ErrInvalidParam     = errors.New("the param is invalid")
	ErrTimeout          = errors.New("timeout")
	ErrShutdown         = errors.New("processor is shutting down")
	ErrSequenceGap      = errors.New("event sequence gap detected")
	ErrDepthUnderflow   = errors.New("aggregated depth would go negative")
)
