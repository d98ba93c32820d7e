package style

import "errors"

var (
	// ErrUnknownStyleProperty is returned when a property name is not in the style table.
	ErrUnknownStyleProperty = errors.New("unknown style property")
	// ErrInvalidAnchorKeyword is returned for a position keyword that does not fit its axis.
	ErrInvalidAnchorKeyword = errors.New("invalid anchor keyword")
	// ErrInvalidPositionValueType is returned for a position coordinate that is neither a number nor a string.
	ErrInvalidPositionValueType = errors.New("invalid position value type")
	// ErrInvalidValue is returned when a declaration value cannot be parsed.
	ErrInvalidValue = errors.New("invalid style value")
)
