package convert

import (
	"errors"
)

// Sentinel kinds for conversion errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrConversion        = errors.New("conversion failed")
)
