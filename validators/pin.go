package validators

import "errors"

var (
	ErrPinEmpty      = errors.New("no PIN provided")
	ErrPinBadLength  = errors.New("PIN must be 4 to 8 digits long")
	ErrPinNotNumeric = errors.New("PIN may only contain digits")
)

// PinValidator checks the shape of an upload PIN. PINs are short
// numeric secrets meant to be typed from a QR-code landing page, so
// anything beyond digits is rejected
func PinValidator(p string) error {
	if p == "" {
		return ErrPinEmpty
	}

	if len(p) < 4 || len(p) > 8 {
		return ErrPinBadLength
	}

	for _, r := range p {
		if r < '0' || r > '9' {
			return ErrPinNotNumeric
		}
	}

	return nil
}
