package forecast

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Temperature scales.
const (
	Fahrenheit = "F"
	Celsius    = "C"
	Kelvin     = "K"
)

// MissingValue is shown in place of a temperature that did not parse.
const MissingValue = "(missing)"

// ErrUnknownUnit means a temperature scale is not one of F, C or K.
var ErrUnknownUnit = errors.New("unknown temperature unit")

// NormalizeUnit upper-cases and validates a scale letter.
func NormalizeUnit(unit string) (string, error) {
	u := strings.ToUpper(strings.TrimSpace(unit))
	switch u {
	case Fahrenheit, Celsius, Kelvin:
		return u, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
}

// CelsiusToFahrenheit converts °C to °F.
func CelsiusToFahrenheit(c float64) float64 { return c/5*9 + 32 }

// FahrenheitToCelsius converts °F to °C.
func FahrenheitToCelsius(f float64) float64 { return (f - 32) / 9 * 5 }

const kelvinOffset = 273.15

// ConvertTemperature converts v from one scale to another.
func ConvertTemperature(v float64, from, to string) (float64, error) {
	if from == to {
		return v, nil
	}

	var c float64
	switch from {
	case Celsius:
		c = v
	case Fahrenheit:
		c = FahrenheitToCelsius(v)
	case Kelvin:
		c = v - kelvinOffset
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, from)
	}

	switch to {
	case Celsius:
		return c, nil
	case Fahrenheit:
		return CelsiusToFahrenheit(c), nil
	case Kelvin:
		return c + kelvinOffset, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, to)
	}
}

// formatWhole rounds to a whole degree without printing "-0".
func formatWhole(v float64) string {
	r := math.Round(v)
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', 0, 64)
}
