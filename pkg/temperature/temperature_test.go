package temperature

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestFahrenheitToCelsius(t *testing.T) {
	tests := []struct {
		name string
		f    float64
		c    float64
	}{
		{name: "freezing", f: 32, c: 0},
		{name: "boiling", f: 212, c: 100},
		{name: "room", f: 75, c: 23.88888888888889},
		{name: "negative", f: -40, c: -40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.c, FahrenheitToCelsius(tt.f), 1e-9)
			assert.InDelta(t, tt.f, CelsiusToFahrenheit(tt.c), 1e-9)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, c := range []float64{-273.15, -40, 0, 18.5, 21, 23.89, 100} {
		assert.InDelta(t, c, FahrenheitToCelsius(CelsiusToFahrenheit(c)), 1e-9)
	}
	for _, f := range []float64{-40, 0, 32, 68, 72, 75, 212} {
		assert.InDelta(t, f, CelsiusToFahrenheit(FahrenheitToCelsius(f)), 1e-9)
	}
}
