// Package temperature converts between Fahrenheit and Celsius. The Trane Home
// API reports and accepts Fahrenheit; everything user-facing is Celsius.
package temperature

// FahrenheitToCelsius converts a temperature in °F to °C.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// CelsiusToFahrenheit converts a temperature in °C to °F.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}
