package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"3001"`
}

// Payment methods accepted on invoices.
const (
	PaymentCash = "CASH"
	PaymentCard = "CARD"
	PaymentUPI  = "UPI"
)

// IsValidPaymentMethod checks if a payment method is one the backend accepts.
// An empty value is allowed; it defaults to cash downstream.
func IsValidPaymentMethod(method string) bool {
	switch method {
	case "", PaymentCash, PaymentCard, PaymentUPI:
		return true
	default:
		return false
	}
}
