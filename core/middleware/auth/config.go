package auth

// Config holds configuration for token issuance and verification.
type Config struct {
	// Secret is the HMAC key used to sign and verify tokens.
	Secret string `mapstructure:"secret" default:""`
	// TokenTTLHours is the access token lifetime in hours.
	TokenTTLHours int `mapstructure:"token_ttl_hours" default:"24"`
}
