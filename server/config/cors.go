package config

// CORS defines the server CORS configuration
type CORS struct {
	// A list of origins a cross-domain request can be executed from
	AllowedOrigins []string `toml:"allowed_origins"`

	// A list of methods the client is allowed to use
	AllowedMethods []string `toml:"allowed_methods"`

	// A list of non-simple headers the client is allowed to use
	AllowedHeaders []string `toml:"allowed_headers"`
}

// DefaultCORSConfig returns the default CORS configuration
func DefaultCORSConfig() *CORS {
	return &CORS{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}
}
