package config

// ServerConfig holds the HTTP listener and CORS settings.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

func LoadServerConfig() ServerConfig {
	return ServerConfig{
		Port:           getEnv("SERVICE_PORT", "8082"),
		AllowedOrigins: []string{getEnv("ALLOWED_ORIGIN", "http://localhost:3000")},
	}
}

// AdminConfig holds the single admin account's credentials and the secret
// used to sign bearer tokens.
type AdminConfig struct {
	Username     string
	PasswordHash string
	JWTSecret    string
}

func LoadAdminConfig() AdminConfig {
	return AdminConfig{
		Username:     getEnv("ADMIN_USER", "admin"),
		PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		JWTSecret:    getEnv("JWT_SECRET", "dev-secret-change-me"),
	}
}
