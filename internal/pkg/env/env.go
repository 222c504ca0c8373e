package env

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var Env map[string]string

func GetEnv(key, def string) string {
	// First check our loaded Env map
	if val, ok := Env[key]; ok {
		return val
	}
	// Fallback to OS environment variables (for Docker/tests)
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// GetSecret returns a configured secret or "" when the value is missing or
// still a placeholder. Placeholder values shipped in .env.example must be
// treated as "not configured", never used for signing.
func GetSecret(key string) string {
	val := strings.TrimSpace(GetEnv(key, ""))
	switch strings.ToLower(val) {
	case "", "changeme", "whsec_changeme", "sk_test_changeme":
		return ""
	}
	return val
}

func SetupEnvFile() {
	// Look for .env file in project root
	envFiles := []string{
		".env",       // Current directory
		"../../.env", // Fallback for deeper nesting
	}

	var err error
	for _, envFile := range envFiles {
		Env, err = godotenv.Read(envFile)
		if err == nil {
			// Successfully loaded env file
			return
		}
	}

	// No .env file found; OS environment variables still apply.
	log.Println("No .env file found, using OS environment only")
}

func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
