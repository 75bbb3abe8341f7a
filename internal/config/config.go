package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses TTL durations
)

// minJWTKeyBytes is the minimum length of the HMAC signing key.  HS256
// requires a key of at least 256 bits (32 bytes); a shorter key is a
// configuration error and refuses startup.
const minJWTKeyBytes = 32

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, durations for TTLs.
type Config struct {
	Env         string        // application environment (e.g. "dev", "prod")
	Port        string        // HTTP port to listen on
	DBUser      string        // database username
	DBPass      string        // database password (optional)
	DBHost      string        // database host address
	DBPort      string        // database port number
	DBName      string        // database name
	JWTSecret   string        // secret used to sign JWTs, at least 32 bytes
	JWTIssuer   string        // issuer claim stamped into and expected from tokens
	JWTAudience string        // audience claim stamped into and expected from tokens
	TokenTTL    time.Duration // access token lifetime
	BcryptCost  int           // bcrypt cost for password hashing
	CacheTTL    time.Duration // public listing cache entry lifetime
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  The JWT secret is
// additionally validated for length here so that an undersized signing key
// is caught at startup rather than on the first login.
func Load() Config {
	cfg := Config{
		Env:         must("APP_ENV"),      // environment (dev/test/prod)
		Port:        must("APP_PORT"),     // port to bind the HTTP server
		DBUser:      must("DB_USER"),      // database user
		DBPass:      os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:      must("DB_HOST"),      // database host
		DBPort:      must("DB_PORT"),      // database port
		DBName:      must("DB_NAME"),      // database name
		JWTSecret:   must("JWT_SECRET"),   // secret used for signing JWTs
		JWTIssuer:   getenv("JWT_ISSUER", "movie-recommendation-api"),
		JWTAudience: getenv("JWT_AUDIENCE", "movie-recommendation-api"),
		TokenTTL:    duration("TOKEN_TTL", time.Hour),      // access token lifetime
		BcryptCost:  mustInt("BCRYPT_COST"),                // bcrypt cost factor
		CacheTTL:    duration("CACHE_TTL", 15*time.Minute), // public listing cache TTL
	}
	if len(cfg.JWTSecret) < minJWTKeyBytes {
		log.Fatalf("JWT_SECRET must be at least %d bytes (256 bits), got %d", minJWTKeyBytes, len(cfg.JWTSecret))
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// getenv returns the value of an optional environment variable or a default.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// duration parses an optional duration variable, falling back to a default
// when the variable is unset.
func duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid duration for %s: %q", key, v)
	}
	return d
}
