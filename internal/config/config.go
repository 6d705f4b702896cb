package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Module provides the application configuration.
var Module = fx.Provide(Load)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	ListenAddr  string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	KeysFile        string
	KeyRotation     time.Duration
	TokenTTL        time.Duration
	TokenLeeway     time.Duration
	TokenAudience   string
	PolicyFile      string
	WatchPolicyFile bool
	RootAdminEmail  string
	RootAdminPass   string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "infintree"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		ListenAddr:  getenv("LISTEN_ADDR", ":8080"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "infintree"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 10),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 50),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 600),

		KeysFile:        getenv("KEYS_FILE", "keys.json"),
		KeyRotation:     time.Duration(getenvInt("JWT_ROTATION_DAYS", 30)) * 24 * time.Hour,
		TokenTTL:        time.Duration(getenvInt("JWT_EXP_MIN", 60)) * time.Minute,
		TokenLeeway:     time.Duration(getenvInt("JWT_LEEWAY", 60)) * time.Second,
		TokenAudience:   getenv("JWT_AUDIENCE", "infintree"),
		PolicyFile:      getenv("IAM_POLICY_FILE", "policies/iam_policies.yaml"),
		WatchPolicyFile: getenvBool("IAM_POLICY_WATCH", false),
		RootAdminEmail:  getenv("ROOT_ADMIN_EMAIL", "root@infintree.io"),
		RootAdminPass:   getenv("ROOT_ADMIN_PASSWORD", "ChangeMeNow!"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
