package config

import (
	"crypto/rsa"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port               string   `envconfig:"PORT" default:"5000"`
	Environment        string   `envconfig:"ENV" default:"development"`
	DatabaseURL        string   `envconfig:"DB_CONNECTION_STRING" required:"true"`
	RedisAddress       string   `envconfig:"REDIS_ADDRESS" default:"localhost:6379"`
	RedisPassword      string   `envconfig:"REDIS_PASSWORD"`
	PrivateKeyPath     string   `envconfig:"PRIVATE_KEY_PATH" default:"/etc/certs/private.pem"`
	PublicKeyPath      string   `envconfig:"PUBLIC_KEY_PATH" default:"/etc/certs/public.pem"`
	StripeSecretKey    string   `envconfig:"STRIPE_SECRET_KEY" required:"true"`
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	AppVersion         string   `envconfig:"APP_VERSION" default:"unknown"`
	TrustedProxies     []string `envconfig:"TRUSTED_PROXIES"`

	JWTPrivateKey *rsa.PrivateKey `ignored:"true"`
	JWTPublicKey  *rsa.PublicKey  `ignored:"true"`
}

// LoadDotEnv reads .env into the process environment when the file exists.
// It reports whether a file was loaded.
func LoadDotEnv() bool {
	return godotenv.Load(".env") == nil
}

// Load reads the API configuration from the environment and loads the
// token signing keys.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	privateKey, err := loadPrivateKey(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("load private key: %w", err)
	}
	publicKey, err := loadPublicKey(cfg.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("load public key: %w", err)
	}

	cfg.JWTPrivateKey = privateKey
	cfg.JWTPublicKey = publicKey
	return &cfg, nil
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(keyData)
	if err != nil {
		return nil, err
	}
	return privateKey, nil
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(keyData)
	if err != nil {
		return nil, err
	}
	return publicKey, nil
}
