package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret       string
		Algorithm       string
		TokenTTLMinutes int
		BcryptCost      int
	}
	CORS struct {
		AllowOrigins []string
	}
	Storage struct {
		Bucket        string
		KeyPrefix     string
		Region        string
		Endpoint      string
		URLTTLMinutes int
	}
	AWS struct {
		Profile string
	}
	Log struct {
		Level string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv(".env")

	v := viper.New()
	v.SetEnvPrefix("TASKTRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("database.path", "data/tasks.db")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.algorithm", "HS256")
	v.SetDefault("auth.tokenttlminutes", 30)
	v.SetDefault("auth.bcryptcost", 10)
	v.SetDefault("cors.alloworigins", []string{"http://localhost:5173"})
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "exports")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.urlttlminutes", 15)
	v.SetDefault("aws.profile", "")
	v.SetDefault("log.level", "info")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("auth jwt secret is required"))
	}
	if _, ok := jwt.GetSigningMethod(c.Auth.Algorithm).(*jwt.SigningMethodHMAC); !ok {
		errs = append(errs, fmt.Errorf("auth algorithm %q is not an HMAC algorithm", c.Auth.Algorithm))
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		errs = append(errs, fmt.Errorf("auth token ttl must be positive, got %d", c.Auth.TokenTTLMinutes))
	}
	if c.Storage.Bucket != "" && c.Storage.URLTTLMinutes <= 0 {
		errs = append(errs, fmt.Errorf("storage url ttl must be positive, got %d", c.Storage.URLTTLMinutes))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}
	return errors.Join(errs...)
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}

func (c Config) ExportURLTTL() time.Duration {
	return time.Duration(c.Storage.URLTTLMinutes) * time.Minute
}

// loadDotEnv copies KEY=value lines into the environment without overriding
// variables that are already set.
func loadDotEnv(path string) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
		if !found || key == "" {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
