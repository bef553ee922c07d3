package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Env struct {
	AppAddr string
	GinMode string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	// DBDSN overrides the individual DB_* settings when set.
	DBDSN string

	JWTSecret string
	JWTTTL    time.Duration

	LogEnv   string
	LogLevel string

	CORSAllowedOrigins []string
	CacheTTL           time.Duration
}

func defaults(v *viper.Viper) {
	v.SetDefault("app_addr", ":8080")
	v.SetDefault("db_host", "127.0.0.1")
	v.SetDefault("db_port", 3306)
	v.SetDefault("db_user", "root")
	v.SetDefault("db_name", "beercatalog")
	v.SetDefault("jwt_ttl", time.Hour)
	v.SetDefault("log_env", "dev")
	v.SetDefault("log_level", "info")
	v.SetDefault("cors_allowed_origins", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("cache_ttl", 5*time.Minute)
}

// LoadEnv reads an optional .env file and then the process environment.
// Real environment variables win over .env entries.
func LoadEnv(envFiles ...string) Env {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}

	v := viper.New()
	defaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) Env {
	return Env{
		AppAddr:            strings.TrimSpace(v.GetString("app_addr")),
		GinMode:            strings.TrimSpace(v.GetString("gin_mode")),
		DBHost:             v.GetString("db_host"),
		DBPort:             v.GetInt("db_port"),
		DBUser:             v.GetString("db_user"),
		DBPassword:         v.GetString("db_password"),
		DBName:             v.GetString("db_name"),
		DBDSN:              strings.TrimSpace(v.GetString("db_dsn")),
		JWTSecret:          v.GetString("jwt_secret"),
		JWTTTL:             v.GetDuration("jwt_ttl"),
		LogEnv:             v.GetString("log_env"),
		LogLevel:           v.GetString("log_level"),
		CORSAllowedOrigins: splitOrigins(v.GetString("cors_allowed_origins")),
		CacheTTL:           v.GetDuration("cache_ttl"),
	}
}

// DSN returns the MySQL data source name.
func (e Env) DSN() string {
	if e.DBDSN != "" {
		return e.DBDSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=Local&charset=utf8mb4&multiStatements=true&timeout=5s&readTimeout=30s&writeTimeout=30s",
		e.DBUser,
		e.DBPassword,
		e.DBHost,
		e.DBPort,
		e.DBName,
	)
}

func splitOrigins(raw string) []string {
	out := []string{}
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
