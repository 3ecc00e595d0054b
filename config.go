package main

import (
	"github.com/urfave/cli/v2"
)

// Config holds the runtime settings. Every value can come from a flag or
// the matching environment variable (optionally loaded from .env).
type Config struct {
	Addr       string
	Database   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SecretKey  string
	LogLevel   string
	Templates  string
	Static     string
	// SecureCookies marks the session and CSRF cookies Secure and turns on
	// the strict Referer check for form posts.
	SecureCookies bool
}

func defaultConfig() Config {
	return Config{
		Addr:      ":5000",
		Database:  "cwirek.db",
		DBPort:    "5432",
		DBSSLMode: "require",
		SecretKey: "development key",
		LogLevel:  "info",
		Templates: "templates",
		Static:    "static",
	}
}

func dbFlags() []cli.Flag {
	d := defaultConfig()
	return []cli.Flag{
		&cli.StringFlag{Name: "database", Value: d.Database, EnvVars: []string{"DATABASE"}, Usage: "SQLite database path"},
		&cli.StringFlag{Name: "db-host", EnvVars: []string{"DB_HOST"}, Usage: "PostgreSQL host, enables PostgreSQL"},
		&cli.StringFlag{Name: "db-port", Value: d.DBPort, EnvVars: []string{"DB_PORT"}},
		&cli.StringFlag{Name: "db-user", EnvVars: []string{"DB_USER"}},
		&cli.StringFlag{Name: "db-password", EnvVars: []string{"DB_PASSWORD"}},
		&cli.StringFlag{Name: "db-name", EnvVars: []string{"DB_NAME"}},
		&cli.StringFlag{Name: "db-sslmode", Value: d.DBSSLMode, EnvVars: []string{"DB_SSLMODE"}},
		&cli.StringFlag{Name: "log-level", Value: d.LogLevel, EnvVars: []string{"LOG_LEVEL"}},
	}
}

func serveFlags() []cli.Flag {
	d := defaultConfig()
	return append(dbFlags(),
		&cli.StringFlag{Name: "addr", Value: d.Addr, EnvVars: []string{"ADDR"}, Usage: "listen address"},
		&cli.StringFlag{Name: "secret-key", Value: d.SecretKey, EnvVars: []string{"SECRET_KEY"}, Usage: "session signing key"},
		&cli.StringFlag{Name: "templates", Value: d.Templates, EnvVars: []string{"TEMPLATES"}},
		&cli.StringFlag{Name: "static", Value: d.Static, EnvVars: []string{"STATIC"}},
		&cli.BoolFlag{Name: "secure-cookies", EnvVars: []string{"SECURE_COOKIES"}, Usage: "serve cookies over HTTPS only"},
	)
}

// configFromContext reads the flags a command was given. Flags the command
// does not declare keep their defaults.
func configFromContext(c *cli.Context) Config {
	cfg := defaultConfig()
	set := func(dst *string, name string) {
		if v := c.String(name); v != "" {
			*dst = v
		}
	}
	set(&cfg.Addr, "addr")
	set(&cfg.Database, "database")
	set(&cfg.DBHost, "db-host")
	set(&cfg.DBPort, "db-port")
	set(&cfg.DBUser, "db-user")
	set(&cfg.DBPassword, "db-password")
	set(&cfg.DBName, "db-name")
	set(&cfg.DBSSLMode, "db-sslmode")
	set(&cfg.SecretKey, "secret-key")
	set(&cfg.LogLevel, "log-level")
	set(&cfg.Templates, "templates")
	set(&cfg.Static, "static")
	cfg.SecureCookies = c.Bool("secure-cookies")
	return cfg
}
