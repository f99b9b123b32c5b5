package main

import (
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gavel/api"
)

func ParseArgs() Args {
	// server config
	pflag.String("server-url", "0.0.0.0:8080", "")
	pflag.Int64("http-max-form-bytes", 64<<10, "maximum size of a form body, 0 for no limit")

	// log config
	pflag.String("log-format", "text", "text or json")
	pflag.String("log-level", "info", "debug, info, warn or error")

	// db config
	pflag.String("db-driver", api.DBDriverSQLite, "postgres or sqlite")
	pflag.String("db-sqlite-path", "auctions.db", "")
	pflag.String("db-user", "", "")
	pflag.String("db-password", "", "")
	pflag.String("db-host", "", "")
	pflag.Int("db-port", 5432, "")
	pflag.String("db-database", "", "")
	pflag.String("db-schema", "", "")
	pflag.Bool("db-debug", false, "log every SQL statement")

	// redis config
	pflag.String("redis-addr", "", "")
	pflag.String("redis-password", "", "")
	pflag.Int("redis-db", 15, "")
	pflag.String("redis-key-prefix", "gavel:", "")

	// session config
	pflag.String("session-backend", api.SessionBackendMemory, "memory or redis")
	pflag.String("session-cookie-name", "session", "")
	pflag.Duration("session-cookie-max-age", 24*time.Hour, "")
	pflag.String("session-cookie-path", "/", "")
	pflag.String("session-cookie-domain", "", "empty for a host-only cookie")
	pflag.Bool("session-cookie-secure", false, "set when served over https")
	pflag.Bool("session-cookie-http-only", true, "")
	pflag.String("session-cookie-same-site", "lax", "")

	// auction event stream
	pflag.String("events-stream", "", "redis stream for auction change events, empty to disable")
	pflag.Int64("events-max-len", 10000, "")
	pflag.Int("events-buffer-size", 100, "")

	// auth config
	pflag.Int("auth-bcrypt-cost", 0, "0 uses bcrypt.DefaultCost")

	// bind pflag to viper
	pflag.Parse()
	viper.BindPFlags(pflag.CommandLine)
	viper.AutomaticEnv()
	viper.SetEnvPrefix("GAVEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// initial arguments
	return Args{
		ServerURL: viper.GetString("server-url"),
		ServerConfig: api.ServerConfig{
			HTTP: api.HTTPConfig{
				MaxFormBytes: viper.GetInt64("http-max-form-bytes"),
			},
			DB: api.DBConfig{
				Driver:     viper.GetString("db-driver"),
				SQLitePath: viper.GetString("db-sqlite-path"),
				User:       viper.GetString("db-user"),
				Password:   viper.GetString("db-password"),
				Host:       viper.GetString("db-host"),
				Port:       viper.GetInt("db-port"),
				Database:   viper.GetString("db-database"),
				Schema:     viper.GetString("db-schema"),
				Debug:      viper.GetBool("db-debug"),
			},
			Redis: api.RedisConfig{
				Addr:      viper.GetString("redis-addr"),
				Password:  viper.GetString("redis-password"),
				DB:        viper.GetInt("redis-db"),
				KeyPrefix: viper.GetString("redis-key-prefix"),
			},
			Session: api.SessionConfig{
				Backend:        viper.GetString("session-backend"),
				KeyForCookie:   viper.GetString("session-cookie-name"),
				CookieMaxAge:   viper.GetDuration("session-cookie-max-age"),
				CookiePath:     viper.GetString("session-cookie-path"),
				CookieDomain:   viper.GetString("session-cookie-domain"),
				CookieSecure:   viper.GetBool("session-cookie-secure"),
				CookieHTTPOnly: viper.GetBool("session-cookie-http-only"),
				SameSite:       viper.GetString("session-cookie-same-site"),
			},
			Events: api.EventsConfig{
				Stream:     viper.GetString("events-stream"),
				MaxLen:     viper.GetInt64("events-max-len"),
				BufferSize: viper.GetInt("events-buffer-size"),
			},
			Auth: api.AuthConfig{
				BcryptCost: viper.GetInt("auth-bcrypt-cost"),
			},
			Log: api.LogConfig{
				Format: viper.GetString("log-format"),
				Level:  viper.GetString("log-level"),
			},
		},
	}
}

type Args struct {
	ServerURL    string
	ServerConfig api.ServerConfig
}

func (args Args) Validate() bool {
	cfg := args.ServerConfig
	if args.ServerURL == "" {
		return false
	}
	switch cfg.DB.Driver {
	case api.DBDriverSQLite:
		if cfg.DB.SQLitePath == "" {
			return false
		}
	case api.DBDriverPostgres:
		if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Database == "" {
			return false
		}
	default:
		return false
	}
	if !lo.Contains([]string{api.SessionBackendMemory, api.SessionBackendRedis}, cfg.Session.Backend) {
		return false
	}
	// redis 只在需要時才是必填
	needsRedis := cfg.Session.Backend == api.SessionBackendRedis || cfg.Events.Stream != ""
	return !needsRedis || cfg.Redis.Addr != ""
}
