package api

import (
	"time"

	"gavel/adapters/session"
)

type ServerConfig struct {
	HTTP    HTTPConfig
	DB      DBConfig
	Redis   RedisConfig
	Session SessionConfig
	Events  EventsConfig
	Auth    AuthConfig
	Log     LogConfig
}

// HTTPConfig 請求相關設定，MaxFormBytes 為 0 時不限制表單大小
type HTTPConfig struct {
	MaxFormBytes int64
}

// DBConfig 資料庫設定
// Driver 為 postgres 時使用連線參數，為 sqlite 時使用 SQLitePath
type DBConfig struct {
	Driver     string
	User       string
	Password   string
	Host       string
	Port       int
	Database   string
	Schema     string
	SQLitePath string
	Debug      bool
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// SessionConfig session 設定
// Backend 可為 memory 或 redis
type SessionConfig struct {
	Backend        string
	KeyForCookie   string
	CookieMaxAge   time.Duration
	CookiePath     string
	CookieDomain   string
	CookieSecure   bool
	CookieHTTPOnly bool
	SameSite       string
}

// MaxAge 是 cookie 與伺服器端 session 共用的存活時間
func (config SessionConfig) MaxAge() time.Duration {
	if config.CookieMaxAge <= 0 {
		return session.DefaultCookieMaxAge
	}
	return config.CookieMaxAge
}

// EventsConfig 拍賣異動通知設定，Stream 為空時不發送
type EventsConfig struct {
	Stream     string
	MaxLen     int64
	BufferSize int
}

type AuthConfig struct {
	BcryptCost int
}

type LogConfig struct {
	Format string
	Level  string
}

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)
