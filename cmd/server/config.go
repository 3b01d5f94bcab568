package main

import "time"

type Config struct {
	Host      string `env:"HOST,default=0.0.0.0"`
	Port      int    `env:"PORT,default=3000"`
	LogLevel  string `env:"LOG_LEVEL,default=INFO"`
	ClientID  string `env:"CLIENT_ID"`
	StaticDir string `env:"STATIC_DIR"`

	PresenceMinInterval time.Duration `env:"PRESENCE_MIN_INTERVAL,default=3s"`
	PresenceMaxInterval time.Duration `env:"PRESENCE_MAX_INTERVAL,default=15s"`
	ChatMinInterval     time.Duration `env:"CHAT_MIN_INTERVAL,default=5s"`
	ChatMaxInterval     time.Duration `env:"CHAT_MAX_INTERVAL,default=20s"`

	SendBuffer        int           `env:"SEND_BUFFER,default=256"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	TelemetryInterval time.Duration `env:"TELEMETRY_INTERVAL,default=30s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s"`

	// AUTH_SECRET enables the built-in JWT validator; without it every
	// authenticate attempt is denied until a custom hook is registered.
	AuthSecret string `env:"AUTH_SECRET"`
	// PASSWORD_HASH enables the Argon2id password validator instead; it
	// wins over AUTH_SECRET when both are set.
	PasswordHash string `env:"PASSWORD_HASH"`
}
