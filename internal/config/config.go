package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	UI      UIConfig      `mapstructure:"ui" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// Addr returns the host:port the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// StorageConfig selects the KV backend the task list is persisted to.
type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=memory sqlite postgres mysql"`
	// DSN is ignored by the memory driver.
	DSN string `mapstructure:"dsn" validate:"required_unless=Driver memory"`
	Key string `mapstructure:"key" validate:"required,max=255"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// ToastDuration is how long outcome messages stay visible.
	ToastDuration time.Duration `mapstructure:"toast_duration" validate:"gt=0"`
}
