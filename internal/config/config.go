package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server          ServerConfig          `toml:"server"`
	Database        DatabaseConfig        `toml:"database"`
	Logs            LogsConfig            `toml:"logs"`
	Metrics         MetricsConfig         `toml:"metrics"`
	ProviderService ProviderServiceConfig `toml:"provider_service"`
	MailSender      MailSenderConfig      `toml:"mail_sender"`
	Redis           RedisConfig           `toml:"redis"`
	Notifications   NotificationsConfig   `toml:"notifications"`
	Discovery       DiscoveryConfig       `toml:"discovery"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения к PostgreSQL
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки метрик Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// ProviderServiceConfig настройки клиента справочника провайдеров
type ProviderServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// MailSenderConfig настройки внешнего сервиса отправки email
type MailSenderConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// RedisConfig настройки кэша профилей провайдеров
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// NotificationsConfig настройки пайплайна уведомлений
type NotificationsConfig struct {
	DrainBatchSize     int `toml:"drain_batch_size"`
	TaskTimeoutSeconds int `toml:"task_timeout_seconds"`
	OrphanGraceMinutes int `toml:"orphan_grace_minutes"`
}

// DiscoveryConfig настройки поисковой выдачи слотов
type DiscoveryConfig struct {
	PageSize int `toml:"page_size"`
}

// Load загружает конфигурацию из TOML файла и применяет дефолты
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "smc-slot-service"
	}
	if c.ProviderService.Timeout == 0 {
		c.ProviderService.Timeout = 5
	}
	if c.MailSender.Timeout == 0 {
		c.MailSender.Timeout = 10
	}
	if c.Redis.TTLSeconds == 0 {
		c.Redis.TTLSeconds = 300
	}
	if c.Notifications.DrainBatchSize == 0 {
		c.Notifications.DrainBatchSize = 10
	}
	if c.Notifications.TaskTimeoutSeconds == 0 {
		c.Notifications.TaskTimeoutSeconds = 10
	}
	if c.Notifications.OrphanGraceMinutes == 0 {
		c.Notifications.OrphanGraceMinutes = 15
	}
	if c.Discovery.PageSize == 0 {
		c.Discovery.PageSize = 20
	}
}
