package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Events     EventsConfig     `toml:"events"`
	CRMService CRMServiceConfig `toml:"crm_service"`
	Billing    BillingConfig    `toml:"billing"`
	Schedule   ScheduleConfig   `toml:"schedule"`
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
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// EventsConfig настройки публикации событий в Kafka.
// События потребляет внешний слой уведомлений.
type EventsConfig struct {
	Enabled bool     `toml:"enabled"`
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

// CRMServiceConfig настройки клиента CRM-сервиса (клиенты и питомцы)
type CRMServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// BillingConfig настройки биллинга
type BillingConfig struct {
	// Ставка GST в процентах от облагаемой суммы (10 = 10%)
	GSTRatePercent int64 `toml:"gst_rate_percent"`
	// Процент депозита от итоговой суммы счета (0 = депозит не требуется)
	DepositPercent int64 `toml:"deposit_percent"`
	// Разрешить переплату: излишек остается на счете как кредит
	AllowOverpayment bool `toml:"allow_overpayment"`
}

// ScheduleConfig операционные часы площадок.
// Бронирования за пределами этих часов отклоняются.
type ScheduleConfig struct {
	OpenHour  int `toml:"open_hour"`
	CloseHour int `toml:"close_hour"`
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("config: server.http_port must be positive")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Billing.GSTRatePercent < 0 || c.Billing.GSTRatePercent > 100 {
		return fmt.Errorf("config: billing.gst_rate_percent must be in [0, 100]")
	}
	if c.Billing.DepositPercent < 0 || c.Billing.DepositPercent > 100 {
		return fmt.Errorf("config: billing.deposit_percent must be in [0, 100]")
	}
	if c.Schedule.OpenHour < 0 || c.Schedule.CloseHour > 24 || c.Schedule.OpenHour >= c.Schedule.CloseHour {
		return fmt.Errorf("config: schedule hours must satisfy 0 <= open_hour < close_hour <= 24")
	}
	if c.Events.Enabled && len(c.Events.Brokers) == 0 {
		return fmt.Errorf("config: events.brokers required when events are enabled")
	}
	return nil
}
