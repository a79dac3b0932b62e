// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env          string `yaml:"env" env:"ENV" env-default:"local"`
	LogLevel     string `yaml:"log_level" env:"LOG_LEVEL" env-default:"debug"`
	AdminEmail   string `yaml:"admin_email" env:"ADMIN_EMAIL" env-default:"admin@gmail.com"`
	HTTPServer   `yaml:"http_server"`
	Storage      `yaml:"storage"`
	Scheduler    `yaml:"scheduler"`
	Notification `yaml:"notification"`
	WhatsApp     `yaml:"whatsapp"`
	SMTP         `yaml:"smtp"`
	RabbitMQ     `yaml:"rabbitmq"`
	JWTToken     `yaml:"jwttoken"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// Storage описывает выбранный бэкенд хранилища записей.
// Driver: json, postgres или redis.
type Storage struct {
	Driver                  string          `yaml:"driver" env:"STORAGE_DRIVER" env-default:"json"`
	UsersFile               string          `yaml:"users_file" env-default:"usuarios.json"`
	SubscriptionsFile       string          `yaml:"subscriptions_file" env-default:"compras.json"`
	StorageConnectionString string          `yaml:"storage_connection_string" env:"STORAGE_DSN"`
	MigrationsPath          string          `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         RedisConnection `yaml:"redis_connection"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
	KeyPrefix    string        `yaml:"key_prefix" env-default:"agora"`
}

// Scheduler структура для настройки ежедневной проверки подписок
type Scheduler struct {
	Hour             int    `yaml:"hour" env:"SCHEDULER_HOUR" env-default:"9"`
	Minute           int    `yaml:"minute" env:"SCHEDULER_MINUTE" env-default:"0"`
	Timezone         string `yaml:"timezone" env:"SCHEDULER_TZ" env-default:"America/Bogota"`
	NoticeWindowDays int    `yaml:"notice_window_days" env-default:"3"`
	CatchUpMissed    bool   `yaml:"catch_up_missed" env-default:"false"`
	RunOnStart       bool   `yaml:"run_on_start" env-default:"false"`
}

// Notification структура для настройки отправки уведомлений.
// Channel: whatsapp или email. Transport: direct или queue.
type Notification struct {
	Channel     string        `yaml:"channel" env:"NOTIFY_CHANNEL" env-default:"whatsapp"`
	Transport   string        `yaml:"transport" env:"NOTIFY_TRANSPORT" env-default:"direct"`
	SendTimeout time.Duration `yaml:"send_timeout" env-default:"15s"`
}

// WhatsApp структура для настройки WhatsApp API. Пустой APIURL означает
// режим ссылок wa.me, которые только записываются в лог.
type WhatsApp struct {
	APIURL   string `yaml:"api_url" env:"WHATSAPP_API_URL"`
	APIToken string `yaml:"api_token" env:"WHATSAPP_API_TOKEN"`
}

// SMTP структура для настройки почтового сервера
type SMTP struct {
	SMTPHost    string `yaml:"host" env:"SMTP_HOST"`
	SMTPPort    string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	SMTPUser    string `yaml:"user" env:"SMTP_USER"`
	SMTPPass    string `yaml:"pass" env:"SMTP_PASS"`
	SMTPSubject string `yaml:"subject" env-default:"FULL ENTRETENIMIENTO"`
}

// RabbitMQ структура для настройки очереди уведомлений
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"12h"`
}

// Location возвращает часовой пояс планировщика.
func (s Scheduler) Location() (*time.Location, error) {
	const op = "config.Location"
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return loc, nil
}

// MustLoad функция для загрузки конфига, путь берётся из CONFIG_PATH.
// Перед чтением подхватывается .env, если он есть рядом с бинарником.
func MustLoad() *Config {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	if err := cfg.validate(); err != nil {
		log.Fatalf("invalid config: %s", err)
	}
	return &cfg
}

func (c *Config) validate() error {
	if c.Hour < 0 || c.Hour > 23 {
		return fmt.Errorf("scheduler.hour must be in 0..23, got %d", c.Hour)
	}
	if c.Minute < 0 || c.Minute > 59 {
		return fmt.Errorf("scheduler.minute must be in 0..59, got %d", c.Minute)
	}
	if c.NoticeWindowDays < 0 {
		return fmt.Errorf("scheduler.notice_window_days must not be negative")
	}
	if _, err := c.Scheduler.Location(); err != nil {
		return err
	}
	switch c.Driver {
	case "json", "postgres", "redis":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Driver)
	}
	switch c.Channel {
	case "whatsapp", "email":
	default:
		return fmt.Errorf("unknown notification channel %q", c.Channel)
	}
	switch c.Transport {
	case "direct", "queue":
	default:
		return fmt.Errorf("unknown notification transport %q", c.Transport)
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Storage:\n"+
			"  Driver: %s\n"+
			"  UsersFile: %s\n"+
			"  SubscriptionsFile: %s\n"+
			"Scheduler:\n"+
			"  Trigger: %02d:%02d %s\n"+
			"  NoticeWindowDays: %d\n"+
			"  CatchUpMissed: %t\n"+
			"Notification:\n"+
			"  Channel: %s\n"+
			"  Transport: %s\n"+
			"  SendTimeout: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n",
		c.Env,
		c.Driver,
		c.UsersFile,
		c.SubscriptionsFile,
		c.Hour, c.Minute, c.Timezone,
		c.NoticeWindowDays,
		c.CatchUpMissed,
		c.Channel,
		c.Transport,
		c.SendTimeout,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
	)
}
