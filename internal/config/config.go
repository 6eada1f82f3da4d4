package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string      `yaml:"env" env:"ENV" env-default:"local"`
	AdminToken  string      `yaml:"admin_token" env:"ADMIN_TOKEN" env-required:"true"`
	HTTPServer  HTTPServer  `yaml:"http_server"`
	DB          DB          `yaml:"db"`
	Cache       Cache       `yaml:"cache"`
	FileStorage FileStorage `yaml:"file_storage"`
	SMTP        SMTP        `yaml:"smtp"`
	Invites     Invites     `yaml:"invites"`
	Cleanup     Cleanup     `yaml:"cleanup"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type DB struct {
	Addr     string `yaml:"addr" env:"DB_ADDR" env-default:"localhost"`
	Port     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-required:"true"`
	Password string `yaml:"password" env:"DB_PASSWORD" env-required:"true"`
	DB       string `yaml:"db" env:"DB_NAME" env-required:"true"`
}

type Cache struct {
	Addr         string        `yaml:"addr" env:"CACHE_ADDR" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"CACHE_PASSWORD" env-default:""`
	DB           int           `yaml:"db" env:"CACHE_DB" env-default:"0"`
	SessionTTL   time.Duration `yaml:"session_ttl" env-default:"24h"`
	DocumentsTTL time.Duration `yaml:"documents_ttl" env-default:"10m"`
}

type FileStorage struct {
	Path string `yaml:"path" env:"FILE_STORAGE_PATH" env-required:"true"`
}

type SMTP struct {
	Host        string   `yaml:"host" env:"SMTP_HOST" env-default:"localhost"`
	Port        int      `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	User        string   `yaml:"user" env:"SMTP_USER" env-default:""`
	Password    string   `yaml:"password" env:"SMTP_PASSWORD" env-default:""`
	From        string   `yaml:"from" env:"SMTP_FROM" env-default:"noreply@example.com"`
	AdminEmails []string `yaml:"admin_emails" env:"SMTP_ADMIN_EMAILS" env-separator:","`
}

type Invites struct {
	TTL     time.Duration `yaml:"ttl" env-default:"168h"`
	BaseURL string        `yaml:"base_url" env:"INVITES_BASE_URL" env-default:"http://localhost:8080"`
}

type Cleanup struct {
	Interval time.Duration `yaml:"interval" env-default:"0"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return &cfg
}
