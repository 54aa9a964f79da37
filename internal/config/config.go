// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — общая структура для хранения настроек сервиса.
// Секреты (учётные данные мерчанта, DSN, ключ JWT) могут приходить
// из переменных окружения и перекрывать значения из YAML.
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	AMQPAddress             string `yaml:"amqp_address" env:"AMQP_ADDRESS"` // Пусто — события не публикуются
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	PayFast                 `yaml:"payfast"`
	LLMProvider             `yaml:"llm_provider"`
}

// HTTPServer — настройки HTTP-сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection — настройки подключения к Redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken — настройки проверки токенов сессии.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// PayFast — учётные данные мерчанта и параметры премиум-тарифа.
// Merchant id/key обязательны для работы биллинга; passphrase опциональна.
type PayFast struct {
	MerchantID  string `yaml:"merchant_id" env:"PAYFAST_MERCHANT_ID"`
	MerchantKey string `yaml:"merchant_key" env:"PAYFAST_MERCHANT_KEY"`
	Passphrase  string `yaml:"passphrase" env:"PAYFAST_PASSPHRASE"`
	Sandbox     bool   `yaml:"sandbox" env:"PAYFAST_SANDBOX" env-default:"true"`
	SiteURL     string `yaml:"site_url" env:"SITE_URL" env-default:"http://localhost:8080"`

	Amount          string `yaml:"amount" env-default:"10.00"`
	ItemName        string `yaml:"item_name" env-default:"MineAI Premium Subscription"`
	ItemDescription string `yaml:"item_description" env-default:"Premium monthly subscription"`
}

// LLMProvider — настройки доступа к провайдеру чат-комплишенов и картинок.
type LLMProvider struct {
	APIURL     string        `yaml:"api_url" env-default:"https://api.openai.com/v1"`
	APIKey     string        `yaml:"api_key" env:"OPENAI_API_KEY"`
	ChatModel  string        `yaml:"chat_model" env-default:"gpt-5-nano-2025-08-07"`
	ImageModel string        `yaml:"image_model" env-default:"gpt-image-1"`
	Timeout    time.Duration `yaml:"timeout" env-default:"60s"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс
// при любой ошибке загрузки.
func MustLoad() *Config {
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
	return &cfg
}
