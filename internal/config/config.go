package config

import (
	"flag"
	"net/url"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

type Config struct {
	// Порт на котором запустится сервер
	ServerAddress string `env:"SERVER_ADDRESS"`
	// Базовый адрес результирующего сокращенного URL
	BaseURL *url.URL `env:"BASE_URL"`
	// Путь до файла sqlite базы
	DatabasePath string `env:"DATABASE_PATH" envDefault:"linkboard.db"`
	// Адрес redis. Пустое значение — работаем без кеша
	RedisAddr string `env:"REDIS_ADDR"`
	// Путь до GeoIP2/GeoLite2 mmdb базы. Пустое значение — без гео-данных
	GeoIPDBPath string `env:"GEOIP_DB_PATH"`
	// Куда редиректить по несуществующему токену. Пустое значение — 404
	NotFoundRedirectURL *url.URL `env:"NOT_FOUND_REDIRECT_URL"`
	// Хост домена сервиса по умолчанию, область видимости токенов
	// для ссылок без собственного домена
	DefaultDomain string `env:"DEFAULT_DOMAIN" envDefault:"localhost"`
	// Ключ подписи JWT токенов
	JWTSecret string `env:"JWT_SECRET" envDefault:"dev-secret"`
	// Общий ключ внешней DNS проверки доменов
	DNSKey string `env:"DNS_KEY"`
}

func LoadConfig() (*Config, error) {
	var flagsConfig, envConfig Config

	if err := env.Parse(&envConfig); err != nil {
		return nil, errors.Wrapf(err, "parse ENV config error")
	}

	loadsFlags(&flagsConfig)

	return mergeConfig(&envConfig, &flagsConfig), nil
}

// MustLoadConfig вызывает панику если конфиг не собрался.
func MustLoadConfig() *Config {
	conf, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return conf
}

// loadsFlags парсит флаги командной строки.
func loadsFlags(flagsConfig *Config) {
	flag.StringVar(&flagsConfig.ServerAddress, "a", "localhost:8080", "Адрес сервера")
	flag.StringVar(&flagsConfig.DatabasePath, "d", "linkboard.db", "Путь до файла sqlite базы")

	bDesc := "Базовый адрес результирующего сокращенного URL (по умолчанию Scheme://Host запущенного сервера)"
	flag.Func("b", bDesc, func(rawURL string) error {
		parsedURL, err := url.ParseRequestURI(rawURL)
		if err != nil {
			return errors.Wrap(err, "failed to parse base url")
		}

		// создаем новый инстанс, отсекая тем самым Path и Query если они заданы в базовом урле.
		flagsConfig.BaseURL = &url.URL{
			Scheme: parsedURL.Scheme,
			Host:   parsedURL.Host,
		}
		return nil
	})

	flag.Parse()
}

// mergeConfig сливает структуры для env и флагов. Значения из окружения
// приоритетнее.
func mergeConfig(envConfig, flagsConfig *Config) *Config {
	merged := *envConfig
	merged.ServerAddress = defaultIfBlank(envConfig.ServerAddress, flagsConfig.ServerAddress)
	merged.DatabasePath = defaultIfBlank(envConfig.DatabasePath, flagsConfig.DatabasePath)
	if merged.BaseURL == nil {
		merged.BaseURL = flagsConfig.BaseURL
	}
	return &merged
}

func defaultIfBlank(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
