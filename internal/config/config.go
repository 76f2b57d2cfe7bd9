package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer

	// Backend selects which store backend the gateway talks to:
	// "rest" for the remote commerce API, "mock" for the embedded one.
	Backend string `env:"BACKEND" envDefault:"rest"`

	Store StoreAPI `envPrefix:"STORE_"`
	Mock  Mock     `envPrefix:"MOCK_"`
}

type StoreAPI struct {
	BaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:8000/api"`
	// TokenFile overrides where session tokens are persisted.
	// Empty means a file under the user config dir.
	TokenFile string `env:"TOKEN_FILE"`
}

type Mock struct {
	DatabasePath string `env:"DATABASE_PATH" envDefault:"eshop-mock.db"`
	// SigningKey signs the mock backend's JWT session tokens.
	SigningKey string `env:"SIGNING_KEY" envDefault:"eshop-mock-signing-key"`
	// Latency is added to every mock call to imitate the network.
	Latency time.Duration `env:"LATENCY" envDefault:"0"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
