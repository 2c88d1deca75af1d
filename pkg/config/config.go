package config

import (
	"time"

	"github.com/shopspring/decimal"
)

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[ledger]"`
}

type Server struct {
	Scheme          string        `envconfig:"SCHEME" default:"http"`
	Host            string        `envconfig:"HOST" default:"localhost"`
	Port            int           `envconfig:"PORT" default:"3000"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// DB selects the optional persistence backend. An empty driver keeps the
// ledger in memory only.
type DB struct {
	Driver string `envconfig:"DRIVER" default:""`
	Url    string `envconfig:"URL"`
}

type Audit struct {
	File string `envconfig:"FILE" default:"transactions.log"`
}

type Interest struct {
	HighYieldBonus decimal.Decimal `envconfig:"HIGH_YIELD_BONUS" default:"0.01"`
}

type Kafka struct {
	Enabled      bool          `envconfig:"ENABLED" default:"false"`
	Brokers      []string      `envconfig:"BROKERS" default:"localhost:9092"`
	Topic        string        `envconfig:"TOPIC" default:"ledger.account-events"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"5s"`
}

type Redis struct {
	Enabled bool   `envconfig:"ENABLED" default:"false"`
	URL     string `envconfig:"URL" default:"redis://localhost:6379/0"`
	Stream  string `envconfig:"STREAM" default:"ledger:account-events"`
	MaxLen  int64  `envconfig:"MAX_LEN" default:"10000"`
}

// Breaker tunes the circuit breaker in front of external publishers.
type Breaker struct {
	MaxFailures uint32        `envconfig:"MAX_FAILURES" default:"5"`
	OpenTimeout time.Duration `envconfig:"OPEN_TIMEOUT" default:"30s"`
}

type Metrics struct {
	Enabled bool   `envconfig:"ENABLED" default:"true"`
	Path    string `envconfig:"ENDPOINT" default:"/metrics"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type App struct {
	Env       string     `envconfig:"APP_ENV" default:"development"`
	Server    *Server    `envconfig:"SERVER"`
	Log       *Log       `envconfig:"LOG"`
	DB        *DB        `envconfig:"DATABASE"`
	Audit     *Audit     `envconfig:"AUDIT"`
	Interest  *Interest  `envconfig:"INTEREST"`
	Kafka     *Kafka     `envconfig:"KAFKA"`
	Redis     *Redis     `envconfig:"REDIS"`
	Breaker   *Breaker   `envconfig:"BREAKER"`
	Metrics   *Metrics   `envconfig:"METRICS"`
	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
}
