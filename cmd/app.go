// Package cmd implements the spc command line application.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/stockcard"
	"github.com/etnz/stockcard/kv"
	"github.com/etnz/stockcard/logger"
	"github.com/etnz/stockcard/quote"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&fetchCmd{}, "quotes")
	c.Register(&recordCmd{}, "quotes")
	c.Register(&watchCmd{}, "quotes")

	c.Register(&showCmd{}, "reports")
	c.Register(&daysCmd{}, "reports")

	c.Register(&serveCmd{}, "server")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.
// An empty flag falls back to its environment variable, then to its default.

var (
	configPath = flag.String("config", "", "Path to the card definition file ($SPC_CONFIG, default card.yaml)")
	storeKind  = flag.String("store", "", "History store: memory, file, sqlite, redis or s3 ($SPC_STORE, default file)")
	storePath  = flag.String("store-path", "", "Directory (file) or database file (sqlite) of the history store ($SPC_STORE_PATH, default .stockcard or stockcard.db)")
	codecName  = flag.String("codec", "", "History blob encoding: json or msgpack ($SPC_CODEC, default json)")
	logLevel   = flag.String("log-level", "", "Log level: debug, info, warn, error ($SPC_LOG_LEVEL, default warn)")
	cacheTTL   = flag.Duration("cache", 0, "Cache quote responses on disk for this long ($SPC_CACHE_TTL)")
)

// Settings is the process configuration, from flags, environment and .env.
type Settings struct {
	Config    string
	Store     kv.Options
	Codec     string
	LogLevel  string
	LogPretty bool
	HTTPAddr  string
	Schedule  string
	CacheTTL  time.Duration
	QuoteRate float64 // quote requests started per second, 0 for no limit
	EODHDKey  string  // enables the eodhd.com fallback
}

// LoadSettings reads the .env file if any, then resolves every setting.
func LoadSettings() Settings {
	_ = godotenv.Load()

	kind := orEnv(*storeKind, "SPC_STORE", "file")
	path := ".stockcard"
	if kind == "sqlite" {
		path = "stockcard.db"
	}
	return Settings{
		Config: orEnv(*configPath, "SPC_CONFIG", "card.yaml"),
		Store: kv.Options{
			Kind:      kind,
			Path:      orEnv(*storePath, "SPC_STORE_PATH", path),
			RedisAddr: getEnv("SPC_REDIS_ADDR", "localhost:6379"),
			Bucket:    getEnv("SPC_S3_BUCKET", ""),
			Prefix:    getEnv("SPC_S3_PREFIX", ""),
		},
		Codec:     orEnv(*codecName, "SPC_CODEC", "json"),
		LogLevel:  orEnv(*logLevel, "SPC_LOG_LEVEL", "warn"),
		LogPretty: getEnvAsBool("SPC_LOG_PRETTY", true),
		HTTPAddr:  getEnv("SPC_HTTP_ADDR", ":8080"),
		Schedule:  getEnv("SPC_SCHEDULE", "*/15 * * * *"),
		CacheTTL:  orEnvDuration(*cacheTTL, "SPC_CACHE_TTL", 0),
		QuoteRate: getEnvAsFloat("SPC_QUOTE_RATE", quote.DefaultRate),
		EODHDKey:  getEnv("EODHD_API_KEY", ""),
	}
}

// Logger returns the application logger.
func (s Settings) Logger() zerolog.Logger {
	return logger.New(logger.Config{Level: s.LogLevel, Pretty: s.LogPretty})
}

// Card loads the card definition.
func (s Settings) Card() (*stockcard.Config, error) {
	return stockcard.LoadConfig(s.Config)
}

// SnapshotStore opens the history store. The returned func releases it.
func (s Settings) SnapshotStore(ctx context.Context, log zerolog.Logger) (*stockcard.SnapshotStore, func(), error) {
	codec, err := stockcard.CodecByName(s.Codec)
	if err != nil {
		return nil, nil, err
	}
	store, err := kv.Open(ctx, s.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open %s store: %w", s.Store.Kind, err)
	}
	closer := func() {}
	if c, ok := store.(interface{ Close() error }); ok {
		closer = func() {
			if err := c.Close(); err != nil {
				log.Warn().Err(err).Msg("cannot close store")
			}
		}
	}
	return stockcard.NewSnapshotStore(store, log).WithCodec(codec), closer, nil
}

// Resolver returns the live quote resolver: NYSE, then Schwab, then EODHD
// when a key is configured. Requests are paced at QuoteRate per second.
func (s Settings) Resolver(log zerolog.Logger, opts ...quote.Option) *quote.Batch {
	client := quote.NewCachingClient(s.CacheTTL, "", log)
	sources := quote.Fallback{quote.NewNYSE(client), quote.NewSchwab(client)}
	if s.EODHDKey != "" {
		sources = append(sources, quote.NewEODHD(client, s.EODHDKey))
	}
	opts = append([]quote.Option{quote.WithRate(s.QuoteRate, max(1, int(s.QuoteRate)))}, opts...)
	return quote.NewBatch(sources, log, opts...)
}

// setup is the common preamble of commands working on a card and its
// history. It prints errors itself.
func setup(ctx context.Context) (Settings, zerolog.Logger, *stockcard.Config, *stockcard.SnapshotStore, func(), bool) {
	s := LoadSettings()
	log := s.Logger()
	card, err := s.Card()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading card definition: %v\n", err)
		return s, log, nil, nil, nil, false
	}
	store, closer, err := s.SnapshotStore(ctx, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history: %v\n", err)
		return s, log, nil, nil, nil, false
	}
	return s, log, card, store, closer, true
}
