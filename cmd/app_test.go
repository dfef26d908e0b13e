package cmd

import (
	"bytes"
	"context"
	"flag"
	"testing"
	"time"

	"github.com/etnz/stockcard"
	"github.com/etnz/stockcard/date"
	"github.com/etnz/stockcard/quote"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteQuotes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeQuotes(&buf, stockcard.PriceMap{
		"AAPL": stockcard.NewQuote(201.5, -1.2),
		"VTI":  stockcard.NewQuote(300, 0),
	}))
	assert.JSONEq(t, `{"data":{"AAPL":{"price":201.5,"change":-1.2},"VTI":{"price":300,"change":0}}}`, buf.String())

	buf.Reset()
	require.NoError(t, writeQuotes(&buf, nil))
	assert.JSONEq(t, `{"data":{}}`, buf.String())
}

func TestFetch_NoTickers(t *testing.T) {
	f := flag.NewFlagSet("fetch", flag.ContinueOnError)
	c := &fetchCmd{}
	c.SetFlags(f)
	require.NoError(t, f.Parse(nil))
	assert.Equal(t, subcommands.ExitUsageError, c.Execute(context.Background(), f))
}

func TestLoadSettings(t *testing.T) {
	t.Setenv("SPC_CONFIG", "/etc/spc/card.yaml")
	t.Setenv("SPC_STORE", "sqlite")
	t.Setenv("SPC_CODEC", "msgpack")
	t.Setenv("SPC_LOG_PRETTY", "false")
	t.Setenv("SPC_CACHE_TTL", "5m")
	t.Setenv("SPC_QUOTE_RATE", "2.5")

	s := LoadSettings()
	assert.Equal(t, "/etc/spc/card.yaml", s.Config)
	assert.Equal(t, "sqlite", s.Store.Kind)
	assert.Equal(t, "stockcard.db", s.Store.Path)
	assert.Equal(t, "msgpack", s.Codec)
	assert.False(t, s.LogPretty)
	assert.Equal(t, 5*time.Minute, s.CacheTTL)
	assert.Equal(t, ":8080", s.HTTPAddr)
	assert.Equal(t, 2.5, s.QuoteRate)

	t.Setenv("SPC_QUOTE_RATE", "")
	assert.Equal(t, float64(quote.DefaultRate), LoadSettings().QuoteRate)
}

func TestOrEnv(t *testing.T) {
	t.Setenv("SPC_TEST_VALUE", "from-env")
	assert.Equal(t, "from-flag", orEnv("from-flag", "SPC_TEST_VALUE", "default"))
	assert.Equal(t, "from-env", orEnv("", "SPC_TEST_VALUE", "default"))
	assert.Equal(t, "default", orEnv("", "SPC_TEST_UNSET", "default"))
}

func TestSettings_SnapshotStore(t *testing.T) {
	s := Settings{Codec: "msgpack"}
	s.Store.Kind = "sqlite"
	s.Store.Path = ":memory:"

	store, closer, err := s.SnapshotStore(context.Background(), zerolog.Nop())
	require.NoError(t, err)
	defer closer()

	today := date.New(2025, 7, 10)
	_, err = store.Record(context.Background(), today, stockcard.PriceMap{"X": stockcard.NewQuote(1.0, 0.0)}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, store.Load(context.Background()).Len())

	s.Codec = "xml"
	_, _, err = s.SnapshotStore(context.Background(), zerolog.Nop())
	assert.Error(t, err)

	s.Codec, s.Store.Kind = "json", "floppy"
	_, _, err = s.SnapshotStore(context.Background(), zerolog.Nop())
	assert.Error(t, err)
}
