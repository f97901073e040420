// Package table serializes all round mutations for one table behind a single
// writer, the concurrency discipline the engine itself relies on. Each table
// owns one goroutine; inbound actions go through its mailbox one at a time,
// snapshot reads stay lock-free.
package table

import (
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/davidh38/doppelkopf-trainv2/pkg/doppelkopf"
)

// Config holds everything a table needs to run rounds.
type Config struct {
	Players []string
	Deck    doppelkopf.DeckVariant
	// Seed fixes the first round's shuffle; round n uses Seed+n so replays
	// of any round stay reproducible from the table config alone.
	Seed uint64

	SummaryCacheSize int
	SummaryCacheTTL  time.Duration
	// PublishBuffer bounds the per-sink snapshot queue; writes beyond it are
	// dropped with a warning rather than stalling the game loop.
	PublishBuffer int
	MailboxSize   int
}

const (
	defaultSummaryCacheSize = 64
	defaultSummaryCacheTTL  = time.Hour
	defaultPublishBuffer    = 256
	defaultMailboxSize      = 16
)

// withDefaults fills zero values.
func (c Config) withDefaults() Config {
	if c.SummaryCacheSize <= 0 {
		c.SummaryCacheSize = defaultSummaryCacheSize
	}
	if c.SummaryCacheTTL <= 0 {
		c.SummaryCacheTTL = defaultSummaryCacheTTL
	}
	if c.PublishBuffer <= 0 {
		c.PublishBuffer = defaultPublishBuffer
	}
	if c.MailboxSize <= 0 {
		c.MailboxSize = defaultMailboxSize
	}
	return c
}

// deckVariant maps a config string to a deck variant, defaulting to the
// standard 40-card deck.
func deckVariant(name string) doppelkopf.DeckVariant {
	if name == "compact" {
		return doppelkopf.DeckCompact
	}
	return doppelkopf.DeckStandard
}

// ConfigFromViper reads the table.* keys. Unset keys fall back to defaults.
func ConfigFromViper() Config {
	cfg := Config{
		Players:          cast.ToStringSlice(viper.Get("table.players")),
		Deck:             deckVariant(cast.ToString(viper.Get("table.deck"))),
		Seed:             cast.ToUint64(viper.Get("table.seed")),
		SummaryCacheSize: cast.ToInt(viper.Get("table.summary_cache_size")),
		SummaryCacheTTL:  cast.ToDuration(viper.Get("table.summary_cache_ttl")),
		PublishBuffer:    cast.ToInt(viper.Get("table.publish_buffer")),
		MailboxSize:      cast.ToInt(viper.Get("table.mailbox_size")),
	}
	return cfg.withDefaults()
}
