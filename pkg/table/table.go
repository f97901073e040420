package table

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	"github.com/davidh38/doppelkopf-trainv2/pkg/doppelkopf"
	"github.com/davidh38/doppelkopf-trainv2/pkg/snapshot"
)

var (
	ErrTableClosed   = errors.New("table is closed")
	ErrNoActiveRound = errors.New("no active round")
	ErrRoundActive   = errors.New("round still active")
	ErrRoundBroken   = errors.New("round halted by invariant violation")
)

type request struct {
	fn    func() error
	reply chan error
}

// Table owns the rounds of one table. All mutations run on the table's own
// goroutine; Snapshot, Totals and Summary are safe from any goroutine.
type Table struct {
	ID  string
	cfg Config

	requests chan request
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	cur    atomic.Pointer[doppelkopf.Round]
	totals atomic.Pointer[map[string]int]
	seq    atomic.Int64

	summaries *expirable.LRU[string, *doppelkopf.GameSummary]
	workers   []*sinkWorker

	now func() int64

	// Owned by the table goroutine.
	roundID      string
	firstActor   string
	roundsPlayed int
	broken       bool
}

type Option func(*Table)

// WithID sets the table id instead of generating one.
func WithID(id string) Option {
	return func(t *Table) { t.ID = id }
}

// WithNow injects the clock passed to rounds, for reproducible tests and
// replays.
func WithNow(now func() int64) Option {
	return func(t *Table) { t.now = now }
}

// New starts a table. Every applied action publishes the resulting snapshot
// to the given sinks, each behind its own buffered writer so a slow sink
// cannot stall the game loop.
func New(cfg Config, sinks []snapshot.Sink, opts ...Option) (*Table, error) {
	cfg = cfg.withDefaults()
	if len(cfg.Players) != 4 {
		return nil, doppelkopf.ErrDeal
	}

	t := &Table{
		ID:        uuid.NewString(),
		cfg:       cfg,
		requests:  make(chan request, cfg.MailboxSize),
		stop:      make(chan struct{}),
		summaries: expirable.NewLRU[string, *doppelkopf.GameSummary](cfg.SummaryCacheSize, nil, cfg.SummaryCacheTTL),
	}
	for _, opt := range opts {
		opt(t)
	}
	totals := make(map[string]int, len(cfg.Players))
	for _, p := range cfg.Players {
		totals[p] = 0
	}
	t.totals.Store(&totals)

	for _, s := range sinks {
		t.workers = append(t.workers, newSinkWorker(t.ID, s, cfg.PublishBuffer))
	}

	t.wg.Add(1)
	go t.loop()

	log.Info().Str("table", t.ID).Strs("players", cfg.Players).Msg("table started")
	return t, nil
}

func (t *Table) loop() {
	defer t.wg.Done()
	for {
		select {
		case req := <-t.requests:
			req.reply <- req.fn()
		case <-t.stop:
			return
		}
	}
}

// do runs fn on the table goroutine and waits for its result.
func (t *Table) do(ctx context.Context, fn func() error) error {
	req := request{fn: fn, reply: make(chan error, 1)}
	select {
	case t.requests <- req:
	case <-t.stop:
		return ErrTableClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.reply:
		return err
	case <-t.stop:
		return ErrTableClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the table and drains the snapshot writers.
func (t *Table) Close() {
	t.stopOnce.Do(func() {
		close(t.stop)
		t.wg.Wait()
		for _, w := range t.workers {
			w.close()
		}
		log.Info().Str("table", t.ID).Msg("table closed")
	})
}

// StartRound deals the next round. The first round draws its opening player
// from the seed; later rounds rotate from the prior round's first actor.
func (t *Table) StartRound(ctx context.Context) error {
	return t.do(ctx, func() error {
		if cur := t.cur.Load(); cur != nil && cur.Phase != doppelkopf.PhaseScoring && !t.broken {
			return ErrRoundActive
		}

		seed := t.cfg.Seed + uint64(t.roundsPlayed)
		first := t.firstActor
		if first == "" {
			first = doppelkopf.ChooseFirstActor(t.cfg.Players, t.cfg.Seed)
		}

		r, err := doppelkopf.NewRound(doppelkopf.RoundConfig{
			Players:    t.cfg.Players,
			Deck:       t.cfg.Deck,
			Seed:       seed,
			FirstActor: first,
			Now:        t.now,
		})
		if err != nil {
			return err
		}

		t.roundID = uuid.NewString()
		t.broken = false
		t.cur.Store(r)
		t.publish(r)
		log.Info().
			Str("table", t.ID).
			Str("round", t.roundID).
			Uint64("seed", seed).
			Str("first", first).
			Msg("round started")
		return nil
	})
}

// DeclareVariant applies a variant declaration.
func (t *Table) DeclareVariant(ctx context.Context, player string, variant doppelkopf.Mode) error {
	return t.apply(ctx, "declare_variant", player, func(r *doppelkopf.Round) (*doppelkopf.Round, error) {
		return r.DeclareVariant(player, variant)
	})
}

// ExchangePoverty applies a poverty response.
func (t *Table) ExchangePoverty(ctx context.Context, player string, accept bool) error {
	return t.apply(ctx, "exchange_poverty", player, func(r *doppelkopf.Round) (*doppelkopf.Round, error) {
		return r.ExchangePoverty(player, accept)
	})
}

// PlayCard applies a card play.
func (t *Table) PlayCard(ctx context.Context, player string, card doppelkopf.Card) error {
	return t.apply(ctx, "play_card", player, func(r *doppelkopf.Round) (*doppelkopf.Round, error) {
		return r.PlayCard(player, card)
	})
}

// MakeAnnouncement applies an announcement.
func (t *Table) MakeAnnouncement(ctx context.Context, player string, typ doppelkopf.AnnouncementType) error {
	return t.apply(ctx, "make_announcement", player, func(r *doppelkopf.Round) (*doppelkopf.Round, error) {
		return r.MakeAnnouncement(player, typ)
	})
}

// apply runs one engine transition on the table goroutine. On success the new
// state is stored and published; the deck-conservation invariant is audited
// after every transition and a violation halts the round.
func (t *Table) apply(ctx context.Context, action, player string, fn func(*doppelkopf.Round) (*doppelkopf.Round, error)) error {
	return t.do(ctx, func() error {
		if t.broken {
			return ErrRoundBroken
		}
		r := t.cur.Load()
		if r == nil {
			return ErrNoActiveRound
		}

		next, err := fn(r)
		if err != nil {
			if doppelkopf.IsInvariantViolation(err) {
				t.broken = true
				log.Error().Str("table", t.ID).Str("round", t.roundID).Err(err).Msg("round halted")
			} else {
				log.Debug().Str("table", t.ID).Str("action", action).Str("player", player).Err(err).Msg("action rejected")
			}
			return err
		}
		if err := next.CheckConservation(); err != nil {
			t.broken = true
			log.Error().Str("table", t.ID).Str("round", t.roundID).Err(err).Msg("round halted")
			return err
		}

		t.cur.Store(next)
		t.publish(next)
		log.Debug().Str("table", t.ID).Str("action", action).Str("player", player).Msg("action applied")

		if next.Phase == doppelkopf.PhaseScoring {
			t.finishRound(next)
		}
		return nil
	})
}

// finishRound folds a terminal round into the running totals and the summary
// cache, and fixes the next round's first actor.
func (t *Table) finishRound(r *doppelkopf.Round) {
	sum, err := doppelkopf.Summarize(r)
	if err != nil {
		log.Error().Str("table", t.ID).Str("round", t.roundID).Err(err).Msg("summarize failed")
		return
	}
	t.summaries.Add(t.roundID, sum)

	totals := doppelkopf.AccumulateScores(*t.totals.Load(), r.Score)
	t.totals.Store(&totals)

	t.firstActor = doppelkopf.NextFirstActor(t.cfg.Players, r.FirstActor)
	t.roundsPlayed++

	log.Info().
		Str("table", t.ID).
		Str("round", t.roundID).
		Int("winner", int(sum.Winner)).
		Int("re_points", sum.RePoints).
		Int("kontra_points", sum.KontraPoints).
		Int("value", sum.GameValue).
		Msg("round finished")
}

// Snapshot returns the current round state. Rounds are immutable once
// stored, so the returned value is safe to read concurrently.
func (t *Table) Snapshot() *doppelkopf.Round {
	return t.cur.Load()
}

// Totals returns a copy of the accumulated per-player scores.
func (t *Table) Totals() map[string]int {
	cur := *t.totals.Load()
	out := make(map[string]int, len(cur))
	for p, v := range cur {
		out[p] = v
	}
	return out
}

// Summary returns a completed round's summary while it is still cached.
func (t *Table) Summary(roundID string) (*doppelkopf.GameSummary, bool) {
	return t.summaries.Get(roundID)
}

// publish encodes the snapshot once and queues it to every sink writer.
func (t *Table) publish(r *doppelkopf.Round) {
	if len(t.workers) == 0 {
		return
	}
	env := &snapshot.Envelope{
		TableID: t.ID,
		RoundID: t.roundID,
		Seq:     t.seq.Add(1),
		TakenAt: time.Now().UnixMilli(),
		Round:   r,
	}
	data, err := snapshot.Encode(env)
	if err != nil {
		log.Error().Str("table", t.ID).Err(err).Msg("snapshot encode failed")
		return
	}
	for _, w := range t.workers {
		w.enqueue(data)
	}
}

// sinkWorker serializes writes to one sink behind a bounded queue, so sink
// latency never reaches the game loop. Overflow drops the snapshot with a
// warning.
type sinkWorker struct {
	tableID string
	sink    snapshot.Sink
	ch      chan []byte
	wg      sync.WaitGroup
}

func newSinkWorker(tableID string, sink snapshot.Sink, buffer int) *sinkWorker {
	w := &sinkWorker{
		tableID: tableID,
		sink:    sink,
		ch:      make(chan []byte, buffer),
	}
	w.wg.Add(1)
	go w.run()
	return w
}

func (w *sinkWorker) run() {
	defer w.wg.Done()
	for data := range w.ch {
		if err := w.sink.Write(context.Background(), w.tableID, data); err != nil {
			log.Warn().Str("table", w.tableID).Err(err).Msg("snapshot write failed")
		}
	}
}

func (w *sinkWorker) enqueue(data []byte) {
	select {
	case w.ch <- data:
	default:
		log.Warn().Str("table", w.tableID).Msg("snapshot queue full, dropping")
	}
}

func (w *sinkWorker) close() {
	close(w.ch)
	w.wg.Wait()
}
