package table

import (
	"errors"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/holdem/internal/deck"
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/history"
	"github.com/lox/holdem/internal/randutil"
)

const (
	// DefaultPlayerTimeout is how long a seated player may go without a
	// heartbeat before their config is swept back to the lobby.
	DefaultPlayerTimeout = 5 * time.Minute

	// nonHumanHandsLimit is how many consecutive hands a table will play
	// with no human seated before shutting down.
	nonHumanHandsLimit = 3
)

var (
	ErrGameIsFull      = errors.New("game is full")
	ErrInvalidPassword = errors.New("invalid password")
	ErrMissingPassword = errors.New("table requires a password")
)

// Pacing controls the table's real-time rhythm. Production tables use
// DefaultPacing; tests shrink everything to keep the hand loop fast.
type Pacing struct {
	// Retry is the pause between polls of a player's action mailbox.
	Retry time.Duration
	// Attempts is how many empty polls a human player gets before they
	// are folded and sat out.
	Attempts int
	// InterHand is the pause between hands.
	InterHand time.Duration
	// InterStreet is the pause after each street completes.
	InterStreet time.Duration
	// PerSettlement is the pause per settlement line at showdown, so
	// clients can show the result before the next hand starts.
	PerSettlement time.Duration
}

// DefaultPacing returns the production rhythm.
func DefaultPacing() Pacing {
	return Pacing{
		Retry:         time.Second,
		Attempts:      45,
		InterHand:     time.Second,
		InterStreet:   2 * time.Second,
		PerSettlement: 3 * time.Second,
	}
}

// Table runs one poker table. All fields are owned by the single
// goroutine driving Play; the only concurrent surface is Inboxes.
type Table struct {
	name   string
	logger *log.Logger
	clock  quartz.Clock
	rng    *rand.Rand
	pacing Pacing
	lobby  Lobby

	deck    deck.Deck
	seats   [game.NumSeats]*game.Player
	configs map[uuid.UUID]*game.PlayerConfig

	maxPlayers int
	smallBlind int
	bigBlind   int
	buyIn      int
	password   *string
	adminID    uuid.UUID

	playerTimeout time.Duration
	buttonIdx     int
	handNum       int

	// persistent tables are part of the server's configuration: they
	// idle while empty instead of shutting down.
	persistent bool

	recorder *history.Recorder

	inboxes *Inboxes

	// restart is set by the admin restart command and consumed by the
	// hand loop, which re-buys every seated player.
	restart bool
	// leavers holds ids whose configs were removed but whose seats have
	// not been swept yet. Seats are swept at loop tops, never mid-hand.
	leavers []uuid.UUID
}

// Option configures a Table.
type Option func(*Table)

// WithDeck replaces the shuffled deck, used to rig cards in tests.
func WithDeck(d deck.Deck) Option {
	return func(t *Table) { t.deck = d }
}

// WithClock injects the clock used for pacing and heartbeats.
func WithClock(c quartz.Clock) Option {
	return func(t *Table) { t.clock = c }
}

// WithLogger sets the table's logger.
func WithLogger(l *log.Logger) Option {
	return func(t *Table) { t.logger = l }
}

// WithPassword makes the table private.
func WithPassword(password string) Option {
	return func(t *Table) { t.password = &password }
}

// WithBlinds sets the small and big blind.
func WithBlinds(small, big int) Option {
	return func(t *Table) {
		t.smallBlind = small
		t.bigBlind = big
	}
}

// WithBuyIn sets the stack each player starts with.
func WithBuyIn(buyIn int) Option {
	return func(t *Table) { t.buyIn = buyIn }
}

// WithMaxPlayers caps the number of seats in use.
func WithMaxPlayers(n int) Option {
	return func(t *Table) {
		if n > game.NumSeats {
			n = game.NumSeats
		}
		t.maxPlayers = n
	}
}

// WithPacing overrides the table's real-time rhythm.
func WithPacing(p Pacing) Option {
	return func(t *Table) { t.pacing = p }
}

// WithLobby connects the table to the directory that owns it.
func WithLobby(l Lobby) Option {
	return func(t *Table) { t.lobby = l }
}

// WithAdmin marks the table's creator, who may run admin commands.
func WithAdmin(id uuid.UUID) Option {
	return func(t *Table) { t.adminID = id }
}

// WithRNG injects the random source used for shuffling and bot play.
func WithRNG(rng *rand.Rand) Option {
	return func(t *Table) { t.rng = rng }
}

// WithRecorder persists every completed hand through the recorder.
func WithRecorder(r *history.Recorder) Option {
	return func(t *Table) { t.recorder = r }
}

// WithPersistent keeps the table alive with no players seated.
func WithPersistent() Option {
	return func(t *Table) { t.persistent = true }
}

// WithPlayerTimeout sets the heartbeat eviction window.
func WithPlayerTimeout(d time.Duration) Option {
	return func(t *Table) { t.playerTimeout = d }
}

// New builds a table with the given name. Defaults: 9 seats, 4/8
// blinds, 1000 buy-in, public, real clock, production pacing.
func New(name string, opts ...Option) *Table {
	t := &Table{
		name:          name,
		logger:        log.New(os.Stderr),
		clock:         quartz.NewReal(),
		pacing:        DefaultPacing(),
		configs:       make(map[uuid.UUID]*game.PlayerConfig),
		maxPlayers:    game.NumSeats,
		smallBlind:    4,
		bigBlind:      8,
		buyIn:         1000,
		playerTimeout: DefaultPlayerTimeout,
		buttonIdx:     -1,
		inboxes:       NewInboxes(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.rng == nil {
		t.rng = randutil.NewWallClock()
	}
	if t.deck == nil {
		t.deck = deck.NewStandardWithRNG(t.rng)
	}
	t.logger = t.logger.WithPrefix(name)
	return t
}

// Name returns the table's name.
func (t *Table) Name() string { return t.name }

// Inboxes returns the table's concurrent mail surface.
func (t *Table) Inboxes() *Inboxes { return t.inboxes }

// Private reports whether joining requires a password.
func (t *Table) Private() bool { return t.password != nil }

// sleep blocks for d on the table's clock.
func (t *Table) sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	timer := t.clock.NewTimer(d)
	<-timer.C
}

// AddHuman seats a connected player. Called by the lobby before the
// hand loop starts, or via a join meta-action once it is running.
func (t *Table) AddHuman(config *game.PlayerConfig, password *string) error {
	if t.password != nil {
		if password == nil {
			return ErrMissingPassword
		}
		if *password != *t.password {
			return ErrInvalidPassword
		}
	}
	return t.addPlayer(game.NewPlayer(config.ID, true, t.buyIn), config)
}

// AddBot seats a bot player.
func (t *Table) AddBot() error {
	bot := game.NewBot(t.buyIn)
	return t.addPlayer(bot, game.NewPlayerConfig(bot.ID, "bot", nil))
}

func (t *Table) addPlayer(player *game.Player, config *game.PlayerConfig) error {
	// re-join: the id is already seated, so re-attach the config and
	// keep the existing seat and stack
	for i, p := range t.seats {
		if p != nil && p.ID == player.ID {
			config.HeartBeat = t.clock.Now()
			t.configs[p.ID] = config
			t.unmarkLeaver(p.ID)
			t.logger.Info("player re-joined", "seat", i, "name", config.Name, "id", p.ID)
			return nil
		}
	}
	if t.seatedCount() >= t.maxPlayers {
		return ErrGameIsFull
	}
	for i := range t.seats {
		if t.seats[i] == nil {
			t.seats[i] = player
			config.HeartBeat = t.clock.Now()
			t.configs[player.ID] = config
			t.logger.Info("player seated", "seat", i, "name", config.Name, "id", player.ID)
			return nil
		}
	}
	return ErrGameIsFull
}

func (t *Table) seatedCount() int {
	n := 0
	for _, p := range t.seats {
		if p != nil {
			n++
		}
	}
	return n
}

// humanCount counts seated players whose configs are still present.
func (t *Table) humanCount() int {
	n := 0
	for _, p := range t.seats {
		if p != nil && p.HumanControlled {
			if _, ok := t.configs[p.ID]; ok {
				n++
			}
		}
	}
	return n
}

// playableCount counts seats that would be dealt into the next hand.
// Sitting-out seats count: they are dealt in and still owe blinds.
func (t *Table) playableCount() int {
	n := 0
	for _, p := range t.seats {
		if p != nil && p.Money > 0 {
			n++
		}
	}
	return n
}

// removeSeat clears a seat and hands the config back to the lobby, if
// one is still attached.
func (t *Table) removeSeat(id uuid.UUID, reason ReturnedReason) {
	for i, p := range t.seats {
		if p != nil && p.ID == id {
			t.seats[i] = nil
			break
		}
	}
	if config, ok := t.configs[id]; ok {
		delete(t.configs, id)
		if t.lobby != nil && config.Recipient != nil {
			t.lobby.Returned(config, reason, nil)
		}
	}
}

// unmarkLeaver cancels a pending seat sweep for id.
func (t *Table) unmarkLeaver(id uuid.UUID) {
	for i, leaver := range t.leavers {
		if leaver == id {
			t.leavers = append(t.leavers[:i], t.leavers[i+1:]...)
			return
		}
	}
}

// sweepLeavers removes seats whose configs already left. Runs only at
// loop tops so a mid-hand leave cannot corrupt the hand.
func (t *Table) sweepLeavers() {
	for _, id := range t.leavers {
		for i, p := range t.seats {
			if p != nil && p.ID == id {
				t.seats[i] = nil
				break
			}
		}
	}
	t.leavers = nil
}

// findNextButton advances the dealer button past empty, sitting-out and
// broke seats. Returns false when no seat qualifies.
func (t *Table) findNextButton() bool {
	for i := 1; i <= game.NumSeats; i++ {
		idx := (t.buttonIdx + i) % game.NumSeats
		p := t.seats[idx]
		if p != nil && p.Money > 0 && !p.IsSittingOut {
			t.buttonIdx = idx
			return true
		}
	}
	return false
}

// startingIdx is where action starts on every street.
func (t *Table) startingIdx() int {
	return (t.buttonIdx + 1) % game.NumSeats
}

// Play runs the table until it empties out. handLimit stops the loop
// after that many hands; zero means unlimited, which is the production
// mode.
func (t *Table) Play(handLimit int) {
	defer func() {
		t.logger.Info("table closing", "hands", t.handNum)
		for id := range t.configs {
			t.removeSeat(id, ReturnedLeft)
		}
		if t.lobby != nil {
			t.lobby.GameOver(t.name)
		}
	}()

	botOnlyHands := 0
	suspended := false
	for {
		t.sweepLeavers()
		t.handleMetaActions()
		t.handlePlayerHeartBeats()
		t.sweepLeavers()

		if t.restart {
			t.restart = false
			for _, p := range t.seats {
				if p != nil {
					p.Money = t.buyIn
					p.IsSittingOut = false
				}
			}
			t.logger.Info("table restarted", "buy_in", t.buyIn)
		}

		if handLimit > 0 && t.handNum >= handLimit {
			return
		}

		if !t.persistent && len(t.configs) < 1 {
			// Nobody is even watching. Shut the table down.
			return
		}

		if t.persistent && t.humanCount() == 0 {
			// idle until someone shows up
			if !suspended {
				suspended = true
				t.logger.Debug("table idle, waiting for players")
			}
			t.sleep(t.pacing.Retry)
			continue
		}

		if t.playableCount() < 2 {
			if t.humanCount() == 0 {
				// nobody left who could revive the game
				return
			}
			// Suspended until enough players can be dealt in.
			if !suspended {
				suspended = true
				t.logger.Info("table suspended", "playable", t.playableCount())
				t.sendGameState(nil, true)
			}
			t.sleep(t.pacing.Retry)
			continue
		}
		suspended = false

		if t.humanCount() == 0 {
			botOnlyHands++
			if botOnlyHands > nonHumanHandsLimit {
				t.logger.Info("no humans seated, shutting down")
				return
			}
		} else {
			botOnlyHands = 0
		}

		t.playOneHand()
		t.sleep(t.pacing.InterHand)
	}
}
