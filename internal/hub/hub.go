package hub

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/protocol"
	"github.com/lox/holdem/internal/table"
)

// Hub is the lobby: it owns the set of running tables, tracks every
// connected player, and routes their commands to the right table's
// inboxes. Tables call back into the hub when players come back to the
// lobby or a table shuts down.
type Hub struct {
	logger *log.Logger
	clock  quartz.Clock

	tableOpts []table.Option

	mu      sync.Mutex
	tables  map[string]*table.Table
	players map[uuid.UUID]*playerState
}

// playerState is a connected player's lobby-side record. tableName is
// empty while they sit in the lobby.
type playerState struct {
	config    *game.PlayerConfig
	tableName string
}

// Option configures a Hub.
type Option func(*Hub)

// WithLogger sets the hub's logger.
func WithLogger(l *log.Logger) Option {
	return func(h *Hub) { h.logger = l }
}

// WithClock injects the clock handed to new tables.
func WithClock(c quartz.Clock) Option {
	return func(h *Hub) { h.clock = c }
}

// WithTableOptions appends extra options to every table the hub creates.
func WithTableOptions(opts ...table.Option) Option {
	return func(h *Hub) { h.tableOpts = append(h.tableOpts, opts...) }
}

// New creates an empty hub.
func New(opts ...Option) *Hub {
	h := &Hub{
		logger:  log.Default(),
		clock:   quartz.NewReal(),
		tables:  make(map[string]*table.Table),
		players: make(map[uuid.UUID]*playerState),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.WithPrefix("hub")
	return h
}

// Connect registers a fresh client and returns their assigned id. When
// prior names a known player, the new recipient is attached to their
// existing identity instead, surviving a reconnect.
func (h *Hub) Connect(recipient protocol.Recipient, prior *uuid.UUID) uuid.UUID {
	h.mu.Lock()
	defer h.mu.Unlock()

	if prior != nil {
		if state, ok := h.players[*prior]; ok {
			// a seated config belongs to the table driver; swap the
			// recipient through its inbox instead of writing directly
			if tbl, seated := h.tables[state.tableName]; seated {
				tbl.Inboxes().PostMeta(table.UpdateAddressMeta(*prior, recipient))
			} else {
				state.config.Recipient = recipient
			}
			h.logger.Info("player reconnected", "id", *prior)
			recipient.Send(protocol.Marshal(protocol.Connected{
				MsgType:  protocol.TypeConnected,
				PlayerID: prior.String(),
			}))
			return *prior
		}
	}

	id := uuid.New()
	config := game.NewPlayerConfig(id, fmt.Sprintf("player-%s", id.String()[:8]), recipient)
	h.players[id] = &playerState{config: config}
	h.logger.Info("player connected", "id", id, "name", config.Name)
	recipient.Send(protocol.Marshal(protocol.Connected{
		MsgType:  protocol.TypeConnected,
		PlayerID: id.String(),
	}))
	return id
}

// Disconnect drops a player. A seated player leaves their table first.
func (h *Hub) Disconnect(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, ok := h.players[id]
	if !ok {
		return
	}
	if tbl, seated := h.tables[state.tableName]; seated {
		tbl.Inboxes().PostMeta(table.LeaveMeta(id))
	}
	delete(h.players, id)
	h.logger.Info("player disconnected", "id", id)
}

// List sends the player the names of every running table.
func (h *Hub) List(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	names := make([]string, 0, len(h.tables))
	for name := range h.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	h.send(id, protocol.TablesList{MsgType: protocol.TypeTablesList, Tables: names})
}

// CreateParams carries a create command's table settings. Zero values
// fall back to the table defaults.
type CreateParams struct {
	Name       string
	SmallBlind int
	BigBlind   int
	BuyIn      int
	MaxPlayers int
	Password   *string
}

// Create starts a new table, seats its creator as admin, and runs it
// on its own goroutine.
func (h *Hub) Create(id uuid.UUID, params CreateParams) {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, ok := h.players[id]
	if !ok {
		return
	}
	if params.Name == "" {
		h.sendError(id, protocol.ErrUnableToCreate, "table name required")
		return
	}
	if _, exists := h.tables[params.Name]; exists {
		h.sendError(id, protocol.ErrUnableToCreate,
			fmt.Sprintf("table %q already exists", params.Name))
		return
	}
	if state.tableName != "" {
		h.sendError(id, protocol.ErrUnableToCreate, "leave your table first")
		return
	}

	opts := []table.Option{
		table.WithLogger(h.logger),
		table.WithClock(h.clock),
		table.WithLobby(h),
		table.WithAdmin(id),
	}
	opts = append(opts, h.tableOpts...)
	if params.SmallBlind > 0 && params.BigBlind > 0 {
		opts = append(opts, table.WithBlinds(params.SmallBlind, params.BigBlind))
	}
	if params.BuyIn > 0 {
		opts = append(opts, table.WithBuyIn(params.BuyIn))
	}
	if params.MaxPlayers > 0 {
		opts = append(opts, table.WithMaxPlayers(params.MaxPlayers))
	}
	if params.Password != nil {
		opts = append(opts, table.WithPassword(*params.Password))
	}

	tbl := table.New(params.Name, opts...)
	if err := tbl.AddHuman(state.config, params.Password); err != nil {
		h.sendError(id, protocol.ErrUnableToCreate, err.Error())
		return
	}
	h.tables[params.Name] = tbl
	state.tableName = params.Name
	h.logger.Info("table created", "table", params.Name, "admin", id)
	h.send(id, protocol.CreatedTable{MsgType: protocol.TypeCreatedTable, TableName: params.Name})

	go tbl.Play(0)
}

// CreateSystem starts a configured house table with no admin. It idles
// while empty instead of shutting down, and may come pre-seeded with
// bots.
func (h *Hub) CreateSystem(params CreateParams, bots int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if params.Name == "" {
		return fmt.Errorf("table name required")
	}
	if _, exists := h.tables[params.Name]; exists {
		return fmt.Errorf("table %q already exists", params.Name)
	}

	opts := []table.Option{
		table.WithLogger(h.logger),
		table.WithClock(h.clock),
		table.WithLobby(h),
		table.WithPersistent(),
	}
	if params.SmallBlind > 0 && params.BigBlind > 0 {
		opts = append(opts, table.WithBlinds(params.SmallBlind, params.BigBlind))
	}
	if params.BuyIn > 0 {
		opts = append(opts, table.WithBuyIn(params.BuyIn))
	}
	if params.MaxPlayers > 0 {
		opts = append(opts, table.WithMaxPlayers(params.MaxPlayers))
	}
	if params.Password != nil {
		opts = append(opts, table.WithPassword(*params.Password))
	}
	opts = append(opts, h.tableOpts...)

	tbl := table.New(params.Name, opts...)
	for i := 0; i < bots; i++ {
		if err := tbl.AddBot(); err != nil {
			return err
		}
	}
	h.tables[params.Name] = tbl
	h.logger.Info("house table created", "table", params.Name, "bots", bots)

	go tbl.Play(0)
	return nil
}

// Join parks the player's config at the named table. The table applies
// the join between polls and reports failure through Returned.
func (h *Hub) Join(id uuid.UUID, tableName string, password *string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, ok := h.players[id]
	if !ok {
		return
	}
	if state.tableName != "" {
		h.sendError(id, protocol.ErrUnableToJoin, "leave your table first")
		return
	}
	tbl, ok := h.tables[tableName]
	if !ok {
		h.sendError(id, protocol.ErrUnableToJoin,
			fmt.Sprintf("no table named %q", tableName))
		return
	}
	state.tableName = tableName
	tbl.Inboxes().PostMeta(table.JoinMeta(state.config, password))
}

// Leave posts a leave to the player's table.
func (h *Hub) Leave(id uuid.UUID) {
	if tbl, ok := h.tableFor(id); ok {
		tbl.Inboxes().PostMeta(table.LeaveMeta(id))
	}
}

// Chat relays a chat line to the player's table.
func (h *Hub) Chat(id uuid.UUID, text string) {
	if tbl, ok := h.tableFor(id); ok {
		tbl.Inboxes().PostMeta(table.ChatMeta(id, text))
	}
}

// PlayerAction delivers a betting decision to the player's table.
func (h *Hub) PlayerAction(id uuid.UUID, action game.Action) {
	if tbl, ok := h.tableFor(id); ok {
		tbl.Inboxes().PostAction(id, action)
	}
}

// SitOut folds the player out of the current hand and excludes them
// from future ones until they come back.
func (h *Hub) SitOut(id uuid.UUID) {
	if tbl, ok := h.tableFor(id); ok {
		tbl.Inboxes().PostAction(id, game.Action{Kind: game.SitOut})
		tbl.Inboxes().PostMeta(table.SitOutMeta(id))
	}
}

// ImBack deals the player back into future hands.
func (h *Hub) ImBack(id uuid.UUID) {
	if tbl, ok := h.tableFor(id); ok {
		tbl.Inboxes().PostMeta(table.ImBackMeta(id))
	}
}

// Admin forwards an admin command to the player's table.
func (h *Hub) Admin(id uuid.UUID, cmd protocol.AdminCommand) {
	if tbl, ok := h.tableFor(id); ok {
		tbl.Inboxes().PostMeta(table.AdminMeta(id, cmd))
	}
}

// SetName renames the player. A seated config is owned by the table
// driver, so the rename travels through its inbox.
func (h *Hub) SetName(id uuid.UUID, name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, ok := h.players[id]
	if !ok {
		return
	}
	if tbl, seated := h.tables[state.tableName]; seated {
		tbl.Inboxes().PostMeta(table.SetPlayerNameMeta(id, name))
		return
	}
	state.config.Name = name
}

// SendName echoes the player's current name back to them, asking their
// table when seated.
func (h *Hub) SendName(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, ok := h.players[id]
	if !ok {
		return
	}
	if tbl, seated := h.tables[state.tableName]; seated {
		tbl.Inboxes().PostMeta(table.SendPlayerNameMeta(id))
		return
	}
	h.send(id, protocol.PlayerName{
		MsgType:    protocol.TypePlayerName,
		PlayerName: state.config.Name,
	})
}

// TableInfo asks the named table for its summary, delivered straight to
// the requesting player.
func (h *Hub) TableInfo(id uuid.UUID, tableName string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, ok := h.players[id]
	if !ok {
		return
	}
	name := tableName
	if name == "" {
		name = state.tableName
	}
	tbl, ok := h.tables[name]
	if !ok {
		h.sendError(id, protocol.ErrUnableToJoin, fmt.Sprintf("no table named %q", name))
		return
	}
	tbl.Inboxes().PostMeta(table.TableInfoMeta(state.config.Recipient))
}

// Returned implements table.Lobby. The player is back in the lobby.
func (h *Hub) Returned(config *game.PlayerConfig, reason table.ReturnedReason, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, ok := h.players[config.ID]
	if !ok {
		return
	}
	state.tableName = ""
	h.logger.Info("player returned to lobby",
		"id", config.ID, "reason", reason.String())
	if reason == table.ReturnedFailureToJoin && err != nil {
		h.sendError(config.ID, protocol.ErrUnableToJoin, err.Error())
	}
}

// GameOver implements table.Lobby. The table's hand loop terminated.
func (h *Hub) GameOver(tableName string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.tables, tableName)
	h.logger.Info("table closed", "table", tableName)
}

func (h *Hub) tableFor(id uuid.UUID) (*table.Table, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, ok := h.players[id]
	if !ok {
		return nil, false
	}
	tbl, ok := h.tables[state.tableName]
	return tbl, ok
}

// send and sendError require h.mu to be held.
func (h *Hub) send(id uuid.UUID, event any) {
	if state, ok := h.players[id]; ok {
		state.config.Send(protocol.Marshal(event))
	}
}

func (h *Hub) sendError(id uuid.UUID, code, reason string) {
	h.send(id, protocol.NewError(code, reason))
}
