package server

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/google/uuid"

	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/hub"
	"github.com/lox/holdem/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 20 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = 10 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	// Outbound buffer per session
	sendBuffer = 256
)

// Session bridges one websocket client and the hub. Its buffered send
// channel is the protocol.Recipient the engine delivers events to; a
// full buffer closes the session rather than stalling a table.
type Session struct {
	conn     *websocket.Conn
	hub      *hub.Hub
	logger   *log.Logger
	playerID uuid.UUID

	send      chan []byte
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewSession wraps an upgraded connection. prior reattaches a known
// player identity after a reconnect.
func NewSession(conn *websocket.Conn, h *hub.Hub, logger *log.Logger, prior *uuid.UUID) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		conn:   conn,
		hub:    h,
		logger: logger.WithPrefix("session"),
		send:   make(chan []byte, sendBuffer),
		ctx:    ctx,
		cancel: cancel,
	}
	s.playerID = h.Connect(s, prior)
	s.logger = s.logger.With("player", s.playerID)
	return s
}

// Start begins the read and write pumps.
func (s *Session) Start() {
	go s.writePump()
	go s.readPump()
}

// Done closes when the session has terminated.
func (s *Session) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Close tears the session down and tells the hub the player is gone.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.cancel()
		s.hub.Disconnect(s.playerID)
		err = s.conn.Close()
	})
	return err
}

// Send implements protocol.Recipient. It never blocks; a client that
// cannot drain its buffer is disconnected.
func (s *Session) Send(payload []byte) bool {
	select {
	case s.send <- payload:
		return true
	case <-s.ctx.Done():
		return false
	default:
		s.logger.Warn("send buffer full, closing session")
		_ = s.Close()
		return false
	}
}

func (s *Session) readPump() {
	defer func() { _ = s.Close() }()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Error("websocket error", "error", err)
			}
			return
		}
		s.handleMessage(payload)
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.Close()
	}()

	for {
		select {
		case payload := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.ctx.Done():
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// handleMessage dispatches one inbound frame to the hub.
func (s *Session) handleMessage(payload []byte) {
	cmd, err := protocol.ParseClientCommand(payload)
	if err != nil {
		s.logger.Debug("unparseable frame", "error", err)
		s.Send(protocol.Marshal(protocol.NewError(protocol.ErrInvalidAction, "could not parse command")))
		return
	}

	switch cmd.MsgType {
	case protocol.CmdPlayerAction:
		s.handlePlayerAction(cmd)

	case protocol.CmdList:
		s.hub.List(s.playerID)

	case protocol.CmdJoin:
		s.hub.Join(s.playerID, cmd.TableName, cmd.Password)

	case protocol.CmdCreate:
		s.hub.Create(s.playerID, hub.CreateParams{
			Name:       cmd.TableName,
			SmallBlind: cmd.SmallBlind,
			BigBlind:   cmd.BigBlind,
			BuyIn:      cmd.BuyIn,
			MaxPlayers: cmd.MaxPlayers,
			Password:   cmd.Password,
		})

	case protocol.CmdAdminCommand:
		value, _ := cmd.AdminValue()
		admin, err := protocol.ParseAdminCommand(cmd.AdminCommand, value)
		if err != nil {
			s.Send(protocol.Marshal(protocol.NewError(protocol.ErrInvalidAdminCommand, err.Error())))
			return
		}
		s.hub.Admin(s.playerID, admin)

	case protocol.CmdLeave:
		s.hub.Leave(s.playerID)

	case protocol.CmdImBack:
		s.hub.ImBack(s.playerID)

	case protocol.CmdTableInfo:
		s.hub.TableInfo(s.playerID, cmd.TableName)

	case protocol.CmdSitOut:
		s.hub.SitOut(s.playerID)

	case protocol.CmdName:
		if cmd.PlayerName == "" {
			s.hub.SendName(s.playerID)
			return
		}
		s.hub.SetName(s.playerID, cmd.PlayerName)

	case protocol.CmdChat:
		s.handleChat(cmd.Text)

	case protocol.CmdHelp:
		s.Send(protocol.Marshal(protocol.HelpMessage{
			MsgType:  protocol.TypeHelpMessage,
			Commands: protocol.HelpCommands(),
		}))

	default:
		s.Send(protocol.Marshal(protocol.NewError(protocol.ErrInvalidAction,
			"unknown command "+cmd.MsgType)))
	}
}

func (s *Session) handlePlayerAction(cmd *protocol.ClientCommand) {
	action := game.Action{}
	switch cmd.Action {
	case "fold":
		action.Kind = game.Fold
	case "check":
		action.Kind = game.Check
	case "call":
		action.Kind = game.Call
	case "bet":
		amount, err := cmd.Amount.Int64()
		if err != nil || amount <= 0 {
			s.Send(protocol.Marshal(protocol.NewError(protocol.ErrInvalidAction, "bet needs a positive amount")))
			return
		}
		action.Kind = game.Bet
		action.Amount = int(amount)
	default:
		s.Send(protocol.Marshal(protocol.NewError(protocol.ErrInvalidAction,
			"unknown action "+cmd.Action)))
		return
	}
	s.hub.PlayerAction(s.playerID, action)
}

// handleChat relays plain text to the table; lines starting with '/' are
// admin shortcuts.
func (s *Session) handleChat(text string) {
	if strings.HasPrefix(text, "/") {
		admin, err := protocol.ParseSlashCommand(text)
		if err != nil {
			s.Send(protocol.Marshal(protocol.NewError(protocol.ErrInvalidAdminCommand, err.Error())))
			return
		}
		s.hub.Admin(s.playerID, admin)
		return
	}
	if text != "" {
		s.hub.Chat(s.playerID, text)
	}
}
