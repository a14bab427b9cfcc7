package table

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/protocol"
)

// handleMetaActions drains the control-plane inbox between hands, when
// every kind of meta-action may be applied.
func (t *Table) handleMetaActions() {
	t.handleMeta(false)
}

// handleMetaMidHand drains the inbox while a hand is live. Admin
// commands change the game's parameters, so they are re-enqueued and
// applied once the hand finishes.
func (t *Table) handleMetaMidHand() {
	t.handleMeta(true)
}

func (t *Table) handleMeta(midHand bool) {
	for _, meta := range t.inboxes.takeMetaSnapshot() {
		t.touchHeartBeat(meta.PlayerID)

		switch meta.Kind {
		case MetaChat:
			t.sendGroup(protocol.Chat{
				MsgType:    protocol.TypeChat,
				PlayerName: t.playerName(meta.PlayerID),
				Text:       meta.Text,
			})

		case MetaJoin:
			t.handleJoin(meta)

		case MetaLeave:
			t.handleLeave(meta.PlayerID)

		case MetaSetPlayerName:
			if config, ok := t.configs[meta.PlayerID]; ok {
				config.Name = meta.Text
			}

		case MetaSendPlayerName:
			t.sendToPlayer(meta.PlayerID, protocol.PlayerName{
				MsgType:    protocol.TypePlayerName,
				PlayerName: t.playerName(meta.PlayerID),
			})

		case MetaUpdateAddress:
			if config, ok := t.configs[meta.PlayerID]; ok {
				config.Recipient = meta.Recipient
				config.HeartBeat = t.clock.Now()
			}

		case MetaTableInfo:
			if meta.Recipient != nil {
				meta.Recipient.Send(protocol.Marshal(t.tableInfo()))
			}

		case MetaImBack:
			if p := t.playerByID(meta.PlayerID); p != nil {
				p.IsSittingOut = false
			}

		case MetaSitOut:
			if p := t.playerByID(meta.PlayerID); p != nil {
				p.IsSittingOut = true
			}

		case MetaAdmin:
			if midHand {
				// parameters only change between hands
				t.inboxes.PostMeta(meta)
				continue
			}
			t.handleAdminCommand(meta)
		}
	}
}

func (t *Table) handleJoin(meta MetaAction) {
	err := t.AddHuman(meta.Config, meta.Password)
	if err != nil {
		t.logger.Info("join refused", "id", meta.Config.ID, "err", err)
		if t.lobby != nil {
			t.lobby.Returned(meta.Config, ReturnedFailureToJoin, err)
		}
		return
	}
	meta.Config.HeartBeat = t.clock.Now()
	t.sendGroup(protocol.Chat{
		MsgType:    protocol.TypeChat,
		PlayerName: meta.Config.Name,
		Text:       "joined the table",
	})
}

func (t *Table) handleLeave(id uuid.UUID) {
	config, ok := t.configs[id]
	if !ok {
		return
	}
	delete(t.configs, id)
	t.leavers = append(t.leavers, id)
	t.logger.Info("player left", "id", id, "name", config.Name)
	t.sendGroup(protocol.PlayerLeft{MsgType: protocol.TypePlayerLeft, Name: config.Name})
	if t.lobby != nil && config.Recipient != nil {
		t.lobby.Returned(config, ReturnedLeft, nil)
	}
}

// handleAdminCommand applies one deferred admin request. Only the
// table's creator may administer it, and only on a private table.
func (t *Table) handleAdminCommand(meta MetaAction) {
	if meta.PlayerID != t.adminID {
		t.sendError(meta.PlayerID, protocol.ErrNotAdmin, "only the table creator can do that")
		return
	}
	if t.password == nil {
		t.sendError(meta.PlayerID, protocol.ErrNotPrivate, "admin commands need a private table")
		return
	}

	cmd := meta.Admin
	switch cmd.Kind {
	case protocol.AdminSmallBlind:
		t.smallBlind = cmd.Value
	case protocol.AdminBigBlind:
		t.bigBlind = cmd.Value
	case protocol.AdminBuyIn:
		t.buyIn = cmd.Value
	case protocol.AdminSetPassword:
		password := cmd.Password
		t.password = &password
	case protocol.AdminShowPassword:
		t.sendToPlayer(meta.PlayerID, protocol.AdminSuccess{
			MsgType: protocol.TypeAdminSuccess,
			Updated: cmd.Kind.String(),
			Text:    fmt.Sprintf("password is %q", *t.password),
		})
		return
	case protocol.AdminAddBot:
		if err := t.AddBot(); err != nil {
			t.sendError(meta.PlayerID, protocol.ErrUnableToAddBot, err.Error())
			return
		}
	case protocol.AdminRemoveBot:
		if !t.removeBot() {
			t.sendError(meta.PlayerID, protocol.ErrUnableToRemoveBot, "no bot seated")
			return
		}
	case protocol.AdminRestart:
		t.restart = true
	default:
		t.sendError(meta.PlayerID, protocol.ErrInvalidAdminCommand, "unknown admin command")
		return
	}

	t.logger.Info("admin command applied", "command", cmd.Kind.String(), "by", meta.PlayerID)
	t.sendToPlayer(meta.PlayerID, protocol.AdminSuccess{
		MsgType: protocol.TypeAdminSuccess,
		Updated: cmd.Kind.String(),
		Text:    fmt.Sprintf("%s updated", cmd.Kind.String()),
	})
}

// removeBot clears the first bot seat found. Reports whether one was
// removed.
func (t *Table) removeBot() bool {
	for i, p := range t.seats {
		if p != nil && !p.HumanControlled {
			delete(t.configs, p.ID)
			t.seats[i] = nil
			return true
		}
	}
	return false
}

// handlePlayerHeartBeats sweeps humans whose sessions went quiet for
// longer than the player timeout.
func (t *Table) handlePlayerHeartBeats() {
	var stale []uuid.UUID
	for id, config := range t.configs {
		if config.Recipient == nil {
			continue
		}
		if t.clock.Since(config.HeartBeat) > t.playerTimeout {
			stale = append(stale, id)
		}
	}
	for _, id := range stale {
		config := t.configs[id]
		t.logger.Info("heartbeat expired", "id", id, "name", config.Name)
		delete(t.configs, id)
		t.leavers = append(t.leavers, id)
		t.sendGroup(protocol.PlayerLeft{MsgType: protocol.TypePlayerLeft, Name: config.Name})
		if t.lobby != nil {
			t.lobby.Returned(config, ReturnedHeartBeatFailed, nil)
		}
	}
}

// touchHeartBeat refreshes a player's liveness stamp.
func (t *Table) touchHeartBeat(id uuid.UUID) {
	if config, ok := t.configs[id]; ok {
		config.HeartBeat = t.clock.Now()
	}
}

func (t *Table) playerByID(id uuid.UUID) *game.Player {
	for _, p := range t.seats {
		if p != nil && p.ID == id {
			return p
		}
	}
	return nil
}

func (t *Table) playerName(id uuid.UUID) string {
	if config, ok := t.configs[id]; ok {
		return config.Name
	}
	return "unknown"
}

func (t *Table) tableInfo() protocol.TableInfo {
	humans, bots := 0, 0
	for _, p := range t.seats {
		if p == nil {
			continue
		}
		if p.HumanControlled {
			humans++
		} else {
			bots++
		}
	}
	return protocol.TableInfo{
		MsgType:    protocol.TypeTableInfo,
		TableName:  t.name,
		SmallBlind: t.smallBlind,
		BigBlind:   t.bigBlind,
		BuyIn:      t.buyIn,
		MaxPlayers: t.maxPlayers,
		NumHumans:  humans,
		NumBots:    bots,
	}
}
