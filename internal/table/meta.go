package table

import (
	"github.com/google/uuid"

	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/protocol"
)

// MetaKind enumerates the control-plane events a table handles
// concurrently with play.
type MetaKind int

const (
	MetaChat MetaKind = iota
	MetaJoin
	MetaLeave
	MetaSetPlayerName
	MetaSendPlayerName
	MetaUpdateAddress
	MetaTableInfo
	MetaImBack
	MetaSitOut
	MetaAdmin
)

func (k MetaKind) String() string {
	switch k {
	case MetaChat:
		return "chat"
	case MetaJoin:
		return "join"
	case MetaLeave:
		return "leave"
	case MetaSetPlayerName:
		return "set_player_name"
	case MetaSendPlayerName:
		return "send_player_name"
	case MetaUpdateAddress:
		return "update_address"
	case MetaTableInfo:
		return "table_info"
	case MetaImBack:
		return "im_back"
	case MetaSitOut:
		return "sit_out"
	case MetaAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// MetaAction is one control-plane event. Only the fields relevant to the
// Kind are populated.
type MetaAction struct {
	Kind      MetaKind
	PlayerID  uuid.UUID
	Text      string               // chat text or new player name
	Config    *game.PlayerConfig   // join
	Password  *string              // join password
	Recipient protocol.Recipient   // table_info target or replacement address
	Admin     protocol.AdminCommand
}

// ChatMeta builds a chat meta-action.
func ChatMeta(id uuid.UUID, text string) MetaAction {
	return MetaAction{Kind: MetaChat, PlayerID: id, Text: text}
}

// JoinMeta builds a join meta-action carrying the joining config.
func JoinMeta(config *game.PlayerConfig, password *string) MetaAction {
	return MetaAction{Kind: MetaJoin, PlayerID: config.ID, Config: config, Password: password}
}

// LeaveMeta builds a leave meta-action.
func LeaveMeta(id uuid.UUID) MetaAction {
	return MetaAction{Kind: MetaLeave, PlayerID: id}
}

// SetPlayerNameMeta renames a player.
func SetPlayerNameMeta(id uuid.UUID, name string) MetaAction {
	return MetaAction{Kind: MetaSetPlayerName, PlayerID: id, Text: name}
}

// SendPlayerNameMeta echoes a player's name back to them.
func SendPlayerNameMeta(id uuid.UUID) MetaAction {
	return MetaAction{Kind: MetaSendPlayerName, PlayerID: id}
}

// UpdateAddressMeta swaps in a new outbound recipient after a reconnect.
func UpdateAddressMeta(id uuid.UUID, recipient protocol.Recipient) MetaAction {
	return MetaAction{Kind: MetaUpdateAddress, PlayerID: id, Recipient: recipient}
}

// TableInfoMeta requests a table summary sent to the given recipient.
func TableInfoMeta(recipient protocol.Recipient) MetaAction {
	return MetaAction{Kind: MetaTableInfo, Recipient: recipient}
}

// ImBackMeta clears a player's sitting-out flag.
func ImBackMeta(id uuid.UUID) MetaAction {
	return MetaAction{Kind: MetaImBack, PlayerID: id}
}

// SitOutMeta sets a player's sitting-out flag.
func SitOutMeta(id uuid.UUID) MetaAction {
	return MetaAction{Kind: MetaSitOut, PlayerID: id}
}

// AdminMeta builds an admin command meta-action.
func AdminMeta(id uuid.UUID, cmd protocol.AdminCommand) MetaAction {
	return MetaAction{Kind: MetaAdmin, PlayerID: id, Admin: cmd}
}

// ReturnedReason explains why a config came back to the lobby.
type ReturnedReason int

const (
	ReturnedLeft ReturnedReason = iota
	ReturnedHeartBeatFailed
	ReturnedFailureToJoin
)

func (r ReturnedReason) String() string {
	switch r {
	case ReturnedLeft:
		return "left"
	case ReturnedHeartBeatFailed:
		return "heart_beat_failed"
	case ReturnedFailureToJoin:
		return "failure_to_join"
	default:
		return "unknown"
	}
}

// Lobby is the table's send-only handle back to the directory that owns
// it. The table never blocks on the lobby and does not manage its
// lifecycle.
type Lobby interface {
	// Returned hands a player's config back, e.g. after a leave, an
	// eviction, or a failed join (err carries the join failure).
	Returned(config *game.PlayerConfig, reason ReturnedReason, err error)
	// GameOver reports that the table's hand loop has terminated.
	GameOver(tableName string)
}
