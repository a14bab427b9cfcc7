package protocol

import "encoding/json"

// Outbound event msg_type tags.
const (
	TypeGameState    = "game_state"
	TypeNewHand      = "new_hand"
	TypePrompt       = "prompt"
	TypeChat         = "chat"
	TypePlayerLeft   = "player_left"
	TypeFinishHand   = "finish_hand"
	TypeAdminSuccess = "admin_success"
	TypeError        = "error"
	TypeTableInfo    = "table_info"
	TypeHelpMessage  = "help_message"
	TypeTablesList   = "tables_list"
	TypeCreatedTable = "created_table"
	TypePlayerName   = "player_name"
	TypeConnected    = "connected"
)

// Error codes carried by Error events.
const (
	ErrInvalidAction       = "invalid_action"
	ErrNotAdmin            = "not_admin"
	ErrNotPrivate          = "not_private"
	ErrInvalidAdminCommand = "invalid_admin_command"
	ErrUnableToAddBot      = "unable_to_add_bot"
	ErrUnableToRemoveBot   = "unable_to_remove_bot"
	ErrUnableToCreate      = "unable_to_create"
	ErrUnableToJoin        = "unable_to_join"
)

// SeatState is one seat's slice of a GameState broadcast.
type SeatState struct {
	Index        int    `json:"index"`
	PlayerName   string `json:"player_name"`
	Money        int    `json:"money"`
	IsActive     bool   `json:"is_active"`
	IsSittingOut bool   `json:"is_sitting_out,omitempty"`
	IsAllIn      bool   `json:"is_all_in,omitempty"`
	LastAction   string `json:"last_action,omitempty"`
	PreflopCont  int    `json:"preflop_cont"`
	FlopCont     int    `json:"flop_cont"`
	TurnCont     int    `json:"turn_cont"`
	RiverCont    int    `json:"river_cont"`
}

// GameState is the per-recipient table snapshot. YourIndex and HoleCards
// are personalized; hole cards are never present for other seats.
type GameState struct {
	MsgType       string       `json:"msg_type"`
	Name          string       `json:"name"`
	MaxPlayers    int          `json:"max_players"`
	SmallBlind    int          `json:"small_blind"`
	BigBlind      int          `json:"big_blind"`
	BuyIn         int          `json:"buy_in"`
	Private       bool         `json:"private"`
	ButtonIdx     int          `json:"button_idx"`
	HandNum       int          `json:"hand_num"`
	GameSuspended bool         `json:"game_suspended"`
	Players       []*SeatState `json:"players"`

	// hand-scoped fields, present while a hand is live
	Street     string `json:"street,omitempty"`
	CurrentBet *int   `json:"current_bet,omitempty"`
	Flop       string `json:"flop,omitempty"`
	Turn       string `json:"turn,omitempty"`
	River      string `json:"river,omitempty"`
	Pots       []int  `json:"pots,omitempty"`
	IndexToAct *int   `json:"index_to_act,omitempty"`

	YourIndex *int   `json:"your_index,omitempty"`
	HoleCards string `json:"hole_cards,omitempty"`
}

// NewHand announces the start of a hand.
type NewHand struct {
	MsgType     string `json:"msg_type"`
	HandNum     int    `json:"hand_num"`
	ButtonIndex int    `json:"button_index"`
}

// Prompt asks the acting player for a decision.
type Prompt struct {
	MsgType    string `json:"msg_type"`
	Prompt     string `json:"prompt"`
	CurrentBet int    `json:"current_bet"`
}

// Chat fans a chat line out to the table.
type Chat struct {
	MsgType    string `json:"msg_type"`
	PlayerName string `json:"player_name"`
	Text       string `json:"text"`
}

// PlayerLeft tells remaining seats that a player left the table.
type PlayerLeft struct {
	MsgType string `json:"msg_type"`
	Name    string `json:"name"`
}

// Settlement is one pot award within a FinishHand event.
type Settlement struct {
	Seat     int    `json:"seat"`
	Name     string `json:"name"`
	Amount   int    `json:"amount"`
	HandDesc string `json:"hand_desc,omitempty"`
}

// FinishHand carries the hand's pot settlements.
type FinishHand struct {
	MsgType     string       `json:"msg_type"`
	Settlements []Settlement `json:"settlements"`
}

// AdminSuccess acknowledges an applied admin command.
type AdminSuccess struct {
	MsgType string `json:"msg_type"`
	Updated string `json:"updated,omitempty"`
	Text    string `json:"text"`
}

// Error is a typed error event delivered to a single player.
type Error struct {
	MsgType string `json:"msg_type"`
	Error   string `json:"error"`
	Reason  string `json:"reason"`
}

// NewError builds an Error event with the given code and reason.
func NewError(code, reason string) Error {
	return Error{MsgType: TypeError, Error: code, Reason: reason}
}

// TableInfo is a table summary sent directly to a requesting recipient.
type TableInfo struct {
	MsgType    string `json:"msg_type"`
	TableName  string `json:"table_name"`
	SmallBlind int    `json:"small_blind"`
	BigBlind   int    `json:"big_blind"`
	BuyIn      int    `json:"buy_in"`
	MaxPlayers int    `json:"max_players"`
	NumHumans  int    `json:"num_humans"`
	NumBots    int    `json:"num_bots"`
}

// HelpMessage lists the textual commands the session layer understands.
type HelpMessage struct {
	MsgType  string   `json:"msg_type"`
	Commands []string `json:"commands"`
}

// TablesList is the lobby's answer to a list command.
type TablesList struct {
	MsgType string   `json:"msg_type"`
	Tables  []string `json:"tables"`
}

// CreatedTable confirms a create command.
type CreatedTable struct {
	MsgType   string `json:"msg_type"`
	TableName string `json:"table_name"`
}

// PlayerName echoes a player's current display name back to them.
type PlayerName struct {
	MsgType    string `json:"msg_type"`
	PlayerName string `json:"player_name"`
}

// Connected returns the engine-assigned player id to a fresh session.
type Connected struct {
	MsgType  string `json:"msg_type"`
	PlayerID string `json:"player_id"`
}

// Marshal encodes an event for the wire. Events are plain data structs,
// so encoding cannot fail in practice.
func Marshal(event any) []byte {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil
	}
	return payload
}
