package protocol

import "encoding/json"

// Inbound msg_type tags accepted from clients.
const (
	CmdPlayerAction = "player_action"
	CmdList         = "list"
	CmdJoin         = "join"
	CmdCreate       = "create"
	CmdAdminCommand = "admin_command"
	CmdLeave        = "leave"
	CmdImBack       = "imback"
	CmdTableInfo    = "table_info"
	CmdSitOut       = "sitout"
	CmdName         = "name"
	CmdChat         = "chat"
	CmdHelp         = "help"
)

// ClientCommand is the envelope for every inbound client frame. Fields
// beyond MsgType are populated per command; unknown fields are ignored.
type ClientCommand struct {
	MsgType string `json:"msg_type"`

	// player_action
	Action string      `json:"action,omitempty"`
	Amount json.Number `json:"amount,omitempty"`

	// join / create
	TableName  string  `json:"table_name,omitempty"`
	Password   *string `json:"password,omitempty"`
	SmallBlind int     `json:"small_blind,omitempty"`
	BigBlind   int     `json:"big_blind,omitempty"`
	BuyIn      int     `json:"buy_in,omitempty"`
	MaxPlayers int     `json:"max_players,omitempty"`

	// name
	PlayerName string `json:"player_name,omitempty"`

	// chat
	Text string `json:"text,omitempty"`

	// admin_command: the command name, with its value carried in the
	// field of the same name (e.g. {"admin_command":"big_blind","big_blind":24})
	AdminCommand string          `json:"admin_command,omitempty"`
	Raw          json.RawMessage `json:"-"`
}

// ParseClientCommand decodes an inbound text frame, keeping the raw
// bytes around for commands that carry per-command value fields.
func ParseClientCommand(payload []byte) (*ClientCommand, error) {
	var cmd ClientCommand
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return nil, err
	}
	cmd.Raw = payload
	return &cmd, nil
}

// AdminValue extracts the string-or-number value field matching the
// admin command name, e.g. the "small_blind" field of a small_blind
// command. Returns ok=false when the field is absent.
func (c *ClientCommand) AdminValue() (string, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(c.Raw, &fields); err != nil {
		return "", false
	}
	raw, ok := fields[c.AdminCommand]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}
