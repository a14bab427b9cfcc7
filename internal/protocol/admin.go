package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// AdminKind enumerates the table-admin commands.
type AdminKind int

const (
	AdminSmallBlind AdminKind = iota
	AdminBigBlind
	AdminBuyIn
	AdminSetPassword
	AdminShowPassword
	AdminAddBot
	AdminRemoveBot
	AdminRestart
)

func (k AdminKind) String() string {
	switch k {
	case AdminSmallBlind:
		return "small_blind"
	case AdminBigBlind:
		return "big_blind"
	case AdminBuyIn:
		return "buy_in"
	case AdminSetPassword:
		return "set_password"
	case AdminShowPassword:
		return "show_password"
	case AdminAddBot:
		return "add_bot"
	case AdminRemoveBot:
		return "remove_bot"
	case AdminRestart:
		return "restart"
	default:
		return "unknown"
	}
}

// AdminCommand is a parsed admin request. Value is set for the numeric
// commands, Password for set_password.
type AdminCommand struct {
	Kind     AdminKind
	Value    int
	Password string
}

// HelpCommands lists the textual commands recognized by the session layer.
func HelpCommands() []string {
	return []string{
		"/small_blind AMOUNT",
		"/big_blind AMOUNT",
		"/starting_stack AMOUNT",
		"/set_password PASSWORD",
		"/show_password",
		"/add_bot",
		"/remove_bot",
		"/restart",
	}
}

// ParseSlashCommand maps a textual command like "/small_blind 10" onto an
// AdminCommand. The input must start with '/'.
func ParseSlashCommand(text string) (AdminCommand, error) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return AdminCommand{}, fmt.Errorf("not a command: %q", text)
	}

	name := strings.TrimPrefix(fields[0], "/")
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch name {
	case "small_blind":
		return parseAmountCommand(AdminSmallBlind, arg)
	case "big_blind":
		return parseAmountCommand(AdminBigBlind, arg)
	case "starting_stack":
		return parseAmountCommand(AdminBuyIn, arg)
	case "set_password":
		if arg == "" {
			return AdminCommand{}, fmt.Errorf("set_password requires a password")
		}
		return AdminCommand{Kind: AdminSetPassword, Password: arg}, nil
	case "show_password":
		return AdminCommand{Kind: AdminShowPassword}, nil
	case "add_bot":
		return AdminCommand{Kind: AdminAddBot}, nil
	case "remove_bot":
		return AdminCommand{Kind: AdminRemoveBot}, nil
	case "restart":
		return AdminCommand{Kind: AdminRestart}, nil
	default:
		return AdminCommand{}, fmt.Errorf("unknown command: /%s", name)
	}
}

// ParseAdminCommand maps the JSON admin_command form onto an AdminCommand,
// e.g. {"admin_command": "big_blind", "big_blind": 24}.
func ParseAdminCommand(name, value string) (AdminCommand, error) {
	switch name {
	case "small_blind":
		return parseAmountCommand(AdminSmallBlind, value)
	case "big_blind":
		return parseAmountCommand(AdminBigBlind, value)
	case "starting_stack":
		return parseAmountCommand(AdminBuyIn, value)
	case "set_password":
		if value == "" {
			return AdminCommand{}, fmt.Errorf("set_password requires a password")
		}
		return AdminCommand{Kind: AdminSetPassword, Password: value}, nil
	case "show_password":
		return AdminCommand{Kind: AdminShowPassword}, nil
	case "add_bot":
		return AdminCommand{Kind: AdminAddBot}, nil
	case "remove_bot":
		return AdminCommand{Kind: AdminRemoveBot}, nil
	case "restart":
		return AdminCommand{Kind: AdminRestart}, nil
	default:
		return AdminCommand{}, fmt.Errorf("unknown admin command: %s", name)
	}
}

func parseAmountCommand(kind AdminKind, arg string) (AdminCommand, error) {
	amount, err := strconv.Atoi(arg)
	if err != nil || amount <= 0 {
		return AdminCommand{}, fmt.Errorf("%s requires a positive amount", kind)
	}
	return AdminCommand{Kind: kind, Value: amount}, nil
}
