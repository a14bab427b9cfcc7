package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/holdem/internal/protocol"
)

var CLI struct {
	Server   string `short:"s" long:"server" default:"ws://localhost:8080/ws" help:"Server URL to connect to"`
	Name     string `short:"n" long:"name" help:"Player name"`
	PlayerID string `long:"player-id" help:"Previous player id, to reconnect"`
	LogLevel string `short:"l" long:"log-level" default:"warn" help:"Log level"`
}

var (
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	chatStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	cardStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	potStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

func main() {
	ctx := kong.Parse(&CLI)

	logger := log.New(os.Stderr)
	if CLI.LogLevel == "debug" {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}

	url := CLI.Server
	if CLI.PlayerID != "" {
		url += "?player_id=" + CLI.PlayerID
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		fmt.Printf("Failed to connect to %s: %v\n", CLI.Server, err)
		ctx.Exit(1)
	}
	defer func() { _ = conn.Close() }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				fmt.Println(errorStyle.Render("connection closed"))
				return
			}
			render(payload)
		}
	}()

	if CLI.Name != "" {
		sendCommand(conn, map[string]any{"msg_type": protocol.CmdName, "player_name": CLI.Name})
	}

	fmt.Println(infoStyle.Render("connected, type /help for commands, /quit to exit"))

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-done:
			return
		default:
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" {
			return
		}
		if cmd, ok := parseLine(line); ok {
			sendCommand(conn, cmd)
		}
	}
}

func sendCommand(conn *websocket.Conn, cmd map[string]any) {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		fmt.Println(errorStyle.Render("send failed: " + err.Error()))
	}
}

// parseLine maps an input line onto a client command. Betting words are
// bare, client verbs start with '/', everything else is table chat. An
// unrecognized slash command is sent as chat so the server's admin
// shortcuts still work.
func parseLine(line string) (map[string]any, bool) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "fold", "check", "call":
		return map[string]any{"msg_type": protocol.CmdPlayerAction, "action": fields[0]}, true
	case "bet", "raise":
		if len(fields) < 2 {
			fmt.Println(errorStyle.Render("usage: bet AMOUNT"))
			return nil, false
		}
		amount, err := strconv.Atoi(fields[1])
		if err != nil || amount <= 0 {
			fmt.Println(errorStyle.Render("bet amount must be a positive number"))
			return nil, false
		}
		return map[string]any{"msg_type": protocol.CmdPlayerAction, "action": "bet", "amount": amount}, true
	case "/list":
		return map[string]any{"msg_type": protocol.CmdList}, true
	case "/join":
		if len(fields) < 2 {
			fmt.Println(errorStyle.Render("usage: /join TABLE [PASSWORD]"))
			return nil, false
		}
		cmd := map[string]any{"msg_type": protocol.CmdJoin, "table_name": fields[1]}
		if len(fields) > 2 {
			cmd["password"] = fields[2]
		}
		return cmd, true
	case "/create":
		if len(fields) < 2 {
			fmt.Println(errorStyle.Render("usage: /create TABLE [SMALL BIG] [PASSWORD]"))
			return nil, false
		}
		cmd := map[string]any{"msg_type": protocol.CmdCreate, "table_name": fields[1]}
		if len(fields) >= 4 {
			small, err1 := strconv.Atoi(fields[2])
			big, err2 := strconv.Atoi(fields[3])
			if err1 != nil || err2 != nil {
				fmt.Println(errorStyle.Render("blinds must be numbers"))
				return nil, false
			}
			cmd["small_blind"] = small
			cmd["big_blind"] = big
		}
		if len(fields) >= 5 {
			cmd["password"] = fields[4]
		}
		return cmd, true
	case "/leave":
		return map[string]any{"msg_type": protocol.CmdLeave}, true
	case "/sitout":
		return map[string]any{"msg_type": protocol.CmdSitOut}, true
	case "/imback":
		return map[string]any{"msg_type": protocol.CmdImBack}, true
	case "/info":
		cmd := map[string]any{"msg_type": protocol.CmdTableInfo}
		if len(fields) > 1 {
			cmd["table_name"] = fields[1]
		}
		return cmd, true
	case "/name":
		if len(fields) < 2 {
			return map[string]any{"msg_type": protocol.CmdName}, true
		}
		return map[string]any{"msg_type": protocol.CmdName, "player_name": fields[1]}, true
	case "/help":
		return map[string]any{"msg_type": protocol.CmdHelp}, true
	default:
		return map[string]any{"msg_type": protocol.CmdChat, "text": line}, true
	}
}

func render(payload []byte) {
	var envelope struct {
		MsgType string `json:"msg_type"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return
	}

	switch envelope.MsgType {
	case protocol.TypeConnected:
		var e protocol.Connected
		if json.Unmarshal(payload, &e) == nil {
			fmt.Println(infoStyle.Render("your player id: " + e.PlayerID))
		}
	case protocol.TypeChat:
		var e protocol.Chat
		if json.Unmarshal(payload, &e) == nil {
			fmt.Println(chatStyle.Render(fmt.Sprintf("%s: %s", e.PlayerName, e.Text)))
		}
	case protocol.TypeError:
		var e protocol.Error
		if json.Unmarshal(payload, &e) == nil {
			fmt.Println(errorStyle.Render(fmt.Sprintf("error (%s): %s", e.Error, e.Reason)))
		}
	case protocol.TypePrompt:
		var e protocol.Prompt
		if json.Unmarshal(payload, &e) == nil {
			fmt.Println(promptStyle.Render(
				fmt.Sprintf("%s (current bet %d)", e.Prompt, e.CurrentBet)))
		}
	case protocol.TypeNewHand:
		var e protocol.NewHand
		if json.Unmarshal(payload, &e) == nil {
			fmt.Println(infoStyle.Render(
				fmt.Sprintf("--- hand #%d, button at seat %d ---", e.HandNum, e.ButtonIndex)))
		}
	case protocol.TypeGameState:
		renderGameState(payload)
	case protocol.TypeFinishHand:
		var e protocol.FinishHand
		if json.Unmarshal(payload, &e) == nil {
			for _, s := range e.Settlements {
				line := fmt.Sprintf("%s (seat %d) wins %d", s.Name, s.Seat, s.Amount)
				if s.HandDesc != "" {
					line += " with " + s.HandDesc
				}
				fmt.Println(potStyle.Render(line))
			}
		}
	case protocol.TypeAdminSuccess:
		var e protocol.AdminSuccess
		if json.Unmarshal(payload, &e) == nil {
			fmt.Println(infoStyle.Render(e.Text))
		}
	case protocol.TypePlayerLeft:
		var e protocol.PlayerLeft
		if json.Unmarshal(payload, &e) == nil {
			fmt.Println(infoStyle.Render(e.Name + " left the table"))
		}
	case protocol.TypeTablesList:
		var e protocol.TablesList
		if json.Unmarshal(payload, &e) == nil {
			if len(e.Tables) == 0 {
				fmt.Println(infoStyle.Render("no tables yet, /create one"))
				return
			}
			fmt.Println(infoStyle.Render("tables: " + strings.Join(e.Tables, ", ")))
		}
	case protocol.TypeCreatedTable:
		var e protocol.CreatedTable
		if json.Unmarshal(payload, &e) == nil {
			fmt.Println(infoStyle.Render("created table " + e.TableName))
		}
	case protocol.TypeTableInfo:
		var e protocol.TableInfo
		if json.Unmarshal(payload, &e) == nil {
			fmt.Println(infoStyle.Render(fmt.Sprintf(
				"%s: blinds %d/%d, buy-in %d, %d humans, %d bots",
				e.TableName, e.SmallBlind, e.BigBlind, e.BuyIn, e.NumHumans, e.NumBots)))
		}
	case protocol.TypePlayerName:
		var e protocol.PlayerName
		if json.Unmarshal(payload, &e) == nil {
			fmt.Println(infoStyle.Render("you are " + e.PlayerName))
		}
	case protocol.TypeHelpMessage:
		var e protocol.HelpMessage
		if json.Unmarshal(payload, &e) == nil {
			fmt.Println(infoStyle.Render("admin commands (table creator only):"))
			for _, cmd := range e.Commands {
				fmt.Println(infoStyle.Render("  " + cmd))
			}
			fmt.Println(infoStyle.Render("play: fold | check | call | bet AMOUNT"))
			fmt.Println(infoStyle.Render("lobby: /list /join /create /leave /sitout /imback /name /quit"))
		}
	}
}

func renderGameState(payload []byte) {
	var e protocol.GameState
	if json.Unmarshal(payload, &e) != nil {
		return
	}

	board := e.Flop + e.Turn + e.River
	line := fmt.Sprintf("[%s]", e.Street)
	if board != "" {
		line += " board " + cardStyle.Render(board)
	}
	if e.HoleCards != "" {
		line += " you " + cardStyle.Render(e.HoleCards)
	}
	if len(e.Pots) > 0 {
		parts := make([]string, len(e.Pots))
		for i, pot := range e.Pots {
			parts[i] = strconv.Itoa(pot)
		}
		line += " pots " + potStyle.Render(strings.Join(parts, "/"))
	}
	fmt.Println(line)

	for _, seat := range e.Players {
		marker := " "
		if e.IndexToAct != nil && *e.IndexToAct == seat.Index {
			marker = "*"
		}
		status := ""
		if seat.IsAllIn {
			status = " all-in"
		} else if !seat.IsActive {
			status = " out"
		}
		if seat.IsSittingOut {
			status += " sitting-out"
		}
		action := ""
		if seat.LastAction != "" {
			action = " " + seat.LastAction
		}
		fmt.Printf("%s seat %d %s %d%s%s\n",
			marker, seat.Index, seat.PlayerName, seat.Money, status, action)
	}
}
