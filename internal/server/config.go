package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ServerConfig represents the complete server configuration. The server
// block is optional; a table-only file gets the default settings.
type ServerConfig struct {
	Server *ServerSettings `hcl:"server,block"`
	Tables []TableConfig   `hcl:"table,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address        string `hcl:"address,optional"`
	Port           int    `hcl:"port,optional"`
	LogLevel       string `hcl:"log_level,optional"`
	HandHistoryDir string `hcl:"hand_history_dir,optional"`
}

// TableConfig defines a table started at boot. Tables created by
// players over the wire exist alongside these.
type TableConfig struct {
	Name       string  `hcl:"name,label"`
	MaxPlayers int     `hcl:"max_players,optional"`
	SmallBlind int     `hcl:"small_blind"`
	BigBlind   int     `hcl:"big_blind"`
	BuyIn      int     `hcl:"buy_in,optional"`
	Password   *string `hcl:"password,optional"`
	Bots       int     `hcl:"bots,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: &ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Tables: []TableConfig{
			{
				Name:       "main",
				MaxPlayers: 9,
				SmallBlind: 4,
				BigBlind:   8,
				BuyIn:      1000,
				Bots:       2,
			},
		},
	}
}

// LoadServerConfig loads server configuration from an HCL file, falling
// back to defaults when the file does not exist.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if config.Server == nil {
		config.Server = &ServerSettings{}
	}
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	for i := range config.Tables {
		if config.Tables[i].MaxPlayers == 0 {
			config.Tables[i].MaxPlayers = 9
		}
		if config.Tables[i].BuyIn == 0 {
			config.Tables[i].BuyIn = config.Tables[i].BigBlind * 125
		}
	}

	return &config, nil
}

// Validate checks the configuration for consistency
func (c *ServerConfig) Validate() error {
	seen := make(map[string]bool)
	for _, t := range c.Tables {
		if t.Name == "" {
			return fmt.Errorf("table with empty name")
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate table name %q", t.Name)
		}
		seen[t.Name] = true
		if t.SmallBlind <= 0 || t.BigBlind <= 0 {
			return fmt.Errorf("table %q: blinds must be positive", t.Name)
		}
		if t.BigBlind < t.SmallBlind {
			return fmt.Errorf("table %q: big blind below small blind", t.Name)
		}
		if t.BuyIn < t.BigBlind {
			return fmt.Errorf("table %q: buy-in below the big blind", t.Name)
		}
		if t.MaxPlayers < 2 {
			return fmt.Errorf("table %q: needs at least two seats", t.Name)
		}
		if t.Bots < 0 || t.Bots > t.MaxPlayers {
			return fmt.Errorf("table %q: bots must fit the table", t.Name)
		}
	}
	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
