// Package config loads the HCL configuration file for the room server.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete server configuration.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Store  StoreSettings  `hcl:"store,block"`
	Rooms  RoomSettings   `hcl:"rooms,block"`
}

// ServerSettings contains the listen addresses and logging setup.
type ServerSettings struct {
	Address      string `hcl:"address,optional"`       // websocket gateway
	AdminAddress string `hcl:"admin_address,optional"` // admin HTTP API
	LogLevel     string `hcl:"log_level,optional"`
}

// StoreSettings selects and configures the persistence backend.
type StoreSettings struct {
	Backend       string `hcl:"backend,optional"` // memory, redis or postgres
	RedisAddress  string `hcl:"redis_address,optional"`
	RedisPassword string `hcl:"redis_password,optional"`
	RedisDB       int    `hcl:"redis_db,optional"`
	PostgresDSN   string `hcl:"postgres_dsn,optional"`
}

// RoomSettings contains the table defaults applied to new rooms.
type RoomSettings struct {
	SmallBlind      int `hcl:"small_blind,optional"`
	BigBlind        int `hcl:"big_blind,optional"`
	BuyIn           int `hcl:"buy_in,optional"`
	TurnTimeoutSecs int `hcl:"turn_timeout,optional"` // 0 disables deadlines
}

// TurnTimeout returns the configured deadline as a duration.
func (r RoomSettings) TurnTimeout() time.Duration {
	return time.Duration(r.TurnTimeoutSecs) * time.Second
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerSettings{
			Address:      "localhost:8080",
			AdminAddress: "localhost:8081",
			LogLevel:     "info",
		},
		Store: StoreSettings{
			Backend:      "memory",
			RedisAddress: "localhost:6379",
		},
		Rooms: RoomSettings{
			SmallBlind:      10,
			BigBlind:        20,
			BuyIn:           1000,
			TurnTimeoutSecs: 60,
		},
	}
}

// Load reads an HCL configuration file. A missing file yields the defaults;
// a present file has defaults applied to any omitted values.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	def := Default()
	if cfg.Server.Address == "" {
		cfg.Server.Address = def.Server.Address
	}
	if cfg.Server.AdminAddress == "" {
		cfg.Server.AdminAddress = def.Server.AdminAddress
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = def.Server.LogLevel
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = def.Store.Backend
	}
	if cfg.Store.RedisAddress == "" {
		cfg.Store.RedisAddress = def.Store.RedisAddress
	}
	if cfg.Rooms.SmallBlind == 0 {
		cfg.Rooms.SmallBlind = def.Rooms.SmallBlind
	}
	if cfg.Rooms.BigBlind == 0 {
		cfg.Rooms.BigBlind = def.Rooms.BigBlind
	}
	if cfg.Rooms.BuyIn == 0 {
		cfg.Rooms.BuyIn = def.Rooms.BuyIn
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "memory", "redis":
	case "postgres":
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("postgres backend requires postgres_dsn")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	if c.Rooms.BigBlind <= c.Rooms.SmallBlind {
		return fmt.Errorf("big blind %d must exceed small blind %d",
			c.Rooms.BigBlind, c.Rooms.SmallBlind)
	}
	if c.Rooms.BuyIn < c.Rooms.BigBlind {
		return fmt.Errorf("buy-in %d must cover the big blind %d",
			c.Rooms.BuyIn, c.Rooms.BigBlind)
	}
	if c.Rooms.TurnTimeoutSecs < 0 {
		return fmt.Errorf("turn_timeout must not be negative")
	}
	return nil
}
