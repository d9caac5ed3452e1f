package main

import (
	"os"
	"strings"

	"github.com/outbidhq/outbid/cmd/outbid/shared"
	"github.com/outbidhq/outbid/internal/client"
)

type ClientCmd struct {
	Server string `kong:"default='ws://localhost:8080/ws',help='WebSocket server URL'"`
	Name   string `kong:"default='',help='Display name (defaults to $USER or \"Player\")'"`
	Game   string `kong:"default='',help='Join code of an existing game; omit to create one'"`
	Mode   string `kong:"default='',help='Auction mode when creating: all-pay, standard or vickrey'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *ClientCmd) Run() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = os.Getenv("USER")
	}
	if name == "" {
		name = "Player"
	}

	logger := shared.SetupLogger("warn", c.Debug)

	return client.Run(client.Config{
		Server: strings.TrimSpace(c.Server),
		Name:   name,
		Game:   strings.TrimSpace(c.Game),
		Mode:   strings.TrimSpace(c.Mode),
	}, logger)
}
