package client

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/outbidhq/outbid/internal/server"
)

// Config holds the interactive client's settings.
type Config struct {
	Server string // server URL
	Name   string // display name
	Game   string // join code; empty creates a new game
	Mode   string // auction mode when creating
}

// Run connects to the server and drives an interactive session on
// stdin until the user quits or the input closes.
func Run(cfg Config, logger *log.Logger) error {
	c := NewClient(cfg.Server, logger)
	display := NewDisplay()

	if err := c.Connect(); err != nil {
		return err
	}
	defer func() { _ = c.Disconnect() }()

	c.AddEventHandler(server.MessageTypeGameCreated, func(msg *server.Message) {
		var data server.GameCreatedData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return
		}
		c.SetIdentity(data.GameID, data.PlayerID)
		fmt.Printf("Created game %s\n", data.GameID)
		display.ShowSnapshot(data.State)
	})
	c.AddEventHandler(server.MessageTypeGameJoined, func(msg *server.Message) {
		var data server.GameJoinedData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return
		}
		c.SetIdentity(data.GameID, data.PlayerID)
		fmt.Printf("Joined game %s\n", data.GameID)
		display.ShowSnapshot(data.State)
	})
	c.AddEventHandler(server.MessageTypeGameState, func(msg *server.Message) {
		var data server.GameStateData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return
		}
		display.ShowSnapshot(data.State)
	})
	c.AddEventHandler(server.MessageTypeError, func(msg *server.Message) {
		var data server.ErrorData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return
		}
		display.ShowError(data.Code, data.Message)
	})

	var err error
	if cfg.Game != "" {
		err = c.JoinGame(cfg.Game, cfg.Name)
	} else {
		err = c.CreateGame(cfg.Name, cfg.Mode)
	}
	if err != nil {
		return err
	}

	printHelp()
	return repl(c)
}

func repl(c *Client) error {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := strings.ToLower(fields[0]), fields[1:]

		var err error
		switch cmd {
		case "bid", "b":
			if len(args) != 1 {
				fmt.Println("usage: bid <amount>")
				continue
			}
			amount, convErr := strconv.Atoi(args[0])
			if convErr != nil {
				fmt.Println("usage: bid <amount>")
				continue
			}
			err = c.PlaceBid(amount)
		case "start":
			err = c.StartGame()
		case "next", "n":
			err = c.AdvanceRound()
		case "reset":
			err = c.ResetGame()
		case "state", "s":
			err = c.RequestState()
		case "help", "h", "?":
			printHelp()
		case "quit", "exit", "q":
			return nil
		default:
			fmt.Printf("unknown command %q, try help\n", cmd)
		}
		if err != nil {
			return err
		}
	}
	return scanner.Err()
}

func printHelp() {
	fmt.Println(`commands:
  bid <amount>   place your sealed bid this round
  start          start the game (host)
  next           advance to the next round (host)
  reset          return the game to the lobby (host)
  state          refresh the game state
  quit           leave`)
}
