package main

import (
	"bufio"
	"encoding/json"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

type clientMessage struct {
	Type     string `json:"type"`
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
	TokenID  string `json:"tokenId,omitempty"`
	Steps    int    `json:"steps,omitempty"`
}

func send(c *websocket.Conn, msg clientMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.WriteMessage(websocket.TextMessage, data)
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: "localhost:5001", Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			log.Printf("<- RECV: %s", string(message))
		}
	}()

	log.Println("Client started. Commands:")
	log.Println("  join <gameId> <playerId>")
	log.Println("  roll")
	log.Println("  move <tokenId> <steps>")

	var gameID, playerID string

	// Write loop
	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			fields := strings.Fields(text)
			if len(fields) == 0 {
				continue
			}

			var msg clientMessage
			switch fields[0] {
			case "join":
				if len(fields) != 3 {
					log.Println("Usage: join <gameId> <playerId>")
					continue
				}
				gameID, playerID = fields[1], fields[2]
				msg = clientMessage{Type: "JOIN_GAME", GameID: gameID, PlayerID: playerID}
			case "roll":
				msg = clientMessage{Type: "ROLL_DICE", GameID: gameID, PlayerID: playerID}
			case "move":
				if len(fields) != 3 {
					log.Println("Usage: move <tokenId> <steps>")
					continue
				}
				steps, err := strconv.Atoi(fields[2])
				if err != nil {
					log.Println("Steps must be a number")
					continue
				}
				msg = clientMessage{Type: "MOVE_TOKEN", GameID: gameID, PlayerID: playerID, TokenID: fields[1], Steps: steps}
			default:
				log.Printf("Unknown command %q", fields[0])
				continue
			}

			if err := send(c, msg); err != nil {
				log.Println("Write error:", err)
				return
			}
			log.Printf("-> SENT: %s", msg.Type)
		}
	}
}
