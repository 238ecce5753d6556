package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
)

// Cliente de teste manual do núcleo PvP. Conecta com um session_id e aceita
// comandos simples pelo terminal:
//
//	join <aposta>        entra na fila
//	leave                sai da fila
//	select <sala> <copo> jogo dos copos
//	hit <sala>           jogo de perseguição (reporta um hit sofrido)
//	score <sala> <n>     jogo de apertar botão
//	timeup <sala>        encerra a rodada de apertar botão
func main() {
	if len(os.Args) < 2 {
		log.Fatalf("uso: %s <session_id> [host:porta]", os.Args[0])
	}
	sessionID := os.Args[1]

	addr := "localhost:8080"
	if len(os.Args) >= 3 {
		addr = os.Args[2]
	}

	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws/pvp/match/" + sessionID}
	log.Printf("Conectando em %s", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Falha ao conectar: %v", err)
	}
	defer conn.Close()

	// Goroutine de leitura: imprime tudo que o servidor mandar.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				log.Printf("Conexão encerrada: %v", err)
				return
			}
			fmt.Printf("<< %s\n", data)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-done:
			return
		default:
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		var msg map[string]any
		switch fields[0] {
		case "join":
			bet := 0
			if len(fields) > 1 {
				bet, _ = strconv.Atoi(fields[1])
			}
			msg = map[string]any{"action": "join_queue", "bet_amount": bet}

		case "leave":
			msg = map[string]any{"action": "leave_queue"}

		case "select":
			if len(fields) < 3 {
				fmt.Println("uso: select <sala> <copo>")
				continue
			}
			cup, _ := strconv.Atoi(fields[2])
			msg = map[string]any{
				"action": "game_action", "room_id": fields[1],
				"game_action": "select", "payload": map[string]int{"cup_index": cup},
			}

		case "hit":
			if len(fields) < 2 {
				fmt.Println("uso: hit <sala>")
				continue
			}
			msg = map[string]any{"action": "game_action", "room_id": fields[1], "game_action": "hit"}

		case "score":
			if len(fields) < 3 {
				fmt.Println("uso: score <sala> <n>")
				continue
			}
			score, _ := strconv.Atoi(fields[2])
			msg = map[string]any{
				"action": "game_action", "room_id": fields[1],
				"game_action": "score", "payload": map[string]int{"score": score},
			}

		case "timeup":
			if len(fields) < 2 {
				fmt.Println("uso: timeup <sala>")
				continue
			}
			msg = map[string]any{"action": "game_action", "room_id": fields[1], "game_action": "time_up"}

		default:
			fmt.Println("comando desconhecido:", fields[0])
			continue
		}

		data, _ := json.Marshal(msg)
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Erro de escrita: %v", err)
			return
		}
	}
}
