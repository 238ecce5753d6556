package network

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"heartduel/internal/logging"
	"heartduel/internal/services/store"
)

// Rota do endpoint de matching PvP. O id da sessão vem no final do caminho.
const MatchPath = "/ws/pvp/match/"

// Limite de tamanho de uma mensagem de jogo. Ações de minigame são pequenas;
// nada legítimo chega perto disso.
const maxMessageSize = 4096

// Códigos de fechamento usados na validação de conexão.
const (
	CloseSessionNotFound = 4004
	CloseSessionEnded    = 4001
)

// Server é o ponto de entrada de rede: faz o upgrade para WebSocket, valida a
// sessão de jogo contra o Session Store e entrega o cliente ao Hub.
type Server struct {
	hub      *Hub
	sessions store.SessionStore
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Qualquer origem pode conectar; autenticação é pela sessão, não pelo Origin.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func NewServer(handler EventHandler, sessions store.SessionStore) *Server {
	return &Server{
		hub:      NewHub(handler),
		sessions: sessions,
	}
}

// wsHandler valida a sessão e promove a conexão.
//
// Precondições fatais só para esta conexão: sessão inexistente fecha com
// 4004, sessão já encerrada fecha com 4001. Nenhum efeito nas demais.
func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimPrefix(r.URL.Path, MatchPath)
	if sessionID == "" || strings.Contains(sessionID, "/") {
		http.Error(w, "missing session id", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("[Server] erro no upgrade da conexão: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sess, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			closeWith(conn, CloseSessionNotFound, "Game session not found")
		} else {
			logging.Error("[Server] erro ao consultar sessão %s: %v", sessionID, err)
			closeWith(conn, websocket.CloseInternalServerErr, "session lookup failed")
		}
		return
	}
	if sess.Status != store.StatusPlaying {
		closeWith(conn, CloseSessionEnded, "Game already ended")
		return
	}

	client := &Client{
		conn:    conn,
		hub:     s.hub,
		session: sess,
		send:    make(chan any, 256),
	}

	client.hub.register <- client

	go client.writeLoop()
	go client.readLoop()
}

// closeWith envia um close frame com código e motivo e fecha a conexão.
func closeWith(conn *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(writeWait)
	conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	conn.Close()
}

// Handler expõe o handler HTTP do endpoint de matching, para o main montar o
// mux junto com o /health.
func (s *Server) Handler() http.HandlerFunc {
	return s.wsHandler
}

// Listen inicia a goroutine do Hub e o servidor HTTP. Bloqueante.
func (s *Server) Listen(address string) error {
	go s.hub.Run()

	http.HandleFunc(MatchPath, s.wsHandler)

	logging.Info("[Server] WebSocket PvP escutando em ws://%s%s{session_id}", address, MatchPath)
	return http.ListenAndServe(address, nil)
}

// Run inicia apenas a goroutine do Hub, para quem monta o servidor HTTP por
// fora (testes e o main com mux próprio).
func (s *Server) Run() {
	go s.hub.Run()
}
