package network

import (
	"net"
	"time"

	"github.com/gorilla/websocket"

	"heartduel/internal/logging"
	"heartduel/internal/services/store"
)

const (
	// Tempo para aguardar por uma escrita na conexão.
	writeWait = 10 * time.Second

	// Tempo máximo para aguardar por uma resposta de pong do cliente.
	pongWait = 60 * time.Second

	// Frequência com que enviamos pings para o cliente. Deve ser menor que pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// Client é a representação de um jogador conectado do ponto de vista do
// servidor: a conexão WebSocket, a sessão de jogo validada na entrada e o
// canal bufferizado de saída.
type Client struct {
	conn *websocket.Conn

	// Referência ao Hub central, usada para se desregistrar.
	hub *Hub

	// Sessão de jogo validada no momento do upgrade. Snapshot: a afeição aqui
	// é a do momento da conexão, não a ao vivo.
	session *store.GameSession

	// Canal bufferizado de mensagens de saída. O writeLoop consome daqui.
	// O buffer evita que a lógica do jogo bloqueie num cliente lento.
	send chan any
}

// Conn retorna a conexão de rede subjacente (útil para logar o endereço).
func (c *Client) Conn() net.Conn {
	return c.conn.UnderlyingConn()
}

// SessionID retorna o id da sessão de jogo deste cliente.
func (c *Client) SessionID() string {
	return c.session.SessionID
}

// Session retorna o snapshot da sessão feito na conexão.
func (c *Client) Session() *store.GameSession {
	return c.session
}

// Send expõe o canal de saída. Qualquer valor enviado aqui será serializado
// como JSON e entregue ao cliente.
func (c *Client) Send() chan<- any {
	return c.send
}

func (c *Client) readLoop() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	// Cada pong recebido renova o deadline de leitura, mantendo a conexão viva.
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				logging.Warn("[Client %s] erro inesperado de leitura: %v", c.SessionID(), err)
			}
			// Qualquer erro (desconexão normal ou anormal) encerra o loop.
			break
		}

		c.hub.incoming <- clientMessage{client: c, data: data}
	}
}

// writeLoop bombeia mensagens do canal 'send' para a conexão WebSocket.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			// Canal fechado pelo Hub: o cliente foi desregistrado.
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(msg); err != nil {
				logging.Warn("[Client %s] erro de escrita: %v", c.SessionID(), err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return // Se o ping falhar, a conexão está morta.
			}
		}
	}
}
