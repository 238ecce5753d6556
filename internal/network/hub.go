package network

// clientMessage empacota uma mensagem com o cliente que a enviou.
type clientMessage struct {
	client *Client
	data   []byte
}

// Hub mantém o conjunto de clientes ativos e roteia eventos para o handler.
// Todos os campos são acessados SOMENTE pela goroutine do Hub, o que
// serializa naturalmente OnConnect/OnMessage/OnDisconnect da lógica do jogo.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	incoming   chan clientMessage

	handler EventHandler
}

func NewHub(handler EventHandler) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan clientMessage),
		handler:    handler,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.handler.OnConnect(client)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				// Fechar o canal 'send' é o sinal para o writeLoop daquele
				// cliente parar.
				close(client.send)
				h.handler.OnDisconnect(client)
			}

		case msg := <-h.incoming:
			h.handler.OnMessage(msg.client, msg.data)
		}
	}
}
