package network

// EventHandler é a interface que conecta a camada de rede com a lógica PvP.
// O código do jogo (fora deste pacote) implementa esta interface.
type EventHandler interface {
	// OnConnect é chamado quando um cliente passa pela validação de sessão
	// e é registrado no Hub.
	OnConnect(c *Client)

	// OnDisconnect é chamado quando um cliente se desconecta, normal ou
	// anormalmente. É aqui que a lógica de W.O. é disparada.
	OnDisconnect(c *Client)

	// OnMessage recebe o JSON cru de cada mensagem do cliente.
	OnMessage(c *Client, data []byte)
}
