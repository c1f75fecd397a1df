package ws

// Hub maintains the set of active clients and broadcasts messages to the
// clients of a channel.

type clients map[*Client]bool

type Hub struct {
	clients  clients
	channels map[string]clients

	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMessage
}

type broadcastMessage struct {
	channel string
	data    []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(clients),
		channels:   make(map[string]clients),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMessage),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			if _, ok := h.channels[client.channel]; !ok {
				h.channels[client.channel] = make(clients)
			}
			h.channels[client.channel][client] = true

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.disconnect(client)
			}

		case msg := <-h.broadcast:
			for client := range h.channels[msg.channel] {
				select {
				case client.send <- msg.data:
				default:
					h.disconnect(client)
				}
			}
		}
	}
}

// BroadcastToChannel delivers a message to all clients joined to channel.
// Slow clients are dropped rather than blocking the hub.
func (h *Hub) BroadcastToChannel(channel string, message []byte) {
	h.broadcast <- broadcastMessage{channel: channel, data: message}
}

func (h *Hub) disconnect(client *Client) {
	delete(h.clients, client)
	delete(h.channels[client.channel], client)
	close(client.send)
}
