package main

import (
	"encoding/json"
	"sync"
)

type Hub struct {
	mu              sync.Mutex
	clients         map[*Client]struct{}
	broadcastSolve  chan solveResponse
	broadcastStatus chan memoCacheStatusResponse
	sendBuffer      int
}

type Client struct {
	hub  *Hub
	send chan []byte
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func NewHub(sendBuffer int) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = 16
	}
	return &Hub{
		clients:         make(map[*Client]struct{}),
		broadcastSolve:  make(chan solveResponse, 32),
		broadcastStatus: make(chan memoCacheStatusResponse, 8),
		sendBuffer:      sendBuffer,
	}
}

func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case payload := <-h.broadcastSolve:
			h.mu.Lock()
			for client := range h.clients {
				client.sendJSON(wsMessage{Type: "solve", Payload: mustMarshal(payload)})
			}
			h.mu.Unlock()
		case payload := <-h.broadcastStatus:
			h.mu.Lock()
			for client := range h.clients {
				client.sendJSON(wsMessage{Type: "cache_status", Payload: mustMarshal(payload)})
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func (h *Hub) PublishSolve(payload solveResponse) {
	select {
	case h.broadcastSolve <- payload:
	default:
	}
}

func (h *Hub) PublishStatus(payload memoCacheStatusResponse) {
	select {
	case h.broadcastStatus <- payload:
	default:
	}
}

func (c *Client) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}
