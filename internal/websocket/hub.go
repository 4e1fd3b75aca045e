package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/ikkim/web-ordering-backend/internal/app/ordering"
	"github.com/ikkim/web-ordering-backend/pkg/logger"
)

const (
	// Rate limiting: 최대 메시지 수 (1초당)
	maxMessagesPerSecond = 10

	MessageSelectionAction = "selection_action"
	EventError             = "error"
)

// ClientMessage 클라이언트로부터 받은 메시지
type ClientMessage struct {
	Type            string          `json:"type"` // selection_action
	CustomizationID string          `json:"customization_id"`
	Action          ordering.Action `json:"action"`
}

// Event 클라이언트로 보내는 메시지
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	SentAt  time.Time   `json:"sent_at"`
}

// MessageHandler applies a client message on behalf of a session. Results are
// delivered through Publish; a returned error is sent back to the sender only.
type MessageHandler func(sessionID string, msg ClientMessage) error

// Client WebSocket 클라이언트
type Client struct {
	Hub           *Hub
	Conn          *Conn
	SessionID     string
	Send          chan []byte
	MessageCount  int       // 최근 1초간 받은 메시지 수
	LastResetTime time.Time // 마지막 카운터 리셋 시간
	RateMu        sync.Mutex
}

// Hub WebSocket 연결 관리자
type Hub struct {
	// 세션별 클라이언트들 (한 세션에 여러 탭 가능)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage

	handler MessageHandler

	mu sync.RWMutex
}

// BroadcastMessage 세션 단위 메시지
type BroadcastMessage struct {
	SessionID string
	Message   []byte
}

// NewHub Hub 생성
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *BroadcastMessage, 1024),
	}
}

// SetHandler wires incoming client messages. Must be called before Run.
func (h *Hub) SetHandler(handler MessageHandler) {
	h.handler = handler
}

// Run Hub 실행
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			count := len(h.clients[client.SessionID])
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"session_id":  client.SessionID,
				"connections": count,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			remaining := 0
			if clientList, ok := h.clients[client.SessionID]; ok {
				newList := make([]*Client, 0, len(clientList))
				found := false
				for _, c := range clientList {
					if c == client {
						found = true
						continue
					}
					newList = append(newList, c)
				}

				if len(newList) == 0 {
					delete(h.clients, client.SessionID)
				} else {
					h.clients[client.SessionID] = newList
				}
				remaining = len(newList)

				// 중복 해제 시 채널을 두 번 닫지 않도록
				if found {
					close(client.Send)
				}
			}
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"session_id":  client.SessionID,
				"connections": remaining,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients[message.SessionID] {
				select {
				case client.Send <- message.Message:
				default:
					// Send 채널이 막혀있음 - 비동기로 정리
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"session_id": message.SessionID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish sends an event to every connection of the session. Events for
// sessions without connections are dropped.
func (h *Hub) Publish(sessionID, eventType string, payload interface{}) {
	data, err := encodeEvent(eventType, payload)
	if err != nil {
		logger.Error("Failed to marshal event", err, map[string]interface{}{
			"type": eventType,
		})
		return
	}

	select {
	case h.broadcast <- &BroadcastMessage{SessionID: sessionID, Message: data}:
	default:
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"session_id": sessionID,
			"type":       eventType,
		})
	}
}

func encodeEvent(eventType string, payload interface{}) ([]byte, error) {
	return json.Marshal(Event{Type: eventType, Payload: payload, SentAt: time.Now().UTC()})
}

// Register 클라이언트 등록
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister 클라이언트 등록 해제
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Connections 세션의 현재 연결 수
func (h *Hub) Connections(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// HandleClientMessage 클라이언트 메시지 처리
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	// Rate limiting 체크
	client.RateMu.Lock()
	now := time.Now()
	if now.Sub(client.LastResetTime) >= time.Second {
		client.MessageCount = 0
		client.LastResetTime = now
	}
	client.MessageCount++
	count := client.MessageCount
	client.RateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"session_id": client.SessionID,
			"count":      count,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"session_id": client.SessionID,
			"error":      err.Error(),
		})
		h.reply(client, "malformed message")
		return
	}

	if msg.Type != MessageSelectionAction || h.handler == nil {
		h.reply(client, "unsupported message type")
		return
	}

	if err := h.handler(client.SessionID, msg); err != nil {
		logger.Debug("Client message rejected", map[string]interface{}{
			"session_id":       client.SessionID,
			"customization_id": msg.CustomizationID,
			"error":            err.Error(),
		})
		h.reply(client, err.Error())
	}
}

// reply sends an error event to a single connection.
func (h *Hub) reply(client *Client, message string) {
	data, err := encodeEvent(EventError, map[string]string{"message": message})
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	// 이미 해제된 클라이언트는 Send가 닫혀 있음
	for _, c := range h.clients[client.SessionID] {
		if c != client {
			continue
		}
		select {
		case client.Send <- data:
		default:
		}
		return
	}
}
