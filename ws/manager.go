package ws

import (
	"context"
	"sync"

	"hiring_backend/internal/logger"
	"hiring_backend/internal/models"
	"hiring_backend/internal/services/dto"
)

const broadcastBuffer = 256

// WebSocketManager держит подключения сотрудников и раздает им события процесса найма.
// HR и Board Member получают все события, Manager - только касающиеся его.
type WebSocketManager struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan dto.WorkflowEvent
	done       chan struct{}
	mu         sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan dto.WorkflowEvent, broadcastBuffer),
		done:       make(chan struct{}),
	}
}

// Run обслуживает регистрацию и рассылку до отмены ctx
func (manager *WebSocketManager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(manager.done)
			manager.closeAll()
			logger.Info("WebSocket manager stopped")
			return

		case client := <-manager.register:
			manager.mu.Lock()
			set, ok := manager.clients[client.UserID]
			if !ok {
				set = make(map[*Client]struct{})
				manager.clients[client.UserID] = set
			}
			set[client] = struct{}{}
			manager.mu.Unlock()
			logger.Info("WebSocket client registered", "user_id", client.UserID, "role", client.Role, "total", manager.GetClientCount())

		case client := <-manager.unregister:
			manager.mu.Lock()
			manager.remove(client)
			manager.mu.Unlock()
			logger.Info("WebSocket client unregistered", "user_id", client.UserID, "total", manager.GetClientCount())

		case event := <-manager.broadcast:
			manager.broadcastEvent(event)
		}
	}
}

// Register добавляет клиента; false - менеджер уже остановлен
func (manager *WebSocketManager) Register(client *Client) bool {
	select {
	case manager.register <- client:
		return true
	case <-manager.done:
		return false
	}
}

// Unregister убирает клиента (после остановки менеджера ничего не делает)
func (manager *WebSocketManager) Unregister(client *Client) {
	select {
	case manager.unregister <- client:
	case <-manager.done:
	}
}

// Publish реализует services.EventPublisher. Не блокирует: при переполненной
// очереди событие отбрасывается.
func (manager *WebSocketManager) Publish(event dto.WorkflowEvent) {
	select {
	case manager.broadcast <- event:
	default:
		logger.Warn("WebSocket broadcast queue is full, event dropped", "type", event.Type, "candidate_id", event.CandidateID)
	}
}

func (manager *WebSocketManager) broadcastEvent(event dto.WorkflowEvent) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	var slow []*Client
	for _, set := range manager.clients {
		for client := range set {
			if !shouldReceive(client, event) {
				continue
			}
			select {
			case client.Send <- event:
			default:
				slow = append(slow, client)
			}
		}
	}

	for _, client := range slow {
		logger.Warn("WebSocket client disconnected due to full send channel", "user_id", client.UserID)
		manager.remove(client)
	}
}

func shouldReceive(client *Client, event dto.WorkflowEvent) bool {
	switch client.Role {
	case models.DesignationHR, models.DesignationBoardMember:
		return true
	case models.DesignationManager:
		return event.ManagerID != "" && event.ManagerID == client.UserID
	default:
		return false
	}
}

// remove вызывается под mu.Lock
func (manager *WebSocketManager) remove(client *Client) {
	set, ok := manager.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	close(client.Send)
	delete(set, client)
	if len(set) == 0 {
		delete(manager.clients, client.UserID)
	}
}

func (manager *WebSocketManager) closeAll() {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	for _, set := range manager.clients {
		for client := range set {
			manager.remove(client)
		}
	}
}

// GetClientCount возвращает количество подключений
func (manager *WebSocketManager) GetClientCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	total := 0
	for _, set := range manager.clients {
		total += len(set)
	}
	return total
}

// IsClientConnected проверяет, есть ли у пользователя хотя бы одно подключение
func (manager *WebSocketManager) IsClientConnected(userID string) bool {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	_, exists := manager.clients[userID]
	return exists
}
