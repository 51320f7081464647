package services

import (
	"context"

	"hiring_backend/internal/services/dto"

	"gorm.io/gorm"
)

// EventPublisher доставляет события процесса найма подписчикам (websocket).
// Publish не должен блокировать вызывающий код.
type EventPublisher interface {
	Publish(event dto.WorkflowEvent)
}

type noopPublisher struct{}

func (noopPublisher) Publish(dto.WorkflowEvent) {}

// NoopPublisher - для CLI и тестов без websocket
func NoopPublisher() EventPublisher {
	return noopPublisher{}
}

// contextOf достает context запроса, привязанный к *gorm.DB через WithContext
func contextOf(db *gorm.DB) context.Context {
	if db != nil && db.Statement != nil && db.Statement.Context != nil {
		return db.Statement.Context
	}
	return context.Background()
}
