package database

import (
	"context"

	"github.com/bhavisha4779/accident-relay/module/accident/domain"
)

type AccidentRepository interface {
	Insert(ctx context.Context, a *domain.Accident) error
	ListRecent(ctx context.Context, limit int) ([]domain.Accident, error)
}
