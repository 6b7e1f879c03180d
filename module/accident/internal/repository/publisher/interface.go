package publisher

import (
	"context"

	"github.com/bhavisha4779/accident-relay/module/accident/domain"
)

type AccidentPublisher interface {
	PublishAccident(ctx context.Context, a *domain.Accident) error
}
