package alarm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

type Buzzer struct {
	pin gpio.PinOut
}

func NewBuzzer(pin gpio.PinOut) *Buzzer {
	return &Buzzer{pin: pin}
}

func (b *Buzzer) Signal(ctx context.Context, d time.Duration) error {
	if err := b.pin.Out(gpio.High); err != nil {
		return fmt.Errorf("buzzer on: %w", err)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}

	if err := b.pin.Out(gpio.Low); err != nil {
		return fmt.Errorf("buzzer off: %w", err)
	}
	return nil
}

type Noop struct {
	log *slog.Logger
}

func NewNoop(log *slog.Logger) *Noop {
	return &Noop{log: log}
}

func (n *Noop) Signal(_ context.Context, d time.Duration) error {
	n.log.Debug("buzzer disabled, skipping alert", slog.Duration("duration", d))
	return nil
}

// OpenBuzzer resolves pinName on the host. Any failure degrades to Noop
// with a warning rather than an error.
func OpenBuzzer(pinName string, log *slog.Logger) Signaler {
	if _, err := host.Init(); err != nil {
		log.Warn("gpio host init failed, buzzer disabled", slog.Any("error", err))
		return NewNoop(log)
	}

	pin := gpioreg.ByName(pinName)
	if pin == nil {
		log.Warn("gpio pin not found, buzzer disabled", slog.String("pin", pinName))
		return NewNoop(log)
	}

	if err := pin.Out(gpio.Low); err != nil {
		log.Warn("gpio pin not writable, buzzer disabled", slog.String("pin", pinName), slog.Any("error", err))
		return NewNoop(log)
	}

	log.Info("buzzer ready", slog.String("pin", pin.Name()))
	return NewBuzzer(pin)
}
