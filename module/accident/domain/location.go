package domain

import "time"

type LocationEvent struct {
	DeviceID   string    `json:"device_id"`
	Lat        float64   `json:"latitude"`
	Lon        float64   `json:"longitude"`
	ReceivedAt time.Time `json:"received_at"`
}
