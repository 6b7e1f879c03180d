package domain

// Fanout topology shared by the relay and its consumers.
const (
	EventExchange = "accident.events"
	EventQueue    = "accident_alerts"
)

type AccidentEvent struct {
	ID         string  `json:"id"`
	DeviceID   string  `json:"device_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Hospital   string  `json:"hospital"`
	DistanceKm float64 `json:"distance_km"`
	Timestamp  int64   `json:"timestamp"`
}

func NewAccidentEvent(a *Accident) AccidentEvent {
	return AccidentEvent{
		ID:         a.ID,
		DeviceID:   a.DeviceID,
		Latitude:   a.Lat,
		Longitude:  a.Lon,
		Hospital:   a.Hospital,
		DistanceKm: a.DistanceKm,
		Timestamp:  a.OccurredAt.Unix(),
	}
}
