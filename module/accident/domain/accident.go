package domain

import "time"

// UnsetHospital marks an AlertState that no event has written yet.
const UnsetHospital = "N/A"

type AlertState struct {
	Lat        float64 `json:"latitude"`
	Lon        float64 `json:"longitude"`
	Hospital   string  `json:"hospital"`
	DistanceKm float64 `json:"distance"`
}

func EmptyAlertState() AlertState {
	return AlertState{Hospital: UnsetHospital}
}

type Accident struct {
	ID         string
	DeviceID   string
	Lat        float64
	Lon        float64
	Hospital   string
	DistanceKm float64
	OccurredAt time.Time
}

func (a *Accident) State() AlertState {
	return AlertState{
		Lat:        a.Lat,
		Lon:        a.Lon,
		Hospital:   a.Hospital,
		DistanceKm: a.DistanceKm,
	}
}
