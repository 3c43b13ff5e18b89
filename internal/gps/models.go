package gps

import (
	"time"

	"backend-gpstrack/internal/session"
)

// Report is one classified device observation as stored and queried.
type Report struct {
	ID         string    `json:"id"`
	DeviceID   string    `json:"device_id"`
	UserID     string    `json:"user_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Speed      float64   `json:"speed"`
	Altitude   float64   `json:"altitude"`
	Heading    float64   `json:"heading"`
	Address    string    `json:"address"`
	Status     string    `json:"status"`
	ObservedAt time.Time `json:"observed_at"`
}

// Input is a raw report as submitted by a device or caller. UserID is
// stamped from the authenticated request, never from the payload.
type Input struct {
	DeviceID   string    `json:"device_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Speed      float64   `json:"speed"`
	Altitude   float64   `json:"altitude"`
	Heading    float64   `json:"heading"`
	ObservedAt time.Time `json:"observed_at"`
	UserID     string    `json:"-"`
}

type Result struct {
	ID      string           `json:"id"`
	Status  string           `json:"status"`
	Session session.Snapshot `json:"session"`
}

// Event is the wire shape broadcast to live observers.
type Event struct {
	Type       string    `json:"type"`
	DeviceID   string    `json:"device_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Speed      float64   `json:"speed"`
	Status     string    `json:"status"`
	ObservedAt time.Time `json:"observed_at"`
}

const EventTypeUpdate = "gps_update"
