package gps

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"time"

	"backend-gpstrack/internal/session"
	"backend-gpstrack/internal/stream"
)

var nowFn = time.Now

// Service runs the location-event pipeline: validate, classify, fold into
// the travel session, append durably, broadcast live.
type Service struct {
	store      *Store
	tracker    *session.Tracker
	hub        *stream.Hub
	speedLimit float64
}

func NewService(store *Store, tracker *session.Tracker, hub *stream.Hub, speedLimitKph float64) *Service {
	return &Service{
		store:      store,
		tracker:    tracker,
		hub:        hub,
		speedLimit: speedLimitKph,
	}
}

// Ingest processes one raw report. A persistence failure is returned to
// the caller but does not hold back the live broadcast; broadcast
// problems never surface here at all.
func (s *Service) Ingest(ctx context.Context, in Input) (Result, error) {
	if err := validate(in); err != nil {
		return Result{}, err
	}

	observedAt := in.ObservedAt
	if observedAt.IsZero() {
		observedAt = nowFn().UTC()
	}

	status := Classify(in.Speed, s.speedLimit)

	snap, _, prior := s.tracker.Update(in.DeviceID, session.Update{
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
		Speed:      in.Speed,
		Status:     status,
		ObservedAt: observedAt,
	})
	if prior != nil {
		log.Printf("device %s: session closed after idle gap, %.3f km", in.DeviceID, prior.TotalDistanceKm)
	}

	report := Report{
		DeviceID:   in.DeviceID,
		UserID:     in.UserID,
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
		Speed:      in.Speed,
		Altitude:   in.Altitude,
		Heading:    in.Heading,
		Status:     status,
		ObservedAt: observedAt,
	}

	var failure error
	id, err := s.store.Append(ctx, report)
	if err != nil {
		log.Printf("append report for device %s: %v", in.DeviceID, err)
		failure = &PersistenceError{Err: err}
	}

	s.publish(report)

	return Result{ID: id, Status: status, Session: snap}, failure
}

func (s *Service) publish(r Report) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(Event{
		Type:       EventTypeUpdate,
		DeviceID:   r.DeviceID,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		Speed:      r.Speed,
		Status:     r.Status,
		ObservedAt: r.ObservedAt,
	})
	if err != nil {
		return
	}
	s.hub.Publish(payload)
}

func (s *Service) Latest(ctx context.Context, userID, deviceID string) (Report, error) {
	return s.store.Latest(ctx, userID, deviceID)
}

func (s *Service) History(ctx context.Context, userID, deviceID string, from, to time.Time, limit int) ([]Report, error) {
	return s.store.History(ctx, userID, deviceID, from, to, limit)
}

// Jakarta city center, the simulation anchor.
const (
	simDeviceID = "SIM001"
	simBaseLat  = -6.2088
	simBaseLng  = 106.8456
)

// Simulate generates a pseudo-random report near the anchor point and
// runs it through the regular pipeline.
func (s *Service) Simulate(ctx context.Context, userID string) (Input, Result, error) {
	in := Input{
		DeviceID:  simDeviceID,
		Latitude:  simBaseLat + (rand.Float64()-0.5)*0.1,
		Longitude: simBaseLng + (rand.Float64()-0.5)*0.1,
		Speed:     rand.Float64() * 120,
		Altitude:  rand.Float64() * 100,
		Heading:   rand.Float64() * 360,
		UserID:    userID,
	}

	res, err := s.Ingest(ctx, in)
	return in, res, err
}

func validate(in Input) error {
	switch {
	case in.DeviceID == "":
		return &ValidationError{Field: "device_id", Reason: "required"}
	case in.Latitude < -90 || in.Latitude > 90:
		return &ValidationError{Field: "latitude", Reason: "must be between -90 and 90"}
	case in.Longitude < -180 || in.Longitude > 180:
		return &ValidationError{Field: "longitude", Reason: "must be between -180 and 180"}
	case in.Speed < 0:
		return &ValidationError{Field: "speed", Reason: "must be non-negative"}
	}
	return nil
}
