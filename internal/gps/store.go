package gps

import (
	"context"
	"time"

	"backend-gpstrack/internal/db"

	"github.com/google/uuid"
)

// Store is the durable event log of classified reports.
type Store struct {
	db db.Querier
}

func NewStore(db db.Querier) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, r Report) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(ctx, `
		INSERT INTO gps_reports (id, device_id, user_id, latitude, longitude, speed, altitude, heading, address, status, observed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, id, r.DeviceID, r.UserID, r.Latitude, r.Longitude, r.Speed, r.Altitude, r.Heading, r.Address, r.Status, r.ObservedAt)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Latest(ctx context.Context, userID, deviceID string) (Report, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, device_id, user_id, latitude, longitude, speed, altitude, heading, address, status, observed_at
		FROM gps_reports
		WHERE device_id=$1 AND user_id=$2
		ORDER BY observed_at DESC
		LIMIT 1
	`, deviceID, userID)

	var r Report
	if err := row.Scan(&r.ID, &r.DeviceID, &r.UserID, &r.Latitude, &r.Longitude, &r.Speed, &r.Altitude, &r.Heading, &r.Address, &r.Status, &r.ObservedAt); err != nil {
		return Report{}, err
	}
	return r, nil
}

// History returns reports newest first. Zero from/to bounds are open ends.
func (s *Store) History(ctx context.Context, userID, deviceID string, from, to time.Time, limit int) ([]Report, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, device_id, user_id, latitude, longitude, speed, altitude, heading, address, status, observed_at
		FROM gps_reports
		WHERE device_id=$1 AND user_id=$2
		  AND ($3::timestamptz IS NULL OR observed_at >= $3)
		  AND ($4::timestamptz IS NULL OR observed_at <= $4)
		ORDER BY observed_at DESC
		LIMIT $5
	`, deviceID, userID, timePtr(from), timePtr(to), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var r Report
		if err := rows.Scan(&r.ID, &r.DeviceID, &r.UserID, &r.Latitude, &r.Longitude, &r.Speed, &r.Altitude, &r.Heading, &r.Address, &r.Status, &r.ObservedAt); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
