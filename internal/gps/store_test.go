package gps

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

func TestStoreAppend(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	observedAt := time.Now().UTC()
	mock.ExpectExec(`INSERT INTO gps_reports`).
		WithArgs(pgxmock.AnyArg(), "D1", "user-1", -6.2, 106.8, 40.0, 12.0, 90.0, "", StatusMoving, observedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store := NewStore(mock)
	id, err := store.Append(context.Background(), Report{
		DeviceID: "D1", UserID: "user-1",
		Latitude: -6.2, Longitude: 106.8, Speed: 40, Altitude: 12, Heading: 90,
		Status: StatusMoving, ObservedAt: observedAt,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if id == "" {
		t.Fatalf("expected record id")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStoreAppendError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO gps_reports`).
		WillReturnError(errReport)

	store := NewStore(mock)
	id, err := store.Append(context.Background(), Report{DeviceID: "D1"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if id != "" {
		t.Fatalf("expected empty id on failure")
	}
}

func TestStoreLatest(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	observedAt := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, device_id, user_id, latitude, longitude, speed, altitude, heading, address, status, observed_at`).
		WithArgs("D1", "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "device_id", "user_id", "latitude", "longitude", "speed", "altitude", "heading", "address", "status", "observed_at"}).
			AddRow("rec-1", "D1", "user-1", -6.2, 106.8, 40.0, 0.0, 0.0, "", StatusMoving, observedAt))

	store := NewStore(mock)
	report, err := store.Latest(context.Background(), "user-1", "D1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if report.ID != "rec-1" || report.Status != StatusMoving {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestStoreLatestNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, device_id, user_id, latitude, longitude, speed, altitude, heading, address, status, observed_at`).
		WithArgs("D9", "user-1").
		WillReturnError(pgx.ErrNoRows)

	store := NewStore(mock)
	_, err = store.Latest(context.Background(), "user-1", "D9")
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows, got %v", err)
	}
}

func TestStoreHistory(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	newer := time.Now().UTC()
	older := newer.Add(-time.Minute)
	mock.ExpectQuery(`SELECT id, device_id, user_id, latitude, longitude, speed, altitude, heading, address, status, observed_at`).
		WithArgs("D1", "user-1", pgxmock.AnyArg(), pgxmock.AnyArg(), 50).
		WillReturnRows(pgxmock.NewRows([]string{"id", "device_id", "user_id", "latitude", "longitude", "speed", "altitude", "heading", "address", "status", "observed_at"}).
			AddRow("rec-2", "D1", "user-1", -6.21, 106.81, 60.0, 0.0, 0.0, "", StatusMoving, newer).
			AddRow("rec-1", "D1", "user-1", -6.2, 106.8, 0.0, 0.0, 0.0, "", StatusStopped, older))

	store := NewStore(mock)
	reports, err := store.History(context.Background(), "user-1", "D1", older, newer, 50)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if !reports[0].ObservedAt.After(reports[1].ObservedAt) {
		t.Fatalf("expected newest first")
	}
}

func TestStoreHistoryDefaultLimit(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, device_id, user_id, latitude, longitude, speed, altitude, heading, address, status, observed_at`).
		WithArgs("D1", "user-1", pgxmock.AnyArg(), pgxmock.AnyArg(), 100).
		WillReturnRows(pgxmock.NewRows([]string{"id", "device_id", "user_id", "latitude", "longitude", "speed", "altitude", "heading", "address", "status", "observed_at"}))

	store := NewStore(mock)
	if _, err := store.History(context.Background(), "user-1", "D1", time.Time{}, time.Time{}, 0); err != nil {
		t.Fatalf("history: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStoreHistoryQueryError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, device_id, user_id, latitude, longitude, speed, altitude, heading, address, status, observed_at`).
		WillReturnError(errReport)

	store := NewStore(mock)
	if _, err := store.History(context.Background(), "user-1", "D1", time.Time{}, time.Time{}, 10); err == nil {
		t.Fatalf("expected error")
	}
}

var errReport = errors.New("report error")
