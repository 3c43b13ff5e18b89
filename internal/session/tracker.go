package session

import (
	"hash/fnv"
	"sync"
	"time"

	"backend-gpstrack/internal/shared/geo"
)

const shardCount = 32

// Update is one classified report folded into a device's travel session.
type Update struct {
	Latitude   float64
	Longitude  float64
	Speed      float64
	Status     string
	ObservedAt time.Time
}

// Snapshot is an immutable view of a travel session.
type Snapshot struct {
	DeviceID        string     `json:"device_id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	TotalDistanceKm float64    `json:"total_distance_km"`
	MaxSpeed        float64    `json:"max_speed"`
	AvgSpeed        float64    `json:"avg_speed"`
	OverspeedCount  uint       `json:"overspeed_count"`
	LastLatitude    float64    `json:"last_latitude"`
	LastLongitude   float64    `json:"last_longitude"`
	ReportCount     uint64     `json:"report_count"`
}

type state struct {
	startTime       time.Time
	lastSeen        time.Time
	totalDistanceKm float64
	maxSpeed        float64
	avgSpeed        float64
	overspeedCount  uint
	lastLat         float64
	lastLng         float64
	reportCount     uint64
}

type shard struct {
	mu       sync.Mutex
	sessions map[string]*state
}

// Tracker owns the mapping of device id to its open travel session.
// Devices hash to independent shards so updates for different devices do
// not contend on one lock; updates for the same device serialize on the
// shard mutex.
type Tracker struct {
	idleTimeout time.Duration
	shards      [shardCount]shard
}

func NewTracker(idleTimeout time.Duration) *Tracker {
	t := &Tracker{idleTimeout: idleTimeout}
	for i := range t.shards {
		t.shards[i].sessions = make(map[string]*state)
	}
	return t
}

func (t *Tracker) shardFor(deviceID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(deviceID))
	return &t.shards[h.Sum32()%shardCount]
}

// Update folds a classified report into the device's open session, opening
// a fresh one when none exists or when the previous report is older than
// the idle timeout. It returns the resulting snapshot, whether a new
// session was opened, and the prior session closed by an idle gap (nil
// otherwise). A closed session's end time is the device's last observed
// activity, not the time the gap was noticed.
func (t *Tracker) Update(deviceID string, up Update) (Snapshot, bool, *Snapshot) {
	sh := t.shardFor(deviceID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	st, ok := sh.sessions[deviceID]
	opened := false
	var closed *Snapshot
	if !ok || up.ObservedAt.Sub(st.lastSeen) > t.idleTimeout {
		if ok {
			end := st.lastSeen
			prior := snapshotOf(deviceID, st, &end)
			closed = &prior
		}
		st = &state{
			startTime: up.ObservedAt,
			lastLat:   up.Latitude,
			lastLng:   up.Longitude,
		}
		sh.sessions[deviceID] = st
		opened = true
	} else {
		st.totalDistanceKm += geo.HaversineKm(st.lastLat, st.lastLng, up.Latitude, up.Longitude)
		st.lastLat = up.Latitude
		st.lastLng = up.Longitude
	}

	if up.Speed > st.maxSpeed {
		st.maxSpeed = up.Speed
	}
	st.reportCount++
	st.avgSpeed += (up.Speed - st.avgSpeed) / float64(st.reportCount)
	if up.Status == "overspeed" {
		st.overspeedCount++
	}
	st.lastSeen = up.ObservedAt

	return snapshotOf(deviceID, st, nil), opened, closed
}

// Current returns the open session for a device, if any.
func (t *Tracker) Current(deviceID string) (Snapshot, bool) {
	sh := t.shardFor(deviceID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	st, ok := sh.sessions[deviceID]
	if !ok {
		return Snapshot{}, false
	}
	return snapshotOf(deviceID, st, nil), true
}

// End closes the device's open session and returns the final snapshot with
// its end time set. Ending a device with no open session is a no-op.
func (t *Tracker) End(deviceID string, at time.Time) (Snapshot, bool) {
	sh := t.shardFor(deviceID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	st, ok := sh.sessions[deviceID]
	if !ok {
		return Snapshot{}, false
	}
	delete(sh.sessions, deviceID)
	return snapshotOf(deviceID, st, &at), true
}

func snapshotOf(deviceID string, st *state, end *time.Time) Snapshot {
	return Snapshot{
		DeviceID:        deviceID,
		StartTime:       st.startTime,
		EndTime:         end,
		TotalDistanceKm: st.totalDistanceKm,
		MaxSpeed:        st.maxSpeed,
		AvgSpeed:        st.avgSpeed,
		OverspeedCount:  st.overspeedCount,
		LastLatitude:    st.lastLat,
		LastLongitude:   st.lastLng,
		ReportCount:     st.reportCount,
	}
}
