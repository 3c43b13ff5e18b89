package gps

const (
	StatusStopped   = "stopped"
	StatusMoving    = "moving"
	StatusOverspeed = "overspeed"
)

// Classify maps an instantaneous speed against the configured limit.
// Speed exactly at the limit is still moving.
func Classify(speed, limit float64) string {
	switch {
	case speed == 0:
		return StatusStopped
	case speed > limit:
		return StatusOverspeed
	default:
		return StatusMoving
	}
}
