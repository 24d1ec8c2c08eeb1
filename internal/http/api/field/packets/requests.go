package packets

import "time"

// ReadingRequest is one humidity sample from a field controller. Value is a
// pointer so 0 is distinguishable from absent.
type ReadingRequest struct {
	ZoneID  int       `json:"zone_id" binding:"required"`
	Value   *float64  `json:"value" binding:"required"`
	TakenAt time.Time `json:"taken_at"`
}
