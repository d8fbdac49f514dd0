package shared

import (
	"time"
)

// ValidationFilter provides filtering options for listing validation records
type ValidationFilter struct {
	Tier         string
	ActualIntent string
	WasCorrect   *bool
	StartTime    *time.Time
	EndTime      *time.Time
	Limit        int
	Offset       int
}

// ProbeFilter provides filtering options for listing probe results
type ProbeFilter struct {
	ProviderID string
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int
}
