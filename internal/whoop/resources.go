package whoop

import "time"

// API resource paths, relative to the developer API base URL.
const (
	ResourceCycles          = "/v1/cycle"
	ResourceRecoveries      = "/v1/recovery"
	ResourceSleeps          = "/v1/activity/sleep"
	ResourceWorkouts        = "/v1/activity/workout"
	ResourceProfile         = "/v1/user/profile/basic"
	ResourceBodyMeasurement = "/v1/user/measurement/body"
)

// pageLimit is the maximum record count WHOOP allows per collection page.
const pageLimit = 25

// PageParams select one page of a collection resource.
type PageParams struct {
	Start     time.Time
	End       time.Time
	Limit     int
	NextToken string
}

// page is the WHOOP collection envelope. NextToken is empty on the last
// page.
type page[T any] struct {
	Records   []T    `json:"records"`
	NextToken string `json:"next_token"`
}
