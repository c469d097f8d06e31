package coverage

import "errors"

var (
	// ErrInvalidPolygon is returned before any sweep work when the input
	// ring has fewer than 3 vertices or is otherwise unusable. Retrying
	// without fixing the polygon will not help.
	ErrInvalidPolygon = errors.New("invalid polygon")

	// ErrPlanningFailed is returned when every sampled sweep orientation
	// produced an empty path. The caller may retry with a different
	// spacing or more angle samples; the planner never retries on its own.
	ErrPlanningFailed = errors.New("coverage planning failed")
)
