package model

// Action is a human-friendly battery mode for one hour.
// Keep these values stable; they are intended for CSV output.
type Action string

const (
	ActionCharging     Action = "CHARGING"
	ActionGridCharging Action = "GRID_CHARGING"
	ActionIdle         Action = "IDLE"
	ActionDischarging  Action = "DISCHARGING"
)

// ActionFromFlows picks the dominant battery mode for an hour.
// Grid charging is reported whenever any grid energy went into the battery.
func ActionFromFlows(solarCharge, discharge, gridCharge float64) Action {
	switch {
	case gridCharge > 0:
		return ActionGridCharging
	case solarCharge > 0:
		return ActionCharging
	case discharge > 0:
		return ActionDischarging
	default:
		return ActionIdle
	}
}
