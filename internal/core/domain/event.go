package domain

import (
	"fmt"
	"time"
)

// sensor ids published by the inverter bridge
const (
	SENSOR_ID_INVERTER_PV_POWER        = "inverter_pv_power"
	SENSOR_ID_INVERTER_AC_POWER_FLOW   = "inverter_ac_power_flow"
	SENSOR_ID_HOUSE_POWER              = "house_power"
	SENSOR_ID_BATTERY_SOC              = "battery_soc"
	SENSOR_ID_BATTERY_MAX_CAPACITY     = "battery_max_capacity"
	SENSOR_ID_BATTERY_CURRENT_CAPACITY = "battery_current_capacity"
	SENSOR_ID_BATTERY_CHARGE_POWER     = "battery_charge_power"
	SENSOR_ID_ACMETER_GRID_VOLTAGE     = "acmeter_grid_voltage"
	SENSOR_ID_INVERTER_OPERATING_STATE = "inverter_operating_state"
)

type SensorReadingEvent interface {
	SensorId() string
	ReadAt() time.Time
}

type SensorReadingMixIn struct {
	Id string
	At time.Time
}

func (e SensorReadingMixIn) SensorId() string {
	return e.Id
}

func (e SensorReadingMixIn) ReadAt() time.Time {
	return e.At
}

type FloatReadingEvent struct {
	SensorReadingMixIn
	Value float64
}

type BinaryReadingEvent struct {
	SensorReadingMixIn
	Value bool
}

type TextReadingEvent struct {
	SensorReadingMixIn
	Value string
}

type BridgeStateEvent struct {
	SensorReadingMixIn
	Online bool
}

func (e FloatReadingEvent) String() string {
	return fmt.Sprintf("%s=%g", e.Id, e.Value)
}

// ensure interface compliance
var _ SensorReadingEvent = (*FloatReadingEvent)(nil)
var _ SensorReadingEvent = (*BinaryReadingEvent)(nil)
var _ SensorReadingEvent = (*TextReadingEvent)(nil)
var _ SensorReadingEvent = (*BridgeStateEvent)(nil)
