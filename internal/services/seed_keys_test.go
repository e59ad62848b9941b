package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModePrefix(t *testing.T) {
	assert.Equal(t, "M", ModePrefix("metro"))
	assert.Equal(t, "T", ModePrefix("tram"))
	assert.Equal(t, "B", ModePrefix("bus"))
}

func TestLineCode(t *testing.T) {
	assert.Equal(t, "LINE_M_A", LineCode("metro", "A"))
	assert.Equal(t, "LINE_B_500", LineCode("bus", "500"))
}

func TestVehicleAndDriverKeys(t *testing.T) {
	assert.Equal(t, "VEH_LINE_M_A_01", VehicleKey("LINE_M_A", 1))
	assert.Equal(t, "VEH_LINE_B_500_02", VehicleKey("LINE_B_500", 2))
	assert.Equal(t, "DRV_LINE_M_A_01", DriverKey("LINE_M_A", 1))
	assert.Equal(t, "ASG_LINE_M_A_02", AssignmentKey("LINE_M_A", 2))
}

func TestStopKey(t *testing.T) {
	assert.Equal(t, "M_STOP_TRINDADE", StopKey("metro", "TRINDADE"))
	assert.Equal(t, "B_STOP_ALIADOS", StopKey("bus", "ALIADOS"))
}

func TestKeysAreDeterministic(t *testing.T) {
	assert.Equal(t, VehicleKey("LINE_M_A", 1), VehicleKey("LINE_M_A", 1))
	assert.NotEqual(t, VehicleKey("LINE_M_A", 1), VehicleKey("LINE_M_A", 2))
}
