package calib

import "testing"

func TestCascadeDeviceOrder(t *testing.T) {
	// The physical row ordering of the cascade board is fixed hardware
	// wiring; a change here would silently scramble every channel mapping.
	if CascadeDeviceOrder != [4]int{4, 1, 3, 2} {
		t.Fatalf("CascadeDeviceOrder = %v, want [4 1 3 2]", CascadeDeviceOrder)
	}
}

func TestDeviceForRow(t *testing.T) {
	// 16 rx and 12 tx across 4 devices: blocks of 4 and 3 rows.
	layout := &AntennaLayout{NumRx: 16, NumTx: 12}

	rxTests := []struct {
		row  int
		want int
	}{
		{0, 4}, {3, 4}, {4, 1}, {7, 1}, {8, 3}, {11, 3}, {12, 2}, {15, 2},
		{-1, 0}, {16, 0},
	}
	for _, tt := range rxTests {
		if got := layout.DeviceForRxRow(tt.row); got != tt.want {
			t.Errorf("DeviceForRxRow(%d) = %d, want %d", tt.row, got, tt.want)
		}
	}

	txTests := []struct {
		row  int
		want int
	}{
		{0, 4}, {2, 4}, {3, 1}, {6, 3}, {9, 2}, {11, 2},
	}
	for _, tt := range txTests {
		if got := layout.DeviceForTxRow(tt.row); got != tt.want {
			t.Errorf("DeviceForTxRow(%d) = %d, want %d", tt.row, got, tt.want)
		}
	}

	// A single-chip layout does not split across cascade devices.
	single := &AntennaLayout{NumRx: 3, NumTx: 2}
	if got := single.DeviceForRxRow(0); got != 0 {
		t.Errorf("DeviceForRxRow(0) on 3-rx layout = %d, want 0", got)
	}
}
