// Package calib loads per-sensor calibration descriptors for a multi-chip
// mmWave radar rig and synthesizes the correction tensors applied to raw ADC
// data before range/Doppler/angle processing: antenna-coupling subtraction,
// inter-chip phase normalization and inter-chip frequency (sampling-skew)
// compensation.
//
// Every record is constructed exactly once from validated file input and is
// immutable afterwards. The tensor-synthesis methods are pure functions of
// that validated state and may be called concurrently any number of times.
package calib

// CascadeDeviceOrder is the fixed physical-to-logical device mapping of the
// cascade array. The rx/tx rows of the cascade antenna layout file are
// ordered by this table, not by device number. Any channel reordering
// elsewhere in the system must apply the same table.
var CascadeDeviceOrder = [4]int{4, 1, 3, 2}

// DeviceForRxRow reports which physical device owns rx row i of a cascade
// layout: rows come in equal per-device blocks ordered by
// CascadeDeviceOrder. Returns 0 when the layout's rx count does not split
// evenly across the cascade devices (a single-chip layout).
func (a *AntennaLayout) DeviceForRxRow(i int) int {
	return cascadeDeviceForRow(i, a.NumRx)
}

// DeviceForTxRow is DeviceForRxRow for the tx rows.
func (a *AntennaLayout) DeviceForTxRow(i int) int {
	return cascadeDeviceForRow(i, a.NumTx)
}

func cascadeDeviceForRow(i, total int) int {
	perDevice := total / len(CascadeDeviceOrder)
	if perDevice == 0 || total%len(CascadeDeviceOrder) != 0 || i < 0 || i >= total {
		return 0
	}
	return CascadeDeviceOrder[i/perDevice]
}

// SensorCalibration is the capability shared by the single-chip and cascade
// calibration variants: both can report their derived antenna spacing and
// produce a coupling-correction tensor. Cascade-only corrections (phase,
// frequency) live on MultiChipSensorCalibration.
type SensorCalibration interface {
	// SpacingFactor reports the optimal inter-antenna spacing in units of
	// the design wavelength, derived once at construction.
	SpacingFactor() float64

	// CouplingTensor synthesizes the real-valued coupling-correction tensor
	// of shape [numTx, numRx, 1, numADCSamplesPerChirp]. The downstream
	// pipeline subtracts it from the per-channel range spectrum.
	CouplingTensor() (*Tensor4, error)
}
