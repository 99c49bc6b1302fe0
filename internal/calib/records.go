package calib

// AntennaPosition is one antenna element of the array layout, positioned in
// units of half the design wavelength.
type AntennaPosition struct {
	Index                    int
	AzimuthHalfWavelengths   float64
	ElevationHalfWavelengths float64
}

// AntennaLayout describes the physical rx/tx element arrangement of one
// sensor. For the cascade variant the row order of RxPositions and
// TxPositions follows CascadeDeviceOrder, exactly as written in the layout
// file.
type AntennaLayout struct {
	NumRx              int
	NumTx              int
	DesignFrequencyGHz float64 // PCB design base frequency
	RxPositions        []AntennaPosition
	TxPositions        []AntennaPosition
}

// CouplingCalibration holds the static antenna-coupling capture: one real
// sample per (tx, rx, range sample). Data is flat in tx-major, rx-minor,
// sample-fastest order.
type CouplingCalibration struct {
	NumRx          int
	NumTx          int
	NumRangeBins   int
	NumDopplerBins int
	Data           []float64
}

// WaveformParameters describes the operating FMCW chirp. Frequencies are in
// Hz, the slope in Hz/s and times in seconds.
type WaveformParameters struct {
	NumRx                 int
	NumTx                 int
	NumADCSamplesPerChirp int
	NumChirpsPerFrame     int
	ADCSampleFrequency    float64
	StartFrequency        float64
	IdleTime              float64
	ADCStartTime          float64
	RampEndTime           float64
	FrequencySlope        float64
}

// HeatmapGeometry describes the bin grid of the recorded range/azimuth/
// elevation heatmaps.
type HeatmapGeometry struct {
	NumRangeBins     int
	NumElevationBins int
	NumAzimuthBins   int
	RangeBinWidth    float64
	AzimuthBins      []float64
	ElevationBins    []float64
}

// PhaseFrequencyCalibration holds the factory phase/frequency capture of the
// cascade rig. Both matrices are interleaved re/im pairs, one complex sample
// per channel in tx-major, rx-minor order, so each has length
// 2*NumTx*NumRx. FrequencySlope is the calibration-time chirp slope in
// MHz/us and SamplingRate the calibration-time ADC rate in ksps; both may
// differ from the operating WaveformParameters and are normalized to Hz
// terms before use.
type PhaseFrequencyCalibration struct {
	NumRx                      int
	NumTx                      int
	FrequencySlope             float64
	SamplingRate               float64
	FrequencyCalibrationMatrix []float64
	PhaseCalibrationMatrix     []float64
}

// numChannels reports the MIMO channel count of the capture.
func (p *PhaseFrequencyCalibration) numChannels() int {
	return p.NumTx * p.NumRx
}
