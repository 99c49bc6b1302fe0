package calib

// SingleSensorCalibration aggregates the antenna, coupling, waveform and
// heatmap records of one radar variant and derives the scalar inter-antenna
// spacing factor at construction. It is immutable once built.
type SingleSensorCalibration struct {
	Antenna  *AntennaLayout
	Coupling *CouplingCalibration
	Waveform *WaveformParameters
	Heatmap  *HeatmapGeometry

	// spacingFactor is the optimal inter-antenna distance in units of the
	// design wavelength, computed once here and never recomputed.
	spacingFactor float64
}

// SingleSensorPaths names the calibration files of one single-variant sensor.
type SingleSensorPaths struct {
	Antenna  string
	Coupling string
	Waveform string
	Heatmap  string
}

// LoadSingleSensorCalibration loads the four records from their files and
// constructs the calibration. Any loader failure is fatal and propagates
// unchanged.
func LoadSingleSensorCalibration(paths SingleSensorPaths) (*SingleSensorCalibration, error) {
	antenna, err := LoadAntennaLayout(paths.Antenna)
	if err != nil {
		return nil, err
	}
	coupling, err := LoadCouplingCalibration(paths.Coupling)
	if err != nil {
		return nil, err
	}
	waveform, err := LoadWaveformParameters(paths.Waveform)
	if err != nil {
		return nil, err
	}
	heatmap, err := LoadHeatmapGeometry(paths.Heatmap)
	if err != nil {
		return nil, err
	}
	return NewSingleSensorCalibration(antenna, coupling, waveform, heatmap), nil
}

// NewSingleSensorCalibration builds the calibration from already-validated
// records and derives the spacing factor.
func NewSingleSensorCalibration(antenna *AntennaLayout, coupling *CouplingCalibration,
	waveform *WaveformParameters, heatmap *HeatmapGeometry) *SingleSensorCalibration {

	// Sweep time of one chirp, then the mid-chirp transmit frequency. Start
	// frequency and slope come from the file in Hz and Hz/s; both are taken
	// to GHz terms explicitly before meeting the GHz design frequency.
	startGHz := waveform.StartFrequency / 1e9
	slopeGHzPerSec := waveform.FrequencySlope / 1e9
	sweepTime := float64(waveform.NumADCSamplesPerChirp) / waveform.ADCSampleFrequency
	fMid := startGHz + slopeGHzPerSec*sweepTime/2

	return &SingleSensorCalibration{
		Antenna:       antenna,
		Coupling:      coupling,
		Waveform:      waveform,
		Heatmap:       heatmap,
		spacingFactor: 0.5 * fMid / antenna.DesignFrequencyGHz,
	}
}

// SpacingFactor reports the derived optimal antenna spacing in units of the
// design wavelength.
func (s *SingleSensorCalibration) SpacingFactor() float64 { return s.spacingFactor }

// CouplingTensor reshapes the flat coupling capture into the real correction
// tensor of shape [numTx, numRx, 1, numADCSamplesPerChirp], sample index
// fastest. The downstream pipeline subtracts it from the per-channel range
// spectrum to cancel static antenna-coupling leakage.
func (s *SingleSensorCalibration) CouplingTensor() (*Tensor4, error) {
	numTx := s.Coupling.NumTx
	numRx := s.Coupling.NumRx
	samples := s.Waveform.NumADCSamplesPerChirp

	want := numTx * numRx * samples
	if len(s.Coupling.Data) != want {
		return nil, &ShapeMismatchError{What: "coupling data", Want: want, Got: len(s.Coupling.Data)}
	}
	data := make([]float64, want)
	copy(data, s.Coupling.Data)
	return newTensor4([4]int{numTx, numRx, 1, samples}, data), nil
}
