package calib

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Unit conversions between the factory calibration capture and the operating
// waveform. The capture tool records the chirp slope in MHz/us and the ADC
// rate in ksps; the waveform file carries Hz/s and Hz. Both sides are taken
// to Hz terms before any ratio is formed.
const (
	megahertzPerMicrosecondToHzPerSec = 1e12
	kspsToHz                          = 1e3
)

// MultiChipSensorCalibration is the cascade-rig calibration: the single-chip
// record set plus the factory phase/frequency capture. The embedded
// SingleSensorCalibration contributes SpacingFactor and CouplingTensor; the
// phase and frequency corrections exist only on this variant.
type MultiChipSensorCalibration struct {
	*SingleSensorCalibration
	Phase *PhaseFrequencyCalibration
}

// MultiChipSensorPaths names the calibration files of the cascade sensor.
type MultiChipSensorPaths struct {
	SingleSensorPaths
	Phase string
}

// LoadMultiChipSensorCalibration loads the five records from their files and
// constructs the cascade calibration.
func LoadMultiChipSensorCalibration(paths MultiChipSensorPaths) (*MultiChipSensorCalibration, error) {
	single, err := LoadSingleSensorCalibration(paths.SingleSensorPaths)
	if err != nil {
		return nil, err
	}
	phase, err := LoadPhaseFrequencyCalibration(paths.Phase)
	if err != nil {
		return nil, err
	}
	return NewMultiChipSensorCalibration(single, phase), nil
}

// NewMultiChipSensorCalibration builds the cascade calibration from
// already-validated parts.
func NewMultiChipSensorCalibration(single *SingleSensorCalibration, phase *PhaseFrequencyCalibration) *MultiChipSensorCalibration {
	return &MultiChipSensorCalibration{SingleSensorCalibration: single, Phase: phase}
}

// PhaseTensor synthesizes the complex phase-correction tensor of shape
// [numTx, numRx, 1, 1]. Channel 0 (first tx, first rx) is the reference
// phasor; every channel's correction is reference/phasor so that after
// elementwise multiplication the residual phase offset relative to channel 0
// is removed. The reference channel itself maps to exactly 1+0i.
func (c *MultiChipSensorCalibration) PhaseTensor() (*ComplexTensor4, error) {
	channels := c.Phase.numChannels()
	pm := c.Phase.PhaseCalibrationMatrix
	if len(pm) != 2*channels {
		return nil, &ShapeMismatchError{What: "phase calibration matrix", Want: 2 * channels, Got: len(pm)}
	}

	reference := complex(pm[0], pm[1])
	data := make([]complex128, channels)
	for ch := 0; ch < channels; ch++ {
		data[ch] = reference / complex(pm[2*ch], pm[2*ch+1])
	}
	return newComplexTensor4([4]int{c.Phase.NumTx, c.Phase.NumRx, 1, 1}, data), nil
}

// FrequencyTensor synthesizes the complex frequency-correction tensor of
// shape [numTx, numRx, 1, numADCSamplesPerChirp]. The calibration capture
// may have used a different chirp slope and ADC rate than the operating
// waveform, which shows up as a per-channel linear phase ramp across range
// samples; this tensor, multiplied elementwise against the range spectrum,
// removes that ramp.
//
// Each channel's scalar offset is the real part of its calibration sample.
// With delta the offset relative to channel 0 and k the dimensionless
// slope/rate scale factor, the per-channel ramp rate is
// 2*pi*delta*k/numSamples and the tensor value at sample n is
// exp(-i * rate * n).
func (c *MultiChipSensorCalibration) FrequencyTensor() (*ComplexTensor4, error) {
	channels := c.Phase.numChannels()
	fm := c.Phase.FrequencyCalibrationMatrix
	if len(fm) != 2*channels {
		return nil, &ShapeMismatchError{What: "frequency calibration matrix", Want: 2 * channels, Got: len(fm)}
	}
	samples := c.Waveform.NumADCSamplesPerChirp

	// Per-channel offsets relative to the reference channel.
	deltas := make([]float64, channels)
	for ch := 0; ch < channels; ch++ {
		deltas[ch] = fm[2*ch]
	}
	floats.AddConst(-deltas[0], deltas)

	// Both ratios are formed in Hz terms so k is dimensionless by
	// construction rather than by incidental unit cancellation.
	calSlope := c.Phase.FrequencySlope * megahertzPerMicrosecondToHzPerSec
	calRate := c.Phase.SamplingRate * kspsToHz
	k := (c.Waveform.FrequencySlope / calSlope) * (calRate / c.Waveform.ADCSampleFrequency)
	floats.Scale(2*math.Pi*k/float64(samples), deltas)

	data := make([]complex128, channels*samples)
	for ch, rate := range deltas {
		for n := 0; n < samples; n++ {
			phi := rate * float64(n)
			data[ch*samples+n] = complex(math.Cos(phi), -math.Sin(phi))
		}
	}
	return newComplexTensor4([4]int{c.Phase.NumTx, c.Phase.NumRx, 1, samples}, data), nil
}
