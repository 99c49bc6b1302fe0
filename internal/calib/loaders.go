package calib

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// The calibration files are the ones written by the capture tooling: small
// line-oriented key/value text files, except the phase/frequency capture
// which is a JSON document. Lines starting with "# " are comments. Each
// loader matches recognized keys against a fixed schema and fails on
// anything it does not know, so a typo in a capture file surfaces at load
// time instead of as a silently missing field.

func malformed(path, field, reason string, err error) *MalformedRecordError {
	return &MalformedRecordError{Path: path, Field: field, Reason: reason, Err: err}
}

// scanLines reads path and calls fn for every non-comment, non-blank line.
func scanLines(path string, fn func(line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return malformed(path, "", "cannot open", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	// Coupling data lines carry thousands of comma-separated floats.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "# ") {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return malformed(path, "", "read failed", err)
	}
	return nil
}

func parseIntField(path, field, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, malformed(path, field, "not an integer", err)
	}
	return n, nil
}

func parseFloatField(path, field, value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, malformed(path, field, "not a number", err)
	}
	return v, nil
}

// LoadAntennaLayout reads an antenna layout file: "num_rx N", "num_tx N" and
// "F_design GHz" scalars plus one "rx idx az el" / "tx idx az el" row per
// element, positions in half-wavelength units. Row order is preserved
// verbatim; for the cascade layout it encodes CascadeDeviceOrder.
func LoadAntennaLayout(path string) (*AntennaLayout, error) {
	layout := &AntennaLayout{NumRx: -1, NumTx: -1}
	seenDesign := false

	parseRow := func(field string, chunks []string) (AntennaPosition, error) {
		if len(chunks) != 4 {
			return AntennaPosition{}, malformed(path, field, fmt.Sprintf("want 4 fields, got %d", len(chunks)), nil)
		}
		idx, err := parseIntField(path, field, chunks[1])
		if err != nil {
			return AntennaPosition{}, err
		}
		az, err := parseFloatField(path, field, chunks[2])
		if err != nil {
			return AntennaPosition{}, err
		}
		el, err := parseFloatField(path, field, chunks[3])
		if err != nil {
			return AntennaPosition{}, err
		}
		return AntennaPosition{Index: idx, AzimuthHalfWavelengths: az, ElevationHalfWavelengths: el}, nil
	}

	err := scanLines(path, func(line string) error {
		chunks := strings.Fields(line)
		switch key := strings.ToLower(chunks[0]); key {
		case "rx":
			pos, err := parseRow("rx", chunks)
			if err != nil {
				return err
			}
			layout.RxPositions = append(layout.RxPositions, pos)
		case "tx":
			pos, err := parseRow("tx", chunks)
			if err != nil {
				return err
			}
			layout.TxPositions = append(layout.TxPositions, pos)
		case "num_rx", "num_tx", "f_design":
			if len(chunks) != 2 {
				return malformed(path, key, "want a single value", nil)
			}
			switch key {
			case "num_rx":
				n, err := parseIntField(path, key, chunks[1])
				if err != nil {
					return err
				}
				layout.NumRx = n
			case "num_tx":
				n, err := parseIntField(path, key, chunks[1])
				if err != nil {
					return err
				}
				layout.NumTx = n
			case "f_design":
				v, err := parseFloatField(path, key, chunks[1])
				if err != nil {
					return err
				}
				layout.DesignFrequencyGHz = v
				seenDesign = true
			}
		default:
			return malformed(path, chunks[0], "unrecognized key", nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if layout.NumRx < 0 {
		return nil, malformed(path, "num_rx", "missing", nil)
	}
	if layout.NumTx < 0 {
		return nil, malformed(path, "num_tx", "missing", nil)
	}
	if !seenDesign || layout.DesignFrequencyGHz <= 0 {
		return nil, malformed(path, "F_design", "missing or non-positive", nil)
	}
	if len(layout.RxPositions) != layout.NumRx {
		return nil, malformed(path, "rx", fmt.Sprintf("declared %d rx rows, found %d", layout.NumRx, len(layout.RxPositions)), nil)
	}
	if len(layout.TxPositions) != layout.NumTx {
		return nil, malformed(path, "tx", fmt.Sprintf("declared %d tx rows, found %d", layout.NumTx, len(layout.TxPositions)), nil)
	}
	return layout, nil
}

// LoadCouplingCalibration reads a coupling capture file of "name:v1,v2,..."
// lines: counts are single integer values, "data" is the flat float array.
func LoadCouplingCalibration(path string) (*CouplingCalibration, error) {
	cc := &CouplingCalibration{NumRx: -1, NumTx: -1, NumRangeBins: -1, NumDopplerBins: -1}

	err := scanLines(path, func(line string) error {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return malformed(path, "", "missing ':' separator", nil)
		}
		key := strings.ToLower(strings.TrimSpace(name))
		switch key {
		case "num_rx", "num_tx", "num_range_bins", "num_doppler_bins":
			n, err := parseIntField(path, key, value)
			if err != nil {
				return err
			}
			switch key {
			case "num_rx":
				cc.NumRx = n
			case "num_tx":
				cc.NumTx = n
			case "num_range_bins":
				cc.NumRangeBins = n
			case "num_doppler_bins":
				cc.NumDopplerBins = n
			}
		case "data":
			parts := strings.Split(value, ",")
			data := make([]float64, 0, len(parts))
			for _, p := range parts {
				v, err := parseFloatField(path, key, p)
				if err != nil {
					return err
				}
				data = append(data, v)
			}
			cc.Data = data
		default:
			return malformed(path, key, "unrecognized key", nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for key, n := range map[string]int{
		"num_rx": cc.NumRx, "num_tx": cc.NumTx,
		"num_range_bins": cc.NumRangeBins, "num_doppler_bins": cc.NumDopplerBins,
	} {
		if n < 0 {
			return nil, malformed(path, key, "missing", nil)
		}
	}
	if len(cc.Data) == 0 {
		return nil, malformed(path, "data", "missing", nil)
	}
	if channels := cc.NumTx * cc.NumRx; channels == 0 || len(cc.Data)%channels != 0 {
		return nil, malformed(path, "data",
			fmt.Sprintf("length %d is not a multiple of num_tx*num_rx = %d", len(cc.Data), channels), nil)
	}
	return cc, nil
}

// LoadWaveformParameters reads an operating-waveform file of "key value"
// lines. Counts are integers, everything else floats; frequencies, times and
// the slope must all be positive.
func LoadWaveformParameters(path string) (*WaveformParameters, error) {
	// Parse every value as float first, then demote the counts, the way the
	// capture tooling writes them (counts may appear as "128.0").
	values := map[string]float64{}

	err := scanLines(path, func(line string) error {
		chunks := strings.Fields(line)
		if len(chunks) != 2 {
			return malformed(path, chunks[0], "want a single value", nil)
		}
		key := strings.ToLower(chunks[0])
		if _, known := waveformFields[key]; !known {
			return malformed(path, key, "unrecognized key", nil)
		}
		v, err := parseFloatField(path, key, chunks[1])
		if err != nil {
			return err
		}
		values[key] = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	for key := range waveformFields {
		if _, ok := values[key]; !ok {
			return nil, malformed(path, key, "missing", nil)
		}
	}
	wp := &WaveformParameters{
		NumRx:                 int(values["num_rx"]),
		NumTx:                 int(values["num_tx"]),
		NumADCSamplesPerChirp: int(values["num_adc_samples_per_chirp"]),
		NumChirpsPerFrame:     int(values["num_chirps_per_frame"]),
		ADCSampleFrequency:    values["adc_sample_frequency"],
		StartFrequency:        values["start_frequency"],
		IdleTime:              values["idle_time"],
		ADCStartTime:          values["adc_start_time"],
		RampEndTime:           values["ramp_end_time"],
		FrequencySlope:        values["frequency_slope"],
	}
	if wp.NumRx <= 0 || wp.NumTx <= 0 || wp.NumADCSamplesPerChirp <= 0 || wp.NumChirpsPerFrame <= 0 {
		return nil, malformed(path, "", "antenna, sample and chirp counts must be positive", nil)
	}
	for _, f := range []struct {
		key string
		v   float64
	}{
		{"adc_sample_frequency", wp.ADCSampleFrequency},
		{"start_frequency", wp.StartFrequency},
		{"idle_time", wp.IdleTime},
		{"adc_start_time", wp.ADCStartTime},
		{"ramp_end_time", wp.RampEndTime},
		{"frequency_slope", wp.FrequencySlope},
	} {
		if f.v <= 0 {
			return nil, malformed(path, f.key, "must be positive", nil)
		}
	}
	return wp, nil
}

var waveformFields = map[string]struct{}{
	"num_rx": {}, "num_tx": {},
	"num_adc_samples_per_chirp": {}, "num_chirps_per_frame": {},
	"adc_sample_frequency": {}, "start_frequency": {},
	"idle_time": {}, "adc_start_time": {}, "ramp_end_time": {},
	"frequency_slope": {},
}

// LoadHeatmapGeometry reads a heatmap bin-grid file of "key v..." lines:
// lines with more than one value are float arrays (the azimuth/elevation bin
// centers), the rest scalars.
func LoadHeatmapGeometry(path string) (*HeatmapGeometry, error) {
	hg := &HeatmapGeometry{NumRangeBins: -1, NumElevationBins: -1, NumAzimuthBins: -1, RangeBinWidth: -1}

	parseBins := func(key string, chunks []string) ([]float64, error) {
		bins := make([]float64, 0, len(chunks)-1)
		for _, c := range chunks[1:] {
			v, err := parseFloatField(path, key, c)
			if err != nil {
				return nil, err
			}
			bins = append(bins, v)
		}
		return bins, nil
	}

	err := scanLines(path, func(line string) error {
		chunks := strings.Fields(line)
		key := strings.ToLower(chunks[0])
		switch key {
		case "num_range_bins", "num_elevation_bins", "num_azimuth_bins":
			if len(chunks) != 2 {
				return malformed(path, key, "want a single value", nil)
			}
			n, err := parseIntField(path, key, chunks[1])
			if err != nil {
				return err
			}
			switch key {
			case "num_range_bins":
				hg.NumRangeBins = n
			case "num_elevation_bins":
				hg.NumElevationBins = n
			case "num_azimuth_bins":
				hg.NumAzimuthBins = n
			}
		case "range_bin_width":
			if len(chunks) != 2 {
				return malformed(path, key, "want a single value", nil)
			}
			v, err := parseFloatField(path, key, chunks[1])
			if err != nil {
				return err
			}
			hg.RangeBinWidth = v
		case "azimuth_bins":
			bins, err := parseBins(key, chunks)
			if err != nil {
				return err
			}
			hg.AzimuthBins = bins
		case "elevation_bins":
			bins, err := parseBins(key, chunks)
			if err != nil {
				return err
			}
			hg.ElevationBins = bins
		default:
			return malformed(path, key, "unrecognized key", nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if hg.NumRangeBins < 0 {
		return nil, malformed(path, "num_range_bins", "missing", nil)
	}
	if hg.NumElevationBins < 0 {
		return nil, malformed(path, "num_elevation_bins", "missing", nil)
	}
	if hg.NumAzimuthBins < 0 {
		return nil, malformed(path, "num_azimuth_bins", "missing", nil)
	}
	if hg.RangeBinWidth < 0 {
		return nil, malformed(path, "range_bin_width", "missing", nil)
	}
	if len(hg.AzimuthBins) != hg.NumAzimuthBins {
		return nil, malformed(path, "azimuth_bins",
			fmt.Sprintf("declared %d bins, found %d", hg.NumAzimuthBins, len(hg.AzimuthBins)), nil)
	}
	if len(hg.ElevationBins) != hg.NumElevationBins {
		return nil, malformed(path, "elevation_bins",
			fmt.Sprintf("declared %d bins, found %d", hg.NumElevationBins, len(hg.ElevationBins)), nil)
	}
	return hg, nil
}

// phaseFrequencyDoc mirrors the JSON document written by the factory
// calibration tool. Pointer fields distinguish absent from zero.
type phaseFrequencyDoc struct {
	AntennaCalib *struct {
		NumRx                      *int      `json:"numRx"`
		NumTx                      *int      `json:"numTx"`
		FrequencySlope             *float64  `json:"frequencySlope"`
		SamplingRate               *float64  `json:"samplingRate"`
		FrequencyCalibrationMatrix []float64 `json:"frequencyCalibrationMatrix"`
		PhaseCalibrationMatrix     []float64 `json:"phaseCalibrationMatrix"`
	} `json:"antennaCalib"`
}

// LoadPhaseFrequencyCalibration reads the factory phase/frequency JSON
// document. Both matrices must hold exactly one interleaved re/im pair per
// MIMO channel.
func LoadPhaseFrequencyCalibration(path string) (*PhaseFrequencyCalibration, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, malformed(path, "", "cannot open", err)
	}
	var doc phaseFrequencyDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, malformed(path, "", "invalid JSON", err)
	}
	ac := doc.AntennaCalib
	if ac == nil {
		return nil, malformed(path, "antennaCalib", "missing", nil)
	}
	switch {
	case ac.NumRx == nil:
		return nil, malformed(path, "numRx", "missing", nil)
	case ac.NumTx == nil:
		return nil, malformed(path, "numTx", "missing", nil)
	case ac.FrequencySlope == nil:
		return nil, malformed(path, "frequencySlope", "missing", nil)
	case ac.SamplingRate == nil:
		return nil, malformed(path, "samplingRate", "missing", nil)
	case ac.FrequencyCalibrationMatrix == nil:
		return nil, malformed(path, "frequencyCalibrationMatrix", "missing", nil)
	case ac.PhaseCalibrationMatrix == nil:
		return nil, malformed(path, "phaseCalibrationMatrix", "missing", nil)
	}

	pc := &PhaseFrequencyCalibration{
		NumRx:                      *ac.NumRx,
		NumTx:                      *ac.NumTx,
		FrequencySlope:             *ac.FrequencySlope,
		SamplingRate:               *ac.SamplingRate,
		FrequencyCalibrationMatrix: ac.FrequencyCalibrationMatrix,
		PhaseCalibrationMatrix:     ac.PhaseCalibrationMatrix,
	}
	if pc.NumRx <= 0 || pc.NumTx <= 0 {
		return nil, malformed(path, "numRx", "antenna counts must be positive", nil)
	}
	want := 2 * pc.numChannels()
	if len(pc.FrequencyCalibrationMatrix) != want {
		return nil, malformed(path, "frequencyCalibrationMatrix",
			fmt.Sprintf("want %d values (one re/im pair per channel), got %d", want, len(pc.FrequencyCalibrationMatrix)), nil)
	}
	if len(pc.PhaseCalibrationMatrix) != want {
		return nil, malformed(path, "phaseCalibrationMatrix",
			fmt.Sprintf("want %d values (one re/im pair per channel), got %d", want, len(pc.PhaseCalibrationMatrix)), nil)
	}
	return pc, nil
}
