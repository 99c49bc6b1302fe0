package calib

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/radar-forge/mmwave-calib/internal/transform"
)

// Group and role keys of the bundle path mapping. The top-level groups name
// the sensors; the file roles name the calibration files inside each group.
const (
	GroupSCRadar   = "scradar"
	GroupCCRadar   = "ccradar"
	GroupTransform = "transform"

	RoleAntenna  = "antenna"
	RoleCoupling = "coupling"
	RoleWaveform = "waveform"
	RoleHeatmap  = "heatmap"
	RolePhase    = "phase"

	RoleBaseToCCRadar = "base-to-ccradar"
	RoleBaseToSCRadar = "base-to-scradar"
	RoleBaseToLidar   = "base-to-lidar"
	RoleBaseToIMU     = "base-to-imu"
	RoleBaseToVicon   = "base-to-vicon"
)

// CalibrationBundle is the single read-only handle handed to the processing
// pipeline: one single-chip calibration, one cascade calibration and the
// rig's pose set. It shares no mutable state between its parts, so
// independent bundles may be constructed and used concurrently.
type CalibrationBundle struct {
	SCRadar    *SingleSensorCalibration
	CCRadar    *MultiChipSensorCalibration
	Transforms *transform.Set
}

// NewCalibrationBundle constructs a bundle from a mapping of group name to
// file-role paths. A missing group or role fails with
// *MissingCalibrationGroupError; loader and validation errors propagate
// unchanged. The bundle is either fully valid or not constructed at all.
func NewCalibrationBundle(groups map[string]map[string]string) (*CalibrationBundle, error) {
	scPaths, err := singlePathsFromGroup(groups, GroupSCRadar)
	if err != nil {
		return nil, err
	}
	ccPaths, err := singlePathsFromGroup(groups, GroupCCRadar)
	if err != nil {
		return nil, err
	}
	phasePath, err := roleFromGroup(groups, GroupCCRadar, RolePhase)
	if err != nil {
		return nil, err
	}

	transformRoles := groups[GroupTransform]
	if transformRoles == nil {
		return nil, &MissingCalibrationGroupError{Group: GroupTransform}
	}
	var setPaths transform.SetPaths
	for _, role := range []struct {
		key string
		dst *string
	}{
		{RoleBaseToCCRadar, &setPaths.CCRadar},
		{RoleBaseToSCRadar, &setPaths.SCRadar},
		{RoleBaseToLidar, &setPaths.Lidar},
		{RoleBaseToIMU, &setPaths.IMU},
		{RoleBaseToVicon, &setPaths.Vicon},
	} {
		path, ok := transformRoles[role.key]
		if !ok {
			return nil, &MissingCalibrationGroupError{Group: GroupTransform + "/" + role.key}
		}
		*role.dst = path
	}

	scradar, err := LoadSingleSensorCalibration(scPaths)
	if err != nil {
		return nil, err
	}
	ccradar, err := LoadMultiChipSensorCalibration(MultiChipSensorPaths{
		SingleSensorPaths: ccPaths,
		Phase:             phasePath,
	})
	if err != nil {
		return nil, err
	}
	transforms, err := transform.LoadSet(setPaths)
	if err != nil {
		return nil, err
	}

	return &CalibrationBundle{SCRadar: scradar, CCRadar: ccradar, Transforms: transforms}, nil
}

func roleFromGroup(groups map[string]map[string]string, group, role string) (string, error) {
	roles := groups[group]
	if roles == nil {
		return "", &MissingCalibrationGroupError{Group: group}
	}
	path, ok := roles[role]
	if !ok {
		return "", &MissingCalibrationGroupError{Group: group + "/" + role}
	}
	return path, nil
}

func singlePathsFromGroup(groups map[string]map[string]string, group string) (SingleSensorPaths, error) {
	var paths SingleSensorPaths
	for _, role := range []struct {
		key string
		dst *string
	}{
		{RoleAntenna, &paths.Antenna},
		{RoleCoupling, &paths.Coupling},
		{RoleWaveform, &paths.Waveform},
		{RoleHeatmap, &paths.Heatmap},
	} {
		path, err := roleFromGroup(groups, group, role.key)
		if err != nil {
			return SingleSensorPaths{}, err
		}
		*role.dst = path
	}
	return paths, nil
}

// LoadManifest reads a dataset manifest: a JSON document mapping group names
// to role→path objects. Relative paths are resolved against the manifest's
// own directory so a dataset stays relocatable.
func LoadManifest(path string) (map[string]map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, malformed(path, "", "cannot open", err)
	}
	var groups map[string]map[string]string
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, malformed(path, "", "invalid JSON", err)
	}

	root := filepath.Dir(path)
	for _, roles := range groups {
		for role, p := range roles {
			if !filepath.IsAbs(p) {
				roles[role] = filepath.Join(root, p)
			}
		}
	}
	return groups, nil
}

// LoadBundleFromManifest is the one-call path from a dataset manifest to a
// constructed bundle.
func LoadBundleFromManifest(path string) (*CalibrationBundle, error) {
	groups, err := LoadManifest(path)
	if err != nil {
		return nil, err
	}
	return NewCalibrationBundle(groups)
}
