package transform

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func writePose(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pose.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write pose fixture: %v", err)
	}
	return path
}

func TestLoadPoseIdentityRotation(t *testing.T) {
	path := writePose(t, "# base to sensor\ntranslation 0.1 -0.2 0.5\nrotation 0 0 0 1\n")

	pose, err := LoadPose(path)
	if err != nil {
		t.Fatalf("LoadPose: %v", err)
	}

	if pose.Translation != [3]float64{0.1, -0.2, 0.5} {
		t.Errorf("Translation = %v", pose.Translation)
	}
	want := [16]float64{
		1, 0, 0, 0.1,
		0, 1, 0, -0.2,
		0, 0, 1, 0.5,
		0, 0, 0, 1,
	}
	if pose.T != want {
		t.Errorf("T = %v, want %v", pose.T, want)
	}
	if !IsValidTransformMatrix(pose.T) {
		t.Error("identity-rotation pose should be a valid rigid transform")
	}

	x, y, z := pose.Apply(1, 2, 3)
	if x != 1.1 || y != 1.8 || z != 3.5 {
		t.Errorf("Apply(1,2,3) = (%v, %v, %v), want (1.1, 1.8, 3.5)", x, y, z)
	}
}

func TestLoadPoseQuarterTurn(t *testing.T) {
	// 90 degrees about z: q = (0, 0, sin45, cos45). Maps +x to +y.
	s := math.Sqrt2 / 2
	content := "translation 0 0 0\nrotation 0 0 " +
		formatFloat(s) + " " + formatFloat(s) + "\n"
	pose, err := LoadPose(writePose(t, content))
	if err != nil {
		t.Fatalf("LoadPose: %v", err)
	}

	x, y, z := pose.Apply(1, 0, 0)
	if math.Abs(x) > 1e-12 || math.Abs(y-1) > 1e-12 || math.Abs(z) > 1e-12 {
		t.Errorf("Apply(1,0,0) = (%v, %v, %v), want (0, 1, 0)", x, y, z)
	}
	if !IsValidTransformMatrix(pose.T) {
		t.Error("quarter-turn pose should be a valid rigid transform")
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func TestLoadPoseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing translation", "rotation 0 0 0 1\n"},
		{"missing rotation", "translation 0 0 0\n"},
		{"short translation", "translation 0 0\nrotation 0 0 0 1\n"},
		{"short rotation", "translation 0 0 0\nrotation 0 0 1\n"},
		{"unparsable value", "translation a b c\nrotation 0 0 0 1\n"},
		{"unrecognized key", "translation 0 0 0\nrotation 0 0 0 1\nscale 2\n"},
		{"non-unit quaternion", "translation 0 0 0\nrotation 0 0 0 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadPose(writePose(t, tt.content)); err == nil {
				t.Error("want error, got nil")
			}
		})
	}
}

func TestIsValidTransformMatrix(t *testing.T) {
	identity := [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	if !IsValidTransformMatrix(identity) {
		t.Error("identity should be valid")
	}

	reflection := identity
	reflection[0] = -1 // det -1
	if IsValidTransformMatrix(reflection) {
		t.Error("reflection should be invalid")
	}

	scaled := identity
	scaled[0] = 2
	if IsValidTransformMatrix(scaled) {
		t.Error("scaled matrix should be invalid")
	}

	badBottom := identity
	badBottom[15] = 2
	if IsValidTransformMatrix(badBottom) {
		t.Error("bad bottom row should be invalid")
	}
}

func TestLoadSet(t *testing.T) {
	dir := t.TempDir()
	pose := "translation 0 0 0\nrotation 0 0 0 1\n"
	paths := SetPaths{}
	for _, role := range []struct {
		name string
		dst  *string
	}{
		{"ccradar", &paths.CCRadar},
		{"scradar", &paths.SCRadar},
		{"lidar", &paths.Lidar},
		{"imu", &paths.IMU},
		{"vicon", &paths.Vicon},
	} {
		p := filepath.Join(dir, role.name+".txt")
		if err := os.WriteFile(p, []byte(pose), 0644); err != nil {
			t.Fatalf("write pose: %v", err)
		}
		*role.dst = p
	}

	set, err := LoadSet(paths)
	if err != nil {
		t.Fatalf("LoadSet: %v", err)
	}
	for name, p := range map[string]*Pose{
		"ccradar": set.ToCCRadar, "scradar": set.ToSCRadar,
		"lidar": set.ToLidar, "imu": set.ToIMU, "vicon": set.ToVicon,
	} {
		if p == nil {
			t.Errorf("pose %s not loaded", name)
		}
	}
}

func TestLoadSetMissingFile(t *testing.T) {
	dir := t.TempDir()
	pose := "translation 0 0 0\nrotation 0 0 0 1\n"
	good := filepath.Join(dir, "good.txt")
	if err := os.WriteFile(good, []byte(pose), 0644); err != nil {
		t.Fatalf("write pose: %v", err)
	}

	_, err := LoadSet(SetPaths{
		CCRadar: good, SCRadar: good, Lidar: good, IMU: good,
		Vicon: filepath.Join(dir, "missing.txt"),
	})
	if err == nil {
		t.Error("want error for missing pose file")
	}
}
