// Package transform loads the rigid poses that map points from the rig's
// common base frame into each sensor's frame. It carries numeric transform
// parameters only; no calibration derivation happens here.
package transform

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// QuaternionNormTolerance is how far a loaded rotation quaternion's norm may
// stray from 1 before the pose is rejected.
const QuaternionNormTolerance = 1e-3

// Pose is one rigid base-to-sensor transform: a translation plus a unit
// quaternion, expanded at load time into a row-major 4x4 homogeneous matrix.
type Pose struct {
	Translation [3]float64 // x, y, z in meters
	Rotation    [4]float64 // quaternion x, y, z, w
	T           [16]float64
}

// LoadPose reads a pose file: "# " lines are comments, "translation x y z"
// and "rotation x y z w" carry the parameters. Both lines are required.
func LoadPose(path string) (*Pose, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pose %s: %w", path, err)
	}
	defer f.Close()

	pose := &Pose{}
	seenTranslation, seenRotation := false, false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "# ") {
			continue
		}
		chunks := strings.Fields(line)
		switch chunks[0] {
		case "translation":
			if len(chunks) != 4 {
				return nil, fmt.Errorf("pose %s: translation wants 3 values, got %d", path, len(chunks)-1)
			}
			for i, c := range chunks[1:] {
				v, err := strconv.ParseFloat(c, 64)
				if err != nil {
					return nil, fmt.Errorf("pose %s: translation: %w", path, err)
				}
				pose.Translation[i] = v
			}
			seenTranslation = true
		case "rotation":
			if len(chunks) != 5 {
				return nil, fmt.Errorf("pose %s: rotation wants 4 values, got %d", path, len(chunks)-1)
			}
			for i, c := range chunks[1:] {
				v, err := strconv.ParseFloat(c, 64)
				if err != nil {
					return nil, fmt.Errorf("pose %s: rotation: %w", path, err)
				}
				pose.Rotation[i] = v
			}
			seenRotation = true
		default:
			return nil, fmt.Errorf("pose %s: unrecognized key %q", path, chunks[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("pose %s: %w", path, err)
	}
	if !seenTranslation {
		return nil, fmt.Errorf("pose %s: missing translation", path)
	}
	if !seenRotation {
		return nil, fmt.Errorf("pose %s: missing rotation", path)
	}

	q := pose.Rotation
	norm := math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	if math.Abs(norm-1) > QuaternionNormTolerance {
		return nil, fmt.Errorf("pose %s: rotation quaternion norm %g is not 1", path, norm)
	}

	pose.T = composeTransform(pose.Translation, q)
	return pose, nil
}

// composeTransform expands translation + unit quaternion (x,y,z,w) into a
// row-major homogeneous transform.
func composeTransform(t [3]float64, q [4]float64) [16]float64 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	return [16]float64{
		1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w), t[0],
		2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w), t[1],
		2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y), t[2],
		0, 0, 0, 1,
	}
}

// Apply maps a base-frame point through the pose into the sensor frame.
func (p *Pose) Apply(x, y, z float64) (sx, sy, sz float64) {
	T := p.T
	sx = T[0]*x + T[1]*y + T[2]*z + T[3]
	sy = T[4]*x + T[5]*y + T[6]*z + T[7]
	sz = T[8]*x + T[9]*y + T[10]*z + T[11]
	return
}

// MatrixValidationTolerance bounds the rotation-submatrix checks in
// IsValidTransformMatrix.
const MatrixValidationTolerance = 0.01

// IsValidTransformMatrix checks that a 4x4 row-major matrix is a proper
// rigid transform: orthonormal rotation submatrix with determinant 1 and a
// [0 0 0 1] bottom row.
func IsValidTransformMatrix(T [16]float64) bool {
	r00, r01, r02 := T[0], T[1], T[2]
	r10, r11, r12 := T[4], T[5], T[6]
	r20, r21, r22 := T[8], T[9], T[10]

	det := r00*(r11*r22-r12*r21) - r01*(r10*r22-r12*r20) + r02*(r10*r21-r11*r20)
	if math.Abs(det-1.0) > MatrixValidationTolerance {
		return false
	}

	rows := [3][3]float64{{r00, r01, r02}, {r10, r11, r12}, {r20, r21, r22}}
	for i := 0; i < 3; i++ {
		norm := math.Sqrt(rows[i][0]*rows[i][0] + rows[i][1]*rows[i][1] + rows[i][2]*rows[i][2])
		if math.Abs(norm-1.0) > MatrixValidationTolerance {
			return false
		}
		for j := i + 1; j < 3; j++ {
			dot := rows[i][0]*rows[j][0] + rows[i][1]*rows[j][1] + rows[i][2]*rows[j][2]
			if math.Abs(dot) > MatrixValidationTolerance {
				return false
			}
		}
	}

	return T[12] == 0 && T[13] == 0 && T[14] == 0 && T[15] == 1
}

// Set holds the base-to-sensor poses of every sensor on the rig.
type Set struct {
	ToCCRadar *Pose
	ToSCRadar *Pose
	ToLidar   *Pose
	ToIMU     *Pose
	ToVicon   *Pose
}

// SetPaths names the pose file of each sensor role.
type SetPaths struct {
	CCRadar string
	SCRadar string
	Lidar   string
	IMU     string
	Vicon   string
}

// LoadSet loads the five rig poses. Any single failure is fatal to the set.
func LoadSet(paths SetPaths) (*Set, error) {
	set := &Set{}
	for _, role := range []struct {
		path string
		dst  **Pose
	}{
		{paths.CCRadar, &set.ToCCRadar},
		{paths.SCRadar, &set.ToSCRadar},
		{paths.Lidar, &set.ToLidar},
		{paths.IMU, &set.ToIMU},
		{paths.Vicon, &set.ToVicon},
	} {
		pose, err := LoadPose(role.path)
		if err != nil {
			return nil, err
		}
		*role.dst = pose
	}
	return set, nil
}
