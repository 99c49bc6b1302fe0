// antenna-plot renders the rx/tx element layout of a sensor's antenna array
// to a PNG, positions in half-wavelength units. Useful for eyeballing that a
// layout file matches the physical board before trusting the derived
// corrections.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/radar-forge/mmwave-calib/internal/calib"
	"github.com/radar-forge/mmwave-calib/internal/monitoring"
)

var (
	manifest = flag.String("manifest", "", "Path to the dataset calibration manifest (required)")
	sensor   = flag.String("sensor", "ccradar", "Sensor group to plot (scradar or ccradar)")
	out      = flag.String("out", "antenna.png", "Output PNG path")
)

func main() {
	flag.Parse()
	if *manifest == "" {
		fmt.Fprintln(os.Stderr, "error: -manifest is required")
		flag.Usage()
		os.Exit(2)
	}
	if *sensor != calib.GroupSCRadar && *sensor != calib.GroupCCRadar {
		log.Fatalf("unknown sensor group %q", *sensor)
	}

	groups, err := calib.LoadManifest(*manifest)
	if err != nil {
		log.Fatalf("failed to load manifest: %v", err)
	}
	roles := groups[*sensor]
	if roles == nil {
		log.Fatalf("manifest has no %q group", *sensor)
	}
	antennaPath, ok := roles[calib.RoleAntenna]
	if !ok {
		log.Fatalf("manifest group %q has no antenna role", *sensor)
	}

	layout, err := calib.LoadAntennaLayout(antennaPath)
	if err != nil {
		log.Fatalf("failed to load antenna layout: %v", err)
	}
	monitoring.Logf("loaded %s layout: %d tx, %d rx", *sensor, layout.NumTx, layout.NumRx)

	if err := render(layout, *sensor, *out); err != nil {
		log.Fatalf("failed to render layout: %v", err)
	}
	monitoring.Logf("wrote %s", *out)
}

func render(layout *calib.AntennaLayout, sensor, out string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s antenna layout (%d tx, %d rx)", sensor, layout.NumTx, layout.NumRx)
	p.X.Label.Text = "azimuth (half wavelengths)"
	p.Y.Label.Text = "elevation (half wavelengths)"

	rxScatter, err := plotter.NewScatter(positionsXY(layout.RxPositions))
	if err != nil {
		return fmt.Errorf("rx scatter: %w", err)
	}
	rxScatter.GlyphStyle.Color = color.RGBA{B: 255, A: 255}
	rxScatter.GlyphStyle.Radius = vg.Points(3)

	txScatter, err := plotter.NewScatter(positionsXY(layout.TxPositions))
	if err != nil {
		return fmt.Errorf("tx scatter: %w", err)
	}
	txScatter.GlyphStyle.Color = color.RGBA{R: 255, A: 255}
	txScatter.GlyphStyle.Radius = vg.Points(3)

	p.Add(rxScatter, txScatter)
	p.Legend.Add("rx", rxScatter)
	p.Legend.Add("tx", txScatter)
	p.Legend.Top = true

	return p.Save(8*vg.Inch, 6*vg.Inch, out)
}

func positionsXY(positions []calib.AntennaPosition) plotter.XYs {
	pts := make(plotter.XYs, len(positions))
	for i, pos := range positions {
		pts[i].X = pos.AzimuthHalfWavelengths
		pts[i].Y = pos.ElevationHalfWavelengths
	}
	return pts
}
