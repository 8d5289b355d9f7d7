// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package summary

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/aclements/go-moremath/stats"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/cacheeval/simfig/derive"
)

const pointRad = 3

// Chart writes a labelled scatter plot of points to path. The image
// format is taken from the extension of path (for example .png, .svg or
// .pdf). Points with a non-finite coordinate are left out.
func Chart(points []Point, path string) error {
	var (
		xys    plotter.XYs
		labels []string
	)
	for _, p := range points {
		if !derive.Finite(p.X) || !derive.Finite(p.Y) {
			logrus.Warnf("chart: dropping %s (%g, %g)", p.Label, p.X, p.Y)
			continue
		}
		xys = append(xys, plotter.XY{X: p.X, Y: p.Y})
		labels = append(labels, p.Label)
	}
	if len(xys) == 0 {
		return errors.New("chart: no finite points")
	}

	pl := plot.New()
	pl.X.Label.Text = OverviewX
	pl.Y.Label.Text = OverviewY

	grid := plotter.NewGrid()
	pl.Add(grid)

	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Radius = vg.Points(pointRad)
	lb, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return err
	}
	lb.Offset = vg.Point{X: vg.Points(pointRad + 2), Y: vg.Points(pointRad)}
	pl.Add(sc, lb)

	setRange(&pl.X, xys, func(p plotter.XY) float64 { return p.X })
	setRange(&pl.Y, xys, func(p plotter.XY) float64 { return p.Y })

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o777); err != nil {
			return err
		}
	}
	return pl.Save(6*vg.Inch, 6*vg.Inch, path)
}

// setRange pads an axis around the data and forces the unit ratio onto
// it, so the chart always shows where the baseline is.
func setRange(ax *plot.Axis, xys plotter.XYs, coord func(plotter.XY) float64) {
	vs := make([]float64, len(xys))
	for i, p := range xys {
		vs[i] = coord(p)
	}
	lo, hi := stats.Bounds(vs)
	if lo > 1 {
		lo = 1
	}
	if hi < 1 {
		hi = 1
	}
	pad := (hi - lo) * 0.05
	ax.Min, ax.Max = lo-pad, hi+pad
}
