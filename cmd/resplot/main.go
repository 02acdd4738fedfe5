// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Resplot is a tool to draw maps, time series and histograms
// from the output of a reservoir simulation.
package main

import (
	"github.com/js-arias/command"
	"github.com/js-arias/resplot/cmd/resplot/casecmd"
	"github.com/js-arias/resplot/cmd/resplot/csvcmd"
	"github.com/js-arias/resplot/cmd/resplot/gifcmd"
	"github.com/js-arias/resplot/cmd/resplot/gridcmd"
	"github.com/js-arias/resplot/cmd/resplot/hist"
	"github.com/js-arias/resplot/cmd/resplot/mapcmd"
	"github.com/js-arias/resplot/cmd/resplot/satcmd"
	"github.com/js-arias/resplot/cmd/resplot/sumcmd"
	"github.com/js-arias/resplot/cmd/resplot/vtkcmd"
	"github.com/js-arias/resplot/cmd/resplot/wells"
)

var app = &command.Command{
	Usage: "resplot <command> [<argument>...]",
	Short: "a tool to plot reservoir simulation results",
}

func init() {
	app.Add(casecmd.Command)
	app.Add(csvcmd.Command)
	app.Add(gifcmd.Command)
	app.Add(gridcmd.Command)
	app.Add(hist.Command)
	app.Add(mapcmd.Command)
	app.Add(satcmd.Command)
	app.Add(sumcmd.Command)
	app.Add(vtkcmd.Command)
	app.Add(wells.Command)
}

func main() {
	app.Main()
}
