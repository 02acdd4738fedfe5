// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package main

import "github.com/js-arias/command"

func init() {
	app.Add(caseFilesGuide)
	app.Add(colorMapsGuide)
	app.Add(keyFilesGuide)
	app.Add(slidesGuide)
	app.Add(styleFilesGuide)
	app.Add(variablesGuide)
}

var caseFilesGuide = &command.Command{
	Usage: "case-files",
	Short: "about simulation cases",
	Long: `
A simulation produces several files that share a base name, for example
SPE11B.EGRID for the grid geometry, SPE11B.INIT for the static properties,
SPE11B.UNRST for the dynamic properties, and SPE11B.SMSPEC and SPE11B.UNSMRY
for the summary vectors. In resplot, a case can be given by that base name
(with or without extension), and the files will be searched using the base
name and the known extensions (both unformatted and formatted files, for
example .UNRST and .FUNRST, are recognized). The input deck (.DATA) is used
for the wells, the saturation functions, and, if there is no EGRID file, to
build a Cartesian grid.

If the files of a case do not follow that convention, a case file can be
used. A case file is a tab-delimited file with the following fields:

	- dataset  for the kind of file
	- path     for the path of the file

Here is an example file:

	# resplot case files
	dataset	path
	deck	SPE11B.DATA
	egrid	output/SPE11B.EGRID
	init	output/SPE11B.INIT
	smspec	output/SPE11B.SMSPEC
	unrst	output/SPE11B.UNRST
	unsmry	output/SPE11B.UNSMRY

The valid dataset keywords are "deck", "egrid", "init", "smspec", "unrst",
and "unsmry". Case files must have the extension ".tab", ".tsv", or ".txt".
The recommended way to create or edit a case file is by using the command
'resplot case'.
	`,
}

var colorMapsGuide = &command.Command{
	Usage: "colormaps",
	Short: "about color maps",
	Long: `
The values of a map are painted using a color map. Each variable has a default
color map (see 'resplot help style-files'), that can be changed with the flag
--color of the map commands. Valid color maps are:

	- gnuplot        from black to yellow, trough purple and red.
	- gray           from black to white.
	- incandescent   Paul Tol incandescent scheme
	                 <https://personal.sron.nl/~pault/#fig:scheme_incandescent>
	- iridescent     Paul Tol iridescent scheme
	                 <https://personal.sron.nl/~pault/#fig:scheme_iridescent>
	- jet            from dark blue to dark red.
	- nipy_spectral  from black to gray, trough purple, green and red.
	- rainbow        Paul Tol rainbow scheme, from purple to red
	                 <https://personal.sron.nl/~pault/#fig:scheme_rainbow_smooth>
	- tab20b         a qualitative scheme of 20 colors.
	- terrain        from blue to white, trough green and brown.
	- turbo          an improved rainbow scheme.
	- viridis        from purple to yellow.

Any color map can be reversed by adding the "_r" suffix to its name, for
example "jet_r". If a qualitative color map (tab20b) is used with a variable
with integer values (for example "satnum"), each value will have its own
color.
	`,
}

var keyFilesGuide = &command.Command{
	Usage: "key-files",
	Short: "about color key files",
	Long: `
Maps of integer variables, for example the saturation or fluid-in-place
regions, can be painted with a defined set of colors, using a key file.

A key file is a tab-delimited file with the following required columns:

	-key	the value used as identifier
	-color	an RGB value separated by commas,
		for example "125,132,148".

Optionally it can contain the following columns:

	-gray:  for a gray scale value
	-label: for the name used in the color bar

Any other columns, will be ignored. Here is an example of a key file:

	key	color	gray	label
	1	0, 26, 51	0	shale
	2	0, 84, 119	40	facies 2
	3	68, 167, 196	80	facies 3
	4	251, 236, 93	120	facies 4
	5	255, 165, 0	160	facies 5
	6	229, 229, 224	200	facies 6
	7	120, 120, 120	240	facies 7

Values not defined in the key will be transparent.
	`,
}

var slidesGuide = &command.Command{
	Usage: "slides",
	Short: "about slides and projections",
	Long: `
A map is a section of the grid. The section is defined with a slide, in the
form "i,j,k", in which one of the three components is restricted, and the
other two are empty. For example:

	",1,"     the first cell along the y axis (the default slide).
	"5,,"     the fifth cell along the x axis.
	",,10"    the tenth layer.
	",,1:10"  the first ten layers.
	",,:"     all the layers.
	"i,1,k"   the same as ",1,".

Indexes start at 1. In a range "a:b", both bounds are included, and if a bound
is omitted, the first or the last cell of the axis is used.

If the slide restricts a range of more than one cell, the cells along the
range are collapsed into a single value with a projection rule, defined with
the flag --how. Valid rules are:

	- arithmetic  the thickness weighted mean.
	- first       the first active cell of the range.
	- harmonic    the thickness weighted harmonic mean.
	- last        the last active cell of the range.
	- max         the maximum value.
	- mean        the mean value.
	- min         the minimum value.
	- pvmean      the pore volume weighted mean.
	- sum         the sum of all values.

By default, the pore volume ("porv") is added, the permeabilities are averaged
with an harmonic mean along its own direction (for example "permz" in a range
of layers) and with an arithmetic mean across it, and any other variable is
averaged with the mean.

Inactive cells, and cells without a valid value, are ignored. A cell of the
map without any valid value is not drawn.

A slide that restricts the three components, for example "1,1,1" or
"1:5,1,1:3", is a sensor, that is used by 'resplot summary' to build a time
series of a variable reduced over the cells of the sensor.
	`,
}

var styleFilesGuide = &command.Command{
	Usage: "style-files",
	Short: "about style files",
	Long: `
Any variable has a default units label, color map, and format for the ticks
of the color bar:

	variable            units   color map  format
	depth, dx, dy, dz   [m]     jet        %.2e
	porv                [m^3]   terrain    %.2e
	permx, permy, permz [mD]    turbo      %.0f
	*num                [-]     tab20b     %.0f
	poro                [-]     gnuplot    %.1f
	others              [-]     gnuplot    %.2f

By default, figures are 8 by 6 inches, at 150 dots per inch, with text of 12
points, and maps are drawn with the same scale on both axes.

All of these values can be changed with a style file, defined with the flag
--style. A style file is a YAML file with any of the following fields:

	font-size  the size of the text, in points.
	width      the width of the figure, in inches.
	height     the height of the figure, in inches.
	dpi        the resolution of the image.
	scale      if false, the axes of a map are not drawn at the same
	           scale.
	xlim       the limits of the x axis, as a list of two values.
	ylim       the limits of the y axis, as a list of two values.
	variables  the properties of one or more variables, with the fields
	           "units", "colormap", "format", "log" (for a logarithmic
	           color scale), and "label" (for the name used in titles).

Here is an example file:

	font-size: 14
	width: 10
	height: 4
	variables:
	  pressure:
	    units: "[bar]"
	    colormap: viridis
	    format: "%.1f"
	  permx:
	    log: true

Flags given in the command line take precedence over the style file.
	`,
}

var variablesGuide = &command.Command{
	Usage: "variables",
	Short: "about variables and expressions",
	Long: `
A variable is the name of a field of a case. Fields are searched, in order, in
the pore volume ("porv"), the static properties (INIT file), the dynamic
properties (UNRST file), the grid geometry ("depth", "dx", "dy", and "dz"),
and the grid keywords of the input deck. Names are case insensitive.

A variable can also be an expression, made of variables, numbers, the
operators "+", "-", "*", "/", the comparisons ">", "<", ">=", "<=", "==",
"!=", and parenthesis. For example:

	"tranz * 10"
	"sgas * (pressure - 100)"
	"pressure - 0pressure"

A variable prefixed with a restart number (for example "0pressure") is taken
at that restart, otherwise the restart given with the flag -r is used. In the
last example above, the map is the change of pressure since the first restart.
Comparisons produce 1 (true) or 0 (false).

A filter is a set of comparisons joined by "&", for example
"fipnum >= 2 & sgas > 0.1", and only the cells that fulfill all the
comparisons are used.

In 'resplot summary', variables are summary vectors, with names in the form
"<keyword>[:<name>][:<number>]", for example "fgip", "wbhp:INJ0", "rpr:3", or
"bpr:1,1,1".
	`,
}
