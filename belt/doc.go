// Package belt projects conveyor belts onto renderable geometry.
//
// A belt is laid between an ordered list of [Pole]s. [Project] turns the poles
// into a quadratic Bézier (see package [honnef.co/go/conveyor]), samples it,
// and derives one [Segment] per sample: an oriented box whose long axis
// follows the curve. A [Belt] hands these segments to a [Renderer] and keeps
// the resulting geometry in a [RenderHandle] until it is cleaned up.
//
// The path uses exactly three poles: two anchors and one control point, at
// the indices given by [Options]. This is a fixed four-pole layout, not a
// spline through an arbitrary number of poles.
//
// By default the curve runs from the first pole to the second, not to the
// last one, and is pulled towards the fourth. The third pole doesn't shape
// the curve. Set [Options.EndAnchor] to use another end anchor.
package belt
