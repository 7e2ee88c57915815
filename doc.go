// Package conveyor provides the curve primitives used to lay conveyor belts
// between support poles: 3D points, linear interpolation, quadratic Bézier
// curves and their sampling, and nearest-point queries.
//
// Rendering belts as geometry is the job of the [honnef.co/go/conveyor/belt]
// package, which builds on this one. This package has no notion of poles,
// segments or renderers.
//
// # Sampling
//
// Belts are approximated by a fixed number of samples of a quadratic Bézier.
// [Sample] evaluates the curve at t = i/steps for i ∈ [0, steps), that is, on
// the half-open interval [0, 1). The first sample equals the start anchor; the
// end anchor is approached but never produced. The default step count is
// [DefaultSteps].
//
// Evaluation uses De Casteljau's construction, two rounds of [Lerp]. [Lerp]
// itself is defined for all t and extrapolates outside of [0, 1].
//
// # Nearest points
//
// Two kinds of nearest-point query exist. [Closest] and [ClosestIndex] scan a
// set of samples and return the sample at the smallest euclidean distance, the
// earliest one on ties. [QuadBez.Nearest] projects onto the continuous curve by
// solving for the roots of a cubic (see [SolveCubic]).
//
// # Literature
//
//   - [A Primer on Bézier Curves]
//   - [How to solve a cubic equation, revisited] by Christoph Peters
//
// [A Primer on Bézier Curves]: https://pomax.github.io/bezierinfo/
// [How to solve a cubic equation, revisited]: https://momentsingraphics.de/CubicRoots.html
package conveyor
