// Package viz renders finished runs as styled terminal text.
//
//   - [RenderReport]: end-of-run report with outcome title, explanation and
//     final state
//   - [PlotHistory]: asciigraph charts of temperature and populations
//   - [Surface]: character mosaic of the planet's cover
//   - [Theme]: color scheme shared by all of the above
//
// Nothing here drives the engine; everything reads a [dynamo.Summary] or a
// history slice.
package viz
