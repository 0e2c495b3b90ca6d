// Package analysis provides steady-state studies built on the engine.
//
//   - [EquilibriumScan]: settle the world under a fixed sun at each of a range
//     of luminosities and record where it comes to rest
//   - [BarePlanetTemperature]: the lifeless reference temperature
//
// Comparing the two curves shows the regulation band: the luminosity range over
// which daisies hold the planet near the optimum while a bare planet warms
// steadily.
package analysis
