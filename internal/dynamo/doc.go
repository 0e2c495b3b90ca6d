// Package dynamo implements the Daisyworld simulation engine.
//
// The engine is a discrete-time dynamical system tracking planetary albedo,
// temperature and the population fractions of white and black daisies under a
// slowly increasing solar luminosity:
//
//   - [Params]: typed run configuration, supplied at reset time
//   - [World]: the mutable simulation state and its step operation
//   - [History]: append-only per-tick snapshot log
//   - [EndReason]: terminal classification of a run
//
// # Example
//
//	w := dynamo.NewWorld(dynamo.DefaultParams())
//	for w.EndReason() == dynamo.Running && w.Tick() < 5000 {
//	    w.Step()
//	}
//	outcome := w.Outcome()
//
// # Thread Safety
//
// World instances are NOT thread-safe. Callers serialize Reset and Step on a
// given World; independent Worlds may run concurrently (see [ParallelFor]).
package dynamo
