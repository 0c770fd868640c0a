// Package kalman implements the 5-state log-domain Kalman estimator that
// jointly tracks dit, dah and the three inter-symbol gap durations, all as
// log-samples so multiplicative timing noise behaves like additive
// Gaussian noise.
package kalman
