// Package gnb implements a Gaussian Naive Bayes classifier that predicts a
// lane maneuver ("left", "keep", "right") from a kinematic observation of a
// moving agent: longitudinal position s, lateral position d and their
// velocities.
//
// Per-label, per-feature means and variances are estimated in one pass with
// Welford's algorithm. Prediction scores each label as
//
//	prior * Π N(x_f; mean_f, variance_f)
//
// and returns the highest-scoring label, preferring the lower label index on
// ties.
//
// A Classifier is not safe for concurrent mutation. Once Train has returned,
// Predict and Scores only read state and may be called from many goroutines.
package gnb
