// Package risk scores a subject's public exposure.
//
// The scorer combines four independently bounded sub-scores (data
// sensitivity, cross-platform correlation, data recency, exploitability)
// with fixed weights that sum to 1.0, keeping the total in [0, 100].
// The package also derives the threat matrix, which translates the same
// signals into concrete attack scenario likelihoods.
package risk
