// Package aggregates implements the aggregate contracts on top of the table
// repos in internal/data/repos. Aggregates own the transaction for each write.
package aggregates
