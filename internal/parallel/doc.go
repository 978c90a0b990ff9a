// Package parallel runs CPU pass kernels across goroutines.
//
// A Pool keeps one queue per worker; idle workers steal from the others.
// Bands splits an image height into row ranges so kernels that write
// disjoint rows can run concurrently.
package parallel
