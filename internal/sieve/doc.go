// Package sieve computes primes over [0, N) with an incrementally growing
// segmented sieve of Eratosthenes.
//
// The range is split into batches of doubling size. The first batch (the
// bootstrap batch) starts at zero and is sieved on its own with a classical
// simple sieve. Every later batch (a dependent batch) is sieved exclusively
// with the primes already discovered in earlier batches: any composite below
// the end of a batch has a prime factor no larger than the square root of that
// end, and that factor always lives in a smaller, already completed batch.
//
// Batch layout for a minimal power M and a magnitude P:
//
//	batch i: length = 2^(M+i), start = 2^M * (2^i - 1), for i in [0, max(P-M, 0)]
//
// The union of all batches is [0, 2^(P+1) - 2^M) when P >= M.
//
// Batches must be completed strictly in ascending order; a Space drains its
// pending queue one batch at a time. Inside a single batch the marking work
// may be sharded across workers (see WithWorkers) because every worker owns a
// disjoint slice of the batch buffer.
package sieve
