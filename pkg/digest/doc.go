// Package digest computes SHA-512 digests of files as concurrent, separately
// joined computations.
//
// A Launcher starts one computation per file and hands back a Handle that
// owns the computation's execution context and the read end of its output
// channel. The Coordinator launches every computation it needs before
// reading any of them, then reads, waits on and releases each handle exactly
// once, on failure paths too.
package digest
