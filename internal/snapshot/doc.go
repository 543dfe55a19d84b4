// Package snapshot reads process and listening-socket state from the host and
// normalizes it into immutable entities.
//
// Every call to a Provider yields a brand new Raw value; nothing read from the
// operating system is patched in place. Process lifetimes are inherently racy:
// a pid listed by the kernel may be gone by the time its details are read, so
// providers record such failures on the RawProcess and Normalize drops them.
package snapshot
