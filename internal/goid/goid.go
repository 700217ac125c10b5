// Package goid extracts the current goroutine's runtime id. The hazard and
// epoch registries need something stable and comparable per goroutine to
// key their slot caches by, the role an OS thread id (pthread_self,
// SYS_gettid) plays in thread-per-accessor designs; Go deliberately exposes
// no such identity, so this package recovers one from the runtime's own
// stack-trace header.
package goid

import (
	"bytes"
	"runtime"
	"strconv"
)

// Get returns the id of the calling goroutine, parsed out of the header line
// of runtime.Stack. This is the standard (if slightly unloved) trick for
// obtaining a goroutine identity from outside the runtime package: the first
// line of a stack trace always reads "goroutine N [state]:".
//
// The result is stable for the lifetime of the goroutine and unique among
// concurrently running goroutines, which is all the hazard and epoch
// registries need.
func Get() int64 {
	buf := make([]byte, 64)
	for {
		n := runtime.Stack(buf, false)
		if n < len(buf) {
			buf = buf[:n]
			break
		}
		buf = make([]byte, len(buf)*2)
	}

	const prefix = "goroutine "
	if !bytes.HasPrefix(buf, []byte(prefix)) {
		// Should be unreachable: the runtime guarantees this header.
		return -1
	}
	buf = buf[len(prefix):]

	end := bytes.IndexByte(buf, ' ')
	if end < 0 {
		return -1
	}

	id, err := strconv.ParseInt(string(buf[:end]), 10, 64)
	if err != nil {
		return -1
	}
	return id
}
