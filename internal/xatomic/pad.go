package xatomic

import "golang.org/x/sys/cpu"

// CacheLinePad is embedded in structs that hold a hot, frequently-CAS'd
// atomic word (lock flags, hazard slots, epoch cells) to stop false sharing
// with whatever field the allocator happens to place next to it.
type CacheLinePad = cpu.CacheLinePad
