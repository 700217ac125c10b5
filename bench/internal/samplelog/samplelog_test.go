package samplelog_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hcl271/crow/bench/internal/samplelog"
)

func TestRecordAndSnapshot(t *testing.T) {
	var log samplelog.Log
	log.Record(1, 10*time.Millisecond)
	log.Record(2, 20*time.Millisecond)

	got := log.Snapshot()
	assert.Len(t, got, 2)
}

func TestWrapsPastWidth(t *testing.T) {
	var log samplelog.Log
	for i := 0; i < samplelog.Width*3; i++ {
		log.Record(uint32(i), time.Duration(i)*time.Microsecond)
	}

	got := log.Snapshot()
	assert.LessOrEqual(t, len(got), samplelog.Width)
}

func TestConcurrentRecord(t *testing.T) {
	var log samplelog.Log
	var wg sync.WaitGroup
	wg.Add(16)
	for i := 0; i < 16; i++ {
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				log.Record(uint32(i), time.Microsecond)
			}
		}(i)
	}
	wg.Wait()

	got := log.Snapshot()
	assert.LessOrEqual(t, len(got), samplelog.Width)
}
