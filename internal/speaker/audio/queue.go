// ============================================================================
// Neuro-Speak - Bildschirmtext-Vorleser
// ============================================================================
//
// Package:     audio
// Description: Playback queue shared by the synthesis worker and the device
// Author:      ZeusXpresss
// Created:     2026-03-14
// License:     MIT
// ============================================================================

package audio

import (
	"sync"
)

// Queue is an unbounded FIFO of sample buffers. Buffers are never modified
// after Push; consumption advances a read offset into the head buffer.
// All methods are safe for concurrent use and never block for long, so Fill
// may be called from the device callback.
type Queue struct {
	mu      sync.Mutex
	bufs    [][]float32
	head    int
	samples int
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends a buffer. Empty buffers are ignored.
func (q *Queue) Push(buf []float32) {
	if len(buf) == 0 {
		return
	}
	q.mu.Lock()
	q.bufs = append(q.bufs, buf)
	q.samples += len(buf)
	q.mu.Unlock()
}

// Fill copies queued samples into out in FIFO order and returns how many
// were written. Samples past the returned count are left untouched.
func (q *Queue) Fill(out []float32) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := 0
	for n < len(out) && len(q.bufs) > 0 {
		cur := q.bufs[0]
		c := copy(out[n:], cur[q.head:])
		n += c
		q.head += c
		if q.head == len(cur) {
			q.bufs[0] = nil
			q.bufs = q.bufs[1:]
			q.head = 0
		}
	}
	q.samples -= n
	return n
}

// Clear drops everything queued
func (q *Queue) Clear() {
	q.mu.Lock()
	q.bufs = nil
	q.head = 0
	q.samples = 0
	q.mu.Unlock()
}

// Empty reports whether no samples remain
func (q *Queue) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.samples == 0
}

// Len returns the number of samples not yet consumed
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.samples
}

// Buffers returns the number of buffers holding unconsumed samples
func (q *Queue) Buffers() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.bufs)
}
