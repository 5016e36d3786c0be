// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_audio

import (
	"context"
	"errors"
	"sync"
	"time"
)

type nopLogger struct{}

func (nopLogger) Debug(args ...interface{})                 {}
func (nopLogger) Debugf(format string, args ...interface{}) {}
func (nopLogger) Info(args ...interface{})                  {}
func (nopLogger) Infof(format string, args ...interface{})  {}
func (nopLogger) Warn(args ...interface{})                  {}
func (nopLogger) Warnf(format string, args ...interface{})  {}
func (nopLogger) Error(args ...interface{})                 {}
func (nopLogger) Errorf(format string, args ...interface{}) {}
func (nopLogger) Fatalf(format string, args ...interface{}) {}
func (nopLogger) Sync() error                               { return nil }

// manualClock lets tests control elapsed time deterministically.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Unix(1700000000, 0)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fakeInput hands out identical frames forever, optionally failing after a
// fixed number of reads. The per-read delay keeps the capture loop from
// spinning unrealistically fast.
type fakeInput struct {
	mu        sync.Mutex
	sample    int16
	failAfter int // -1 means never fail
	reads     int
	closed    bool
}

func newFakeInput(sample int16) *fakeInput {
	return &fakeInput{sample: sample, failAfter: -1}
}

func (d *fakeInput) ReadFrame() ([]int16, error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, errors.New("device closed")
	}
	if d.failAfter >= 0 && d.reads >= d.failAfter {
		d.mu.Unlock()
		return nil, errors.New("stream torn down")
	}
	d.reads++
	sample := d.sample
	d.mu.Unlock()

	time.Sleep(time.Millisecond)
	frame := make([]int16, framesPerBuffer)
	for i := range frame {
		frame[i] = sample
	}
	return frame, nil
}

func (d *fakeInput) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

type fakeAcquirer struct {
	mu       sync.Mutex
	device   *fakeInput
	err      *Error
	acquired int
}

func (a *fakeAcquirer) Acquire(ctx context.Context, cfg Config) (InputDevice, *Error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acquired++
	if a.err != nil {
		return nil, a.err
	}
	return a.device, nil
}

// fakeOutput records everything written to it. The per-write delay paces
// playback so tests can observe intermediate states.
type fakeOutput struct {
	mu       sync.Mutex
	written  []int16
	writes   int
	failNow  bool
	started  bool
	delay    time.Duration
	startErr error
}

func (d *fakeOutput) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.startErr != nil {
		return d.startErr
	}
	d.started = true
	return nil
}

func (d *fakeOutput) WriteFrame(pcm []int16) error {
	d.mu.Lock()
	if d.failNow {
		d.mu.Unlock()
		return errors.New("underrun")
	}
	d.written = append(d.written, pcm...)
	d.writes++
	delay := d.delay
	d.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	return nil
}

func (d *fakeOutput) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.started = false
	return nil
}

func (d *fakeOutput) Close() error { return nil }

func (d *fakeOutput) totalWrites() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writes
}

type fakeOpener struct {
	mu     sync.Mutex
	out    *fakeOutput
	err    *Error
	opened int
}

func (o *fakeOpener) Open(sampleRate, channels int) (OutputDevice, *Error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opened++
	if o.err != nil {
		return nil, o.err
	}
	return o.out, nil
}

// recordingEvents collects listener callbacks for assertions.
type recordingEvents struct {
	mu     sync.Mutex
	states []CaptureState
	levels []float64
	errs   []*Error
}

func (e *recordingEvents) OnStateChange(s CaptureState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.states = append(e.states, s)
}

func (e *recordingEvents) OnLevel(level float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.levels = append(e.levels, level)
}

func (e *recordingEvents) OnError(err *Error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errs = append(e.errs, err)
}

func (e *recordingEvents) lastError() *Error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.errs) == 0 {
		return nil
	}
	return e.errs[len(e.errs)-1]
}

func (e *recordingEvents) sawState(s CaptureState) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, got := range e.states {
		if got == s {
			return true
		}
	}
	return false
}

type playbackEvents struct {
	mu     sync.Mutex
	states []PlayState
	errs   []*Error
}

func (e *playbackEvents) OnStateChange(s PlayState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.states = append(e.states, s)
}

func (e *playbackEvents) OnError(err *Error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errs = append(e.errs, err)
}

// monoWAV builds a playable PCM16 WAV payload from raw samples.
func monoWAV(samples []int16, sampleRate uint32) []byte {
	raw := make([]byte, len(samples)*2)
	for i, s := range samples {
		raw[i*2] = byte(uint16(s))
		raw[i*2+1] = byte(uint16(s) >> 8)
	}
	return writeWAV(raw, sampleRate, 1)
}

func constSamples(value int16, n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = value
	}
	return out
}
