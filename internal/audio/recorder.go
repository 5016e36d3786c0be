// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_audio

import (
	"context"
	"sync"
	"time"

	"github.com/rapidaai/celpip-practice/pkg/commons"
)

// CaptureState names the recording session states.
type CaptureState string

const (
	CaptureIdle       CaptureState = "idle"
	CaptureRequesting CaptureState = "requesting"
	CaptureRecording  CaptureState = "recording"
	CapturePaused     CaptureState = "paused"
	CaptureStopped    CaptureState = "stopped"
	CaptureError      CaptureState = "error"
)

// DefaultSliceInterval is the chunk cadence: partial data exists even if the
// process dies mid-capture.
const DefaultSliceInterval = 100 * time.Millisecond

// RecordingState is the synchronous snapshot callers poll between callbacks.
type RecordingState struct {
	State       CaptureState
	IsRecording bool
	IsPaused    bool
	// Duration is elapsed capture time in seconds, paused intervals excluded.
	Duration   float64
	AudioLevel float64
}

// EncodedAudio is the finalized, immutable output of a recording session.
type EncodedAudio struct {
	Data     []byte
	Format   Format
	Duration float64
}

// Result is what StopRecording hands back.
type Result struct {
	Success  bool
	Audio    *EncodedAudio
	Duration float64
	Format   Format
	Err      *Error
}

// Listener receives pushed session events. The recorder decides when to
// notify; callers never poll for transitions. Level callbacks are best-effort
// and may be dropped under load.
type Listener interface {
	OnStateChange(CaptureState)
	OnLevel(level float64)
	OnError(err *Error)
}

// RecorderOption customizes construction.
type RecorderOption func(*Recorder)

// WithCaptureConfig overrides the default 48 kHz mono capture graph.
func WithCaptureConfig(cfg Config) RecorderOption {
	return func(r *Recorder) { r.cfg = cfg }
}

// WithFormatPreference overrides the container probe order.
func WithFormatPreference(prefs []Format) RecorderOption {
	return func(r *Recorder) { r.prefs = prefs }
}

// WithSliceInterval overrides the chunk cadence.
func WithSliceInterval(d time.Duration) RecorderOption {
	return func(r *Recorder) { r.sliceInterval = d }
}

// WithClock injects a clock for tests.
func WithClock(clock func() time.Time) RecorderOption {
	return func(r *Recorder) { r.clock = clock }
}

// Recorder drives one microphone capture session at a time: acquire a device,
// negotiate a container, accumulate ordered chunks at the slice cadence, and
// finalize them into a single EncodedAudio on stop. The device handle is
// exclusively owned between acquisition and stop; a new start while a handle
// is held reuses it instead of re-prompting.
type Recorder struct {
	logger   commons.Logger
	acquirer Acquirer
	registry *EncoderRegistry
	cfg      Config
	prefs    []Format

	sliceInterval time.Duration
	clock         func() time.Time

	mu          sync.Mutex
	state       CaptureState
	device      InputDevice
	encoder     StreamEncoder
	chunks      [][]int16
	sliceBuf    []int16
	accumulated time.Duration
	anchor      time.Time
	lastLevel   float64
	lastResult  *Result
	listener    Listener

	monitor  *levelMonitor
	windowMu sync.Mutex
	window   []int16

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewRecorder wires a recorder over the given device acquirer.
func NewRecorder(logger commons.Logger, acquirer Acquirer, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		logger:        logger,
		acquirer:      acquirer,
		registry:      NewEncoderRegistry(logger),
		cfg:           DefaultCaptureConfig,
		prefs:         DefaultFormatPreference,
		sliceInterval: DefaultSliceInterval,
		clock:         time.Now,
		state:         CaptureIdle,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetListener registers the session observer. Pass nil to detach.
func (r *Recorder) SetListener(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listener = l
}

// RequestPermission acquires the input device ahead of recording. Idempotent:
// a held handle returns true immediately without re-prompting. Denial or
// missing platform support returns false and pushes a typed error to the
// listener.
func (r *Recorder) RequestPermission(ctx context.Context) bool {
	r.mu.Lock()
	if r.device != nil {
		r.mu.Unlock()
		return true
	}
	r.setStateLocked(CaptureRequesting)
	r.mu.Unlock()

	device, aerr := r.acquirer.Acquire(ctx, r.cfg)

	r.mu.Lock()
	defer r.mu.Unlock()
	if aerr != nil {
		r.logger.Warnf("recorder: device acquisition failed: %v", aerr)
		r.setStateLocked(CaptureError)
		r.notifyErrorLocked(aerr)
		return false
	}
	r.device = device
	if r.state == CaptureRequesting {
		r.setStateLocked(CaptureIdle)
	}
	return true
}

// StartRecording begins a new session. It acquires a device implicitly when
// none is held, resets any prior chunk buffer, negotiates the container
// format, and starts chunked capture plus the level monitor. A failed start
// leaves any previously finalized EncodedAudio untouched.
func (r *Recorder) StartRecording(ctx context.Context) bool {
	r.mu.Lock()
	if r.state == CaptureRecording || r.state == CapturePaused {
		r.mu.Unlock()
		r.logger.Warnf("recorder: start ignored, session already active")
		return false
	}
	r.mu.Unlock()

	if !r.RequestPermission(ctx) {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	factory, nerr := r.registry.Negotiate(r.prefs)
	if nerr != nil {
		r.setStateLocked(CaptureError)
		r.notifyErrorLocked(nerr)
		return false
	}
	encoder, err := factory.New(r.cfg)
	if err != nil {
		derr := newError(ErrDeviceError, "encoder construction failed", err)
		r.setStateLocked(CaptureError)
		r.notifyErrorLocked(derr)
		return false
	}

	r.encoder = encoder
	r.chunks = nil
	r.sliceBuf = nil
	r.accumulated = 0
	r.anchor = r.clock()
	r.lastLevel = 0
	r.windowMu.Lock()
	r.window = nil
	r.windowMu.Unlock()

	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	go r.captureLoop(r.device, r.stopCh, r.doneCh)

	if r.listener != nil {
		r.monitor = newLevelMonitor(r.logger, r.snapshotWindow, r.emitLevel)
		r.monitor.start(false)
	}

	r.logger.Infof("recorder: recording started format=%s slice=%s", encoder.Format(), r.sliceInterval)
	r.setStateLocked(CaptureRecording)
	return true
}

// PauseRecording is valid only while recording. The level monitor stops the
// instant the session leaves the active state.
func (r *Recorder) PauseRecording() bool {
	r.mu.Lock()
	if r.state != CaptureRecording {
		r.mu.Unlock()
		return false
	}
	r.accumulated += r.clock().Sub(r.anchor)
	r.setStateLocked(CapturePaused)
	monitor := r.monitor
	r.monitor = nil
	r.mu.Unlock()

	if monitor != nil {
		monitor.stop()
	}
	return true
}

// ResumeRecording re-bases the duration anchor so elapsed time excludes the
// paused interval exactly.
func (r *Recorder) ResumeRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != CapturePaused {
		return false
	}
	r.anchor = r.clock()
	r.setStateLocked(CaptureRecording)
	if r.listener != nil && r.monitor == nil {
		r.monitor = newLevelMonitor(r.logger, r.snapshotWindow, r.emitLevel)
		r.monitor.start(false)
	}
	return true
}

// StopRecording finalizes the session: waits for the capture loop to confirm
// it stopped (no chunk dropped or duplicated), concatenates the chunks into
// one encoded payload, releases the device and the monitor. Stopping an
// already stopped recorder is a no-op returning the prior result.
func (r *Recorder) StopRecording() Result {
	r.mu.Lock()
	switch r.state {
	case CaptureRecording:
		r.accumulated += r.clock().Sub(r.anchor)
	case CapturePaused:
		// accumulated already includes everything up to the pause
	case CaptureStopped:
		res := *r.lastResult
		r.mu.Unlock()
		return res
	default:
		r.mu.Unlock()
		return Result{Success: false, Err: newError(ErrDeviceError, "no active recording to stop", nil)}
	}

	stopCh, doneCh := r.stopCh, r.doneCh
	monitor := r.monitor
	r.monitor = nil
	r.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-doneCh // capture loop flushed its partial slice
	}
	if monitor != nil {
		monitor.stop()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.device != nil {
		if err := r.device.Close(); err != nil {
			r.logger.Warnf("recorder: device release failed: %v", err)
		}
		r.device = nil
	}

	duration := r.accumulated.Seconds()
	result := Result{Duration: duration}

	if len(r.chunks) == 0 {
		result.Err = newError(ErrDeviceError, "no audio captured", nil)
	} else if r.encoder == nil {
		result.Err = newError(ErrDeviceError, "no encoder for session", nil)
	} else if payload, err := r.encoder.Finalize(); err != nil {
		result.Err = newError(ErrDeviceError, "encoding failed", err)
	} else {
		result.Success = true
		result.Format = r.encoder.Format()
		result.Audio = &EncodedAudio{Data: payload, Format: result.Format, Duration: duration}
	}

	r.encoder = nil
	r.lastResult = &result
	r.setStateLocked(CaptureStopped)
	if !result.Success {
		r.notifyErrorLocked(result.Err)
	}
	r.logger.Infof("recorder: recording stopped duration=%.2fs chunks=%d success=%t",
		duration, len(r.chunks), result.Success)
	return result
}

// State returns a synchronous snapshot of the session.
func (r *Recorder) State() RecordingState {
	r.mu.Lock()
	defer r.mu.Unlock()
	duration := r.accumulated
	if r.state == CaptureRecording {
		duration += r.clock().Sub(r.anchor)
	}
	return RecordingState{
		State:       r.state,
		IsRecording: r.state == CaptureRecording,
		IsPaused:    r.state == CapturePaused,
		Duration:    duration.Seconds(),
		AudioLevel:  r.lastLevel,
	}
}

// Dispose releases everything; safe to call repeatedly and from any state.
func (r *Recorder) Dispose() {
	r.mu.Lock()
	active := r.state == CaptureRecording || r.state == CapturePaused
	r.mu.Unlock()
	if active {
		r.StopRecording()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.device != nil {
		r.device.Close()
		r.device = nil
	}
	r.listener = nil
	r.setStateLocked(CaptureIdle)
}

// captureLoop reads device frames until stopped, assembling them into
// slice-interval chunks. Chunks are append-only and strictly ordered; frames
// read while paused are discarded so the finalized payload matches the
// pause-aware duration.
func (r *Recorder) captureLoop(device InputDevice, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	samplesPerSlice := int(float64(r.cfg.SampleRate)*r.sliceInterval.Seconds()) * int(r.cfg.Channels)

	for {
		select {
		case <-stopCh:
			r.flushSlice()
			return
		default:
		}

		frame, err := device.ReadFrame()
		if err != nil {
			select {
			case <-stopCh:
				// Read failure racing a deliberate stop is expected.
				r.flushSlice()
				return
			default:
			}
			derr := newError(ErrDeviceError, "input device failed mid-capture", err)
			r.mu.Lock()
			r.logger.Errorf("recorder: %v", derr)
			r.setStateLocked(CaptureError)
			r.notifyErrorLocked(derr)
			monitor := r.monitor
			r.monitor = nil
			r.mu.Unlock()
			if monitor != nil {
				monitor.stop()
			}
			return
		}

		r.mu.Lock()
		paused := r.state != CaptureRecording
		r.mu.Unlock()
		if paused {
			continue
		}

		r.pushWindow(frame)

		r.mu.Lock()
		r.sliceBuf = append(r.sliceBuf, frame...)
		if len(r.sliceBuf) >= samplesPerSlice {
			r.appendChunkLocked(r.sliceBuf[:samplesPerSlice])
			rest := r.sliceBuf[samplesPerSlice:]
			r.sliceBuf = append([]int16(nil), rest...)
		}
		r.mu.Unlock()
	}
}

// flushSlice commits the trailing partial slice as the final chunk.
func (r *Recorder) flushSlice() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sliceBuf) > 0 {
		r.appendChunkLocked(r.sliceBuf)
		r.sliceBuf = nil
	}
}

func (r *Recorder) appendChunkLocked(slice []int16) {
	chunk := make([]int16, len(slice))
	copy(chunk, slice)
	r.chunks = append(r.chunks, chunk)
	if r.encoder != nil {
		if err := r.encoder.Encode(chunk); err != nil {
			r.logger.Errorf("recorder: chunk encode failed: %v", err)
			r.notifyErrorLocked(newError(ErrDeviceError, "chunk encode failed", err))
		}
	}
}

func (r *Recorder) pushWindow(frame []int16) {
	r.windowMu.Lock()
	r.window = append(r.window, frame...)
	if len(r.window) > fftWindow {
		r.window = r.window[len(r.window)-fftWindow:]
	}
	r.windowMu.Unlock()
}

func (r *Recorder) snapshotWindow() []int16 {
	r.windowMu.Lock()
	defer r.windowMu.Unlock()
	out := make([]int16, len(r.window))
	copy(out, r.window)
	return out
}

func (r *Recorder) emitLevel(sample LevelSample) {
	r.mu.Lock()
	r.lastLevel = sample.Level
	listener := r.listener
	active := r.state == CaptureRecording
	r.mu.Unlock()
	if listener != nil && active {
		listener.OnLevel(sample.Level)
	}
}

func (r *Recorder) setStateLocked(s CaptureState) {
	if r.state == s {
		return
	}
	r.state = s
	if r.listener != nil {
		// Callbacks run outside the lock; a listener calling back into the
		// recorder must not deadlock.
		listener := r.listener
		go listener.OnStateChange(s)
	}
}

func (r *Recorder) notifyErrorLocked(err *Error) {
	if r.listener != nil {
		listener := r.listener
		go listener.OnError(err)
	}
}
