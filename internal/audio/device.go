// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_audio

import (
	"context"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/rapidaai/celpip-practice/pkg/commons"
)

// framesPerBuffer is 10 ms of audio at the default capture rate; small enough
// that level samples stay responsive, large enough to keep syscall overhead down.
const framesPerBuffer = 480

// InputDevice is an exclusively owned capture handle. ReadFrame blocks until
// one hardware buffer of interleaved samples is available.
type InputDevice interface {
	ReadFrame() ([]int16, error)
	Close() error
}

// OutputDevice is an exclusively owned playback sink.
type OutputDevice interface {
	Start() error
	WriteFrame(pcm []int16) error
	Stop() error
	Close() error
}

// Acquirer obtains input devices from the host. Acquisition may prompt the
// user or fail with a typed code; both happen at most once per call.
type Acquirer interface {
	Acquire(ctx context.Context, cfg Config) (InputDevice, *Error)
}

// OutputOpener produces playback sinks for a decoded stream's native rate.
type OutputOpener interface {
	Open(sampleRate, channels int) (OutputDevice, *Error)
}

// DeviceInfo describes one host audio device.
type DeviceInfo struct {
	Name              string
	MaxInputChannels  int
	MaxOutputChannels int
	DefaultSampleRate float64
	IsDefaultInput    bool
	IsDefaultOutput   bool
}

// ListDevices enumerates the host's audio devices.
func ListDevices(logger commons.Logger) ([]DeviceInfo, error) {
	if err := ensurePortaudio(); err != nil {
		return nil, err
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	defaultIn, _ := portaudio.DefaultInputDevice()
	defaultOut, _ := portaudio.DefaultOutputDevice()

	infos := make([]DeviceInfo, 0, len(devices))
	for _, d := range devices {
		infos = append(infos, DeviceInfo{
			Name:              d.Name,
			MaxInputChannels:  d.MaxInputChannels,
			MaxOutputChannels: d.MaxOutputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
			IsDefaultInput:    defaultIn != nil && d == defaultIn,
			IsDefaultOutput:   defaultOut != nil && d == defaultOut,
		})
	}
	logger.Debugf("audio: host reports %d devices", len(infos))
	return infos, nil
}

// --- PortAudio implementations ---

var (
	paInitOnce sync.Once
	paInitErr  error
)

func ensurePortaudio() error {
	paInitOnce.Do(func() {
		paInitErr = portaudio.Initialize()
	})
	return paInitErr
}

type portaudioAcquirer struct {
	logger commons.Logger
}

// NewPortaudioAcquirer returns the production input acquirer.
func NewPortaudioAcquirer(logger commons.Logger) Acquirer {
	return &portaudioAcquirer{logger: logger}
}

func (a *portaudioAcquirer) Acquire(ctx context.Context, cfg Config) (InputDevice, *Error) {
	if err := ctx.Err(); err != nil {
		return nil, newError(ErrDeviceError, "acquisition cancelled", err)
	}
	if err := ensurePortaudio(); err != nil {
		return nil, newError(ErrNotSupported, "audio subsystem unavailable", err)
	}

	// PortAudio has no per-stream processing knobs; the echo-cancellation,
	// noise-suppression and auto-gain hints ride on the OS default device
	// configuration. Log so a surprised operator can see what was requested.
	a.logger.Debugf("audio: acquiring input device rate=%d channels=%d aec=%t ns=%t agc=%t",
		cfg.SampleRate, cfg.Channels, cfg.EchoCancellation, cfg.NoiseSuppression, cfg.AutoGainControl)

	buf := make([]int16, framesPerBuffer*int(cfg.Channels))
	stream, err := portaudio.OpenDefaultStream(int(cfg.Channels), 0, float64(cfg.SampleRate), framesPerBuffer, buf)
	if err != nil {
		// No default input device reads as a denial from the user's point of
		// view; everything else is a hardware fault.
		if _, devErr := portaudio.DefaultInputDevice(); devErr != nil {
			return nil, newError(ErrPermissionDenied, "no input device available", err)
		}
		return nil, newError(ErrDeviceError, "unable to open input device", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, newError(ErrDeviceError, "unable to start input stream", err)
	}
	return &portaudioInput{stream: stream, buf: buf}, nil
}

type portaudioInput struct {
	stream *portaudio.Stream
	buf    []int16
	mu     sync.Mutex
	closed bool
}

func (d *portaudioInput) ReadFrame() ([]int16, error) {
	if err := d.stream.Read(); err != nil {
		return nil, err
	}
	frame := make([]int16, len(d.buf))
	copy(frame, d.buf)
	return frame, nil
}

func (d *portaudioInput) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.stream.Stop()
	return d.stream.Close()
}

type portaudioOpener struct {
	logger commons.Logger
}

// NewPortaudioOpener returns the production output opener.
func NewPortaudioOpener(logger commons.Logger) OutputOpener {
	return &portaudioOpener{logger: logger}
}

func (o *portaudioOpener) Open(sampleRate, channels int) (OutputDevice, *Error) {
	if err := ensurePortaudio(); err != nil {
		return nil, newError(ErrNotSupported, "audio subsystem unavailable", err)
	}
	buf := make([]int16, framesPerBuffer*channels)
	stream, err := portaudio.OpenDefaultStream(0, channels, float64(sampleRate), framesPerBuffer, buf)
	if err != nil {
		return nil, newError(ErrDeviceError, "unable to open output device", err)
	}
	return &portaudioOutput{stream: stream, buf: buf}, nil
}

type portaudioOutput struct {
	stream  *portaudio.Stream
	buf     []int16
	mu      sync.Mutex
	started bool
	closed  bool
}

func (d *portaudioOutput) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return nil
	}
	if err := d.stream.Start(); err != nil {
		return err
	}
	d.started = true
	return nil
}

// WriteFrame blocks until the hardware consumed the frame; short frames are
// zero-padded to the device buffer size.
func (d *portaudioOutput) WriteFrame(pcm []int16) error {
	for i := range d.buf {
		if i < len(pcm) {
			d.buf[i] = pcm[i]
		} else {
			d.buf[i] = 0
		}
	}
	return d.stream.Write()
}

func (d *portaudioOutput) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.started {
		return nil
	}
	d.started = false
	return d.stream.Stop()
}

func (d *portaudioOutput) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.stream.Close()
}
