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

	"github.com/go-resty/resty/v2"

	"github.com/rapidaai/celpip-practice/pkg/commons"
	"github.com/rapidaai/celpip-practice/pkg/utils"
)

// PlayState names the playback session states.
type PlayState string

const (
	PlaybackIdle    PlayState = "idle"
	PlaybackLoading PlayState = "loading"
	PlaybackPlaying PlayState = "playing"
	PlaybackPaused  PlayState = "paused"
	PlaybackEnded   PlayState = "ended"
)

const (
	// MinPlaybackRate and MaxPlaybackRate bound SetPlaybackRate.
	MinPlaybackRate = 0.25
	MaxPlaybackRate = 4.0

	// DefaultLoadTimeout bounds remote source fetches.
	DefaultLoadTimeout = 15 * time.Second
)

// PlaybackState is the synchronous snapshot of a playback session.
type PlaybackState struct {
	State       PlayState
	CurrentTime float64
	Duration    float64
	IsPlaying   bool
	IsPaused    bool
	IsEnded     bool
	Volume      float64
	Rate        float64
	// Buffered estimates the loaded fraction of the source, 0..1.
	Buffered float64
	Err      *Error
}

// PlayerListener observes playback transitions and failures.
type PlayerListener interface {
	OnStateChange(PlayState)
	OnError(err *Error)
}

// PlayerOption customizes construction.
type PlayerOption func(*Player)

// WithLoadTimeout bounds how long a remote source may take to arrive.
func WithLoadTimeout(d time.Duration) PlayerOption {
	return func(p *Player) { p.loadTimeout = d }
}

// WithHTTPClient injects the fetch client (tests point it at a local server).
func WithHTTPClient(c *resty.Client) PlayerOption {
	return func(p *Player) { p.http = c }
}

// Player loads one audio source at a time and drives a single output device
// with transport controls. The decode/analysis resources are owned
// explicitly and torn down before a new source loads — playback contexts are
// finite platform resources, not garbage to be collected eventually.
type Player struct {
	logger      commons.Logger
	opener      OutputOpener
	http        *resty.Client
	loadTimeout time.Duration

	mu       sync.Mutex
	state    PlayState
	stream   *decodedStream
	pos      float64 // fractional frame cursor into the stream
	volume   float64
	rate     float64
	buffered float64
	lastErr  *Error
	out      OutputDevice
	listener PlayerListener
	onViz    func(LevelSample)
	disposed bool

	monitor  *levelMonitor
	windowMu sync.Mutex
	window   []int16

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewPlayer wires a playback engine over the given output opener.
func NewPlayer(logger commons.Logger, opener OutputOpener, opts ...PlayerOption) *Player {
	p := &Player{
		logger:      logger,
		opener:      opener,
		http:        resty.New(),
		loadTimeout: DefaultLoadTimeout,
		state:       PlaybackIdle,
		volume:      1.0,
		rate:        1.0,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetListener registers the session observer. Pass nil to detach.
func (p *Player) SetListener(l PlayerListener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listener = l
}

// SetVisualization registers a per-frame analysis consumer. The analysis tap
// is created lazily on the next Play and torn down on pause/end. Pass nil to
// disable.
func (p *Player) SetVisualization(cb func(LevelSample)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onViz = cb
}

// Load normalizes any source kind into a decoded stream and waits for its
// metadata (duration). Failures are classified — network, timeout, decode —
// and never leave the engine unable to accept a subsequent Load.
func (p *Player) Load(ctx context.Context, src Source) bool {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		p.logger.Warnf("player: load on disposed engine ignored")
		return false
	}
	p.haltLocked(true)
	p.stream = nil
	p.pos = 0
	p.buffered = 0
	p.lastErr = nil
	p.setStateLocked(PlaybackLoading)
	p.mu.Unlock()

	data, format, lerr := p.resolve(ctx, src)
	if lerr == nil {
		stream, err := decodePCM(data, format)
		if err != nil {
			lerr = newError(ErrDecodeFailed, "source cannot be decoded: "+err.Error(), err)
		} else if stream.frames() == 0 {
			lerr = newError(ErrDecodeFailed, "source decoded to zero samples", nil)
		} else {
			p.mu.Lock()
			p.stream = stream
			p.buffered = 1
			p.setStateLocked(PlaybackPaused)
			p.mu.Unlock()
			p.logger.Infof("player: loaded %s rate=%d channels=%d duration=%.2fs",
				src, stream.sampleRate, stream.channels, stream.duration())
			return true
		}
	}

	p.mu.Lock()
	p.lastErr = lerr
	p.setStateLocked(PlaybackIdle)
	p.notifyErrorLocked(lerr)
	p.mu.Unlock()
	p.logger.Warnf("player: load failed for %s: %v", src, lerr)
	return false
}

func (p *Player) resolve(ctx context.Context, src Source) ([]byte, Format, *Error) {
	switch src.kind {
	case sourceTransport:
		audio, err := FromTransportString(src.payload, src.format)
		if err != nil {
			return nil, "", err
		}
		return audio.Data, audio.Format, nil

	case sourceBlob:
		if len(src.blob) == 0 {
			return nil, "", newError(ErrDecodeFailed, "empty audio blob", nil)
		}
		return src.blob, src.format, nil

	case sourceURL:
		fetchCtx, cancel := context.WithTimeout(ctx, p.loadTimeout)
		defer cancel()
		resp, err := p.http.R().SetContext(fetchCtx).Get(src.payload)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, "", newError(ErrLoadTimeout, "remote source load stalled", err)
			}
			return nil, "", newError(ErrNetworkError, "remote source fetch failed", err)
		}
		if !resp.IsSuccess() {
			return nil, "", newError(ErrNetworkError, "remote source returned "+resp.Status(), nil)
		}
		format := FormatFromMIME(resp.Header().Get("Content-Type"))
		return resp.Body(), format, nil
	}
	return nil, "", newError(ErrDecodeFailed, "unknown source kind", nil)
}

// Play starts or resumes output. Returns false and surfaces an error when no
// source is loaded or the output device refuses to start.
func (p *Player) Play() bool {
	p.mu.Lock()
	if p.disposed || p.stream == nil {
		err := newError(ErrDecodeFailed, "no playable source loaded", nil)
		p.lastErr = err
		p.notifyErrorLocked(err)
		p.mu.Unlock()
		return false
	}
	if p.state == PlaybackPlaying {
		p.mu.Unlock()
		return true
	}
	if p.state == PlaybackEnded {
		p.pos = 0
	}

	if p.out == nil {
		out, oerr := p.opener.Open(p.stream.sampleRate, p.stream.channels)
		if oerr != nil {
			p.lastErr = oerr
			p.notifyErrorLocked(oerr)
			p.mu.Unlock()
			p.logger.Warnf("player: output open failed: %v", oerr)
			return false
		}
		p.out = out
	}
	if err := p.out.Start(); err != nil {
		derr := newError(ErrDeviceError, "output device refused to start", err)
		p.lastErr = derr
		p.notifyErrorLocked(derr)
		p.mu.Unlock()
		return false
	}

	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	go p.playLoop(p.out, p.stream, p.stopCh, p.doneCh)

	if p.onViz != nil && p.monitor == nil {
		p.monitor = newLevelMonitor(p.logger, p.snapshotWindow, p.emitViz)
		p.monitor.start(true)
	}

	p.setStateLocked(PlaybackPlaying)
	p.mu.Unlock()
	return true
}

// Pause halts output keeping the position.
func (p *Player) Pause() {
	p.mu.Lock()
	if p.state != PlaybackPlaying {
		p.mu.Unlock()
		return
	}
	p.haltLocked(false)
	p.setStateLocked(PlaybackPaused)
	p.mu.Unlock()
}

// Stop halts output and always resets the position to zero. Idempotent.
func (p *Player) Stop() {
	p.mu.Lock()
	p.haltLocked(false)
	p.pos = 0
	if p.stream != nil {
		p.setStateLocked(PlaybackPaused)
	} else {
		p.setStateLocked(PlaybackIdle)
	}
	p.mu.Unlock()
}

// SeekTo moves the cursor. Out-of-range requests are ignored silently —
// clamped behavior, no error.
func (p *Player) SeekTo(seconds float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stream == nil {
		return
	}
	if seconds < 0 || seconds > p.stream.duration() {
		return
	}
	p.pos = seconds * float64(p.stream.sampleRate)
	if p.state == PlaybackEnded {
		p.setStateLocked(PlaybackPaused)
	}
}

// SetVolume clamps into [0, 1]; any magnitude including ±Inf is accepted.
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = utils.Clamp(v, 0, 1)
}

// SetPlaybackRate clamps into [0.25, 4].
func (p *Player) SetPlaybackRate(r float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rate = utils.Clamp(r, MinPlaybackRate, MaxPlaybackRate)
}

// State returns a synchronous snapshot.
func (p *Player) State() PlaybackState {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := PlaybackState{
		State:    p.state,
		Volume:   p.volume,
		Rate:     p.rate,
		Buffered: p.buffered,
		Err:      p.lastErr,
	}
	if p.stream != nil {
		s.Duration = p.stream.duration()
		s.CurrentTime = utils.Clamp(p.pos/float64(p.stream.sampleRate), 0, s.Duration)
	}
	s.IsPlaying = p.state == PlaybackPlaying
	s.IsPaused = p.state == PlaybackPaused
	s.IsEnded = p.state == PlaybackEnded
	return s
}

// Dispose stops playback, releases the output device and analysis tap, and
// detaches listeners. Safe to call repeatedly; the engine is inert after.
func (p *Player) Dispose() {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return
	}
	p.haltLocked(true)
	p.stream = nil
	p.listener = nil
	p.onViz = nil
	p.disposed = true
	p.state = PlaybackIdle
	p.mu.Unlock()
	p.logger.Debugf("player: disposed")
}

// haltLocked stops the playback loop, the analysis tap, and optionally the
// output device. Called with p.mu held; drops and reacquires it while
// waiting for the loop to confirm exit.
func (p *Player) haltLocked(releaseDevice bool) {
	stopCh, doneCh := p.stopCh, p.doneCh
	p.stopCh, p.doneCh = nil, nil
	monitor := p.monitor
	p.monitor = nil
	out := p.out
	if releaseDevice {
		p.out = nil
	}
	p.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-doneCh
	}
	if monitor != nil {
		monitor.stop()
	}
	if out != nil {
		out.Stop()
		if releaseDevice {
			out.Close()
		}
	}

	p.mu.Lock()
}

// playLoop feeds the output device, applying volume and fractional-step
// linear interpolation for the playback rate, until the stream ends or the
// session is halted.
func (p *Player) playLoop(out OutputDevice, stream *decodedStream, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ch := stream.channels
	frame := make([]int16, framesPerBuffer*ch)
	total := float64(stream.frames())

	for {
		select {
		case <-stopCh:
			return
		default:
		}

		p.mu.Lock()
		pos, rate, vol := p.pos, p.rate, p.volume
		p.mu.Unlock()

		if pos >= total-1 {
			p.finish()
			return
		}

		n := 0
		for f := 0; f < framesPerBuffer && pos < total-1; f++ {
			i0 := int(pos)
			frac := pos - float64(i0)
			for c := 0; c < ch; c++ {
				a := float64(stream.pcm[i0*ch+c])
				b := a
				if (i0+1)*ch+c < len(stream.pcm) {
					b = float64(stream.pcm[(i0+1)*ch+c])
				}
				sample := (a + frac*(b-a)) * vol
				frame[f*ch+c] = int16(utils.Clamp(sample, -32768, 32767))
			}
			pos += rate
			n++
		}
		for i := n * ch; i < len(frame); i++ {
			frame[i] = 0
		}

		p.pushWindow(frame[:n*ch])

		if err := out.WriteFrame(frame); err != nil {
			select {
			case <-stopCh:
				return
			default:
			}
			derr := newError(ErrDeviceError, "output device failed mid-playback", err)
			p.mu.Lock()
			p.logger.Errorf("player: %v", derr)
			p.lastErr = derr
			p.notifyErrorLocked(derr)
			p.mu.Unlock()
			p.finishMonitorOnly()
			return
		}

		p.mu.Lock()
		p.pos = pos
		p.mu.Unlock()
	}
}

// finish transitions to ended when playback drains naturally.
func (p *Player) finish() {
	p.mu.Lock()
	monitor := p.monitor
	p.monitor = nil
	p.stopCh, p.doneCh = nil, nil
	if p.stream != nil {
		p.pos = float64(p.stream.frames())
	}
	p.setStateLocked(PlaybackEnded)
	out := p.out
	p.mu.Unlock()

	if monitor != nil {
		monitor.stop()
	}
	if out != nil {
		out.Stop()
	}
}

func (p *Player) finishMonitorOnly() {
	p.mu.Lock()
	monitor := p.monitor
	p.monitor = nil
	p.stopCh, p.doneCh = nil, nil
	p.setStateLocked(PlaybackPaused)
	p.mu.Unlock()
	if monitor != nil {
		monitor.stop()
	}
}

func (p *Player) pushWindow(frame []int16) {
	p.windowMu.Lock()
	p.window = append(p.window, frame...)
	if len(p.window) > fftWindow {
		p.window = p.window[len(p.window)-fftWindow:]
	}
	p.windowMu.Unlock()
}

func (p *Player) snapshotWindow() []int16 {
	p.windowMu.Lock()
	defer p.windowMu.Unlock()
	out := make([]int16, len(p.window))
	copy(out, p.window)
	return out
}

func (p *Player) emitViz(sample LevelSample) {
	p.mu.Lock()
	cb := p.onViz
	active := p.state == PlaybackPlaying
	p.mu.Unlock()
	if cb != nil && active {
		// Visualization is best-effort; a panicking consumer must not take
		// down playback.
		defer func() { recover() }()
		cb(sample)
	}
}

func (p *Player) setStateLocked(s PlayState) {
	if p.state == s {
		return
	}
	p.state = s
	if p.listener != nil {
		listener := p.listener
		go listener.OnStateChange(s)
	}
}

func (p *Player) notifyErrorLocked(err *Error) {
	if p.listener != nil {
		listener := p.listener
		go listener.OnError(err)
	}
}
