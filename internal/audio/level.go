// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_audio

import (
	"math"
	"math/cmplx"
	"sync"
	"time"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/rapidaai/celpip-practice/pkg/commons"
	"github.com/rapidaai/celpip-practice/pkg/utils"
)

// fftWindow is the number of most-recent samples analyzed per tick.
const fftWindow = 1024

// levelInterval approximates animation-frame cadence.
const levelInterval = 16 * time.Millisecond

// levelMonitor taps the live PCM window of a recording or playback session
// and reports a normalized 0..1 amplitude at frame cadence. It is a UI
// nicety: every failure path degrades to silence, never to a session error.
// The ticker is cancelled the moment stop is called; samples that race a
// stop are dropped.
type levelMonitor struct {
	logger   commons.Logger
	window   func() []int16 // latest samples, newest last
	onSample func(LevelSample)

	fft  *fourier.FFT
	seq  []float64
	mags []float64

	started  bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// LevelSample is one transient visualization reading.
type LevelSample struct {
	// Level is the normalized average magnitude across frequency bins.
	Level float64
	// Frequency holds per-bin normalized magnitudes, TimeDomain the raw
	// window scaled to [-1, 1]. Both are nil when only the scalar level was
	// requested.
	Frequency  []float64
	TimeDomain []float64
}

func newLevelMonitor(logger commons.Logger, window func() []int16, onSample func(LevelSample)) *levelMonitor {
	return &levelMonitor{
		logger:   logger,
		window:   window,
		onSample: onSample,
		fft:      fourier.NewFFT(fftWindow),
		seq:      make([]float64, fftWindow),
		mags:     make([]float64, fftWindow/2+1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (m *levelMonitor) start(withSpectrum bool) {
	m.started = true
	go m.run(withSpectrum)
}

func (m *levelMonitor) run(withSpectrum bool) {
	defer close(m.doneCh)
	defer func() {
		// An analysis fault must never take down the owning session.
		if r := recover(); r != nil {
			m.logger.Debugf("audio: level monitor degraded: %v", r)
		}
	}()

	ticker := time.NewTicker(levelInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			sample, ok := m.analyze(withSpectrum)
			if !ok {
				continue
			}
			select {
			case <-m.stopCh:
				return
			default:
				m.onSample(sample)
			}
		}
	}
}

func (m *levelMonitor) analyze(withSpectrum bool) (LevelSample, bool) {
	pcm := m.window()
	if len(pcm) == 0 {
		return LevelSample{}, false
	}

	// Right-align the newest samples in the analysis window, zero-padded.
	for i := range m.seq {
		m.seq[i] = 0
	}
	offset := fftWindow - len(pcm)
	if offset < 0 {
		pcm = pcm[len(pcm)-fftWindow:]
		offset = 0
	}
	for i, s := range pcm {
		m.seq[offset+i] = float64(s) / math.MaxInt16
	}

	coeffs := m.fft.Coefficients(nil, m.seq)
	var sum float64
	for i, c := range coeffs {
		// Scale so a full-amplitude tone lands near 1.0 in its bin.
		mag := cmplx.Abs(c) * 2 / fftWindow
		m.mags[i] = mag
		sum += mag
	}
	level := utils.Clamp(sum/float64(len(coeffs))*8, 0, 1)

	sample := LevelSample{Level: level}
	if withSpectrum {
		sample.Frequency = append([]float64(nil), m.mags...)
		td := make([]float64, len(m.seq))
		copy(td, m.seq)
		sample.TimeDomain = td
	}
	return sample, true
}

// stop cancels the sampling ticker; safe to call more than once, and from
// any goroutine. Returns once the monitor goroutine exited.
func (m *levelMonitor) stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
	if m.started {
		<-m.doneCh
	}
}
