// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_audio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecorder(t *testing.T, acquirer Acquirer, clock *manualClock) *Recorder {
	t.Helper()
	return NewRecorder(nopLogger{}, acquirer,
		WithFormatPreference([]Format{FormatWAV}),
		WithClock(clock.Now),
	)
}

func TestRecorderFullSession(t *testing.T) {
	clock := newManualClock()
	acquirer := &fakeAcquirer{device: newFakeInput(1000)}
	recorder := newTestRecorder(t, acquirer, clock)

	require.True(t, recorder.StartRecording(context.Background()))
	state := recorder.State()
	assert.True(t, state.IsRecording)
	assert.False(t, state.IsPaused)

	clock.Advance(2500 * time.Millisecond)
	time.Sleep(20 * time.Millisecond) // let the capture loop read some frames

	result := recorder.StopRecording()
	require.True(t, result.Success, "stop should finalize: %v", result.Err)
	require.NotNil(t, result.Audio)
	assert.Equal(t, FormatWAV, result.Format)
	assert.InDelta(t, 2.5, result.Duration, 0.001)
	assert.Equal(t, result.Duration, result.Audio.Duration)

	// The finalized payload must decode back to the captured samples intact.
	stream, err := decodePCM(result.Audio.Data, FormatWAV)
	require.NoError(t, err)
	assert.Equal(t, 48000, stream.sampleRate)
	assert.Equal(t, 1, stream.channels)
	require.NotEmpty(t, stream.pcm)
	for _, s := range stream.pcm {
		require.EqualValues(t, 1000, s)
	}
}

func TestRecorderPausedIntervalsExcludedFromDuration(t *testing.T) {
	clock := newManualClock()
	recorder := newTestRecorder(t, &fakeAcquirer{device: newFakeInput(200)}, clock)

	require.True(t, recorder.StartRecording(context.Background()))
	clock.Advance(time.Second)

	require.True(t, recorder.PauseRecording())
	assert.True(t, recorder.State().IsPaused)
	clock.Advance(5 * time.Second) // paused time must not count
	assert.InDelta(t, 1.0, recorder.State().Duration, 0.001)

	require.True(t, recorder.ResumeRecording())
	clock.Advance(time.Second)
	time.Sleep(10 * time.Millisecond)

	result := recorder.StopRecording()
	require.True(t, result.Success)
	assert.InDelta(t, 2.0, result.Duration, 0.001)
}

func TestRecorderPauseResumeOnlyValidInState(t *testing.T) {
	clock := newManualClock()
	recorder := newTestRecorder(t, &fakeAcquirer{device: newFakeInput(1)}, clock)

	assert.False(t, recorder.PauseRecording(), "pause before start")
	assert.False(t, recorder.ResumeRecording(), "resume before start")

	require.True(t, recorder.StartRecording(context.Background()))
	assert.False(t, recorder.ResumeRecording(), "resume while recording")
	require.True(t, recorder.PauseRecording())
	assert.False(t, recorder.PauseRecording(), "double pause")

	recorder.StopRecording()
	assert.False(t, recorder.PauseRecording(), "pause after stop")
}

func TestRecorderStopIsIdempotent(t *testing.T) {
	clock := newManualClock()
	recorder := newTestRecorder(t, &fakeAcquirer{device: newFakeInput(42)}, clock)

	require.True(t, recorder.StartRecording(context.Background()))
	clock.Advance(time.Second)
	time.Sleep(10 * time.Millisecond)

	first := recorder.StopRecording()
	second := recorder.StopRecording()
	require.True(t, first.Success)
	assert.Equal(t, first.Duration, second.Duration)
	assert.Equal(t, first.Success, second.Success)
	require.NotNil(t, second.Audio)
	assert.Equal(t, first.Audio.Data, second.Audio.Data)
}

func TestRecorderStopWithoutSession(t *testing.T) {
	clock := newManualClock()
	recorder := newTestRecorder(t, &fakeAcquirer{device: newFakeInput(1)}, clock)

	result := recorder.StopRecording()
	assert.False(t, result.Success)
	require.NotNil(t, result.Err)
	assert.Equal(t, ErrDeviceError, result.Err.Code)
}

func TestRecorderPermissionDenied(t *testing.T) {
	clock := newManualClock()
	acquirer := &fakeAcquirer{err: newError(ErrPermissionDenied, "microphone access denied", nil)}
	recorder := newTestRecorder(t, acquirer, clock)
	events := &recordingEvents{}
	recorder.SetListener(events)

	assert.False(t, recorder.RequestPermission(context.Background()))
	assert.False(t, recorder.StartRecording(context.Background()))
	assert.Equal(t, CaptureError, recorder.State().State)

	require.Eventually(t, func() bool { return events.lastError() != nil },
		time.Second, 5*time.Millisecond)
	assert.Equal(t, ErrPermissionDenied, events.lastError().Code)
}

func TestRecorderPermissionIsIdempotent(t *testing.T) {
	clock := newManualClock()
	acquirer := &fakeAcquirer{device: newFakeInput(1)}
	recorder := newTestRecorder(t, acquirer, clock)

	require.True(t, recorder.RequestPermission(context.Background()))
	require.True(t, recorder.RequestPermission(context.Background()))
	assert.Equal(t, 1, acquirer.acquired, "held device must not re-prompt")

	// StartRecording reuses the held handle too.
	require.True(t, recorder.StartRecording(context.Background()))
	assert.Equal(t, 1, acquirer.acquired)
	recorder.StopRecording()
}

func TestRecorderStartWhileActive(t *testing.T) {
	clock := newManualClock()
	recorder := newTestRecorder(t, &fakeAcquirer{device: newFakeInput(1)}, clock)

	require.True(t, recorder.StartRecording(context.Background()))
	assert.False(t, recorder.StartRecording(context.Background()))

	require.True(t, recorder.PauseRecording())
	assert.False(t, recorder.StartRecording(context.Background()), "paused still owns the session")
	recorder.StopRecording()
}

func TestRecorderDeviceFailureMidCapture(t *testing.T) {
	clock := newManualClock()
	device := newFakeInput(1)
	device.failAfter = 3
	recorder := newTestRecorder(t, &fakeAcquirer{device: device}, clock)
	events := &recordingEvents{}
	recorder.SetListener(events)

	require.True(t, recorder.StartRecording(context.Background()))

	require.Eventually(t, func() bool {
		return recorder.State().State == CaptureError
	}, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return events.lastError() != nil },
		time.Second, 5*time.Millisecond)
	assert.Equal(t, ErrDeviceError, events.lastError().Code)
}

func TestRecorderListenerObservesTransitions(t *testing.T) {
	clock := newManualClock()
	recorder := newTestRecorder(t, &fakeAcquirer{device: newFakeInput(800)}, clock)
	events := &recordingEvents{}
	recorder.SetListener(events)

	require.True(t, recorder.StartRecording(context.Background()))
	clock.Advance(500 * time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	require.True(t, recorder.PauseRecording())
	require.True(t, recorder.ResumeRecording())
	recorder.StopRecording()

	require.Eventually(t, func() bool {
		return events.sawState(CaptureRecording) &&
			events.sawState(CapturePaused) &&
			events.sawState(CaptureStopped)
	}, time.Second, 5*time.Millisecond)
}

func TestRecorderDisposeIsIdempotent(t *testing.T) {
	clock := newManualClock()
	device := newFakeInput(1)
	recorder := newTestRecorder(t, &fakeAcquirer{device: device}, clock)

	require.True(t, recorder.StartRecording(context.Background()))
	clock.Advance(time.Second)
	time.Sleep(10 * time.Millisecond)

	recorder.Dispose()
	recorder.Dispose()
	assert.Equal(t, CaptureIdle, recorder.State().State)

	device.mu.Lock()
	closed := device.closed
	device.mu.Unlock()
	assert.True(t, closed, "dispose must release the device")
}

func TestRecorderNoSupportedFormat(t *testing.T) {
	clock := newManualClock()
	recorder := NewRecorder(nopLogger{}, &fakeAcquirer{device: newFakeInput(1)},
		WithFormatPreference([]Format{FormatMP3}),
		WithClock(clock.Now),
	)
	events := &recordingEvents{}
	recorder.SetListener(events)

	assert.False(t, recorder.StartRecording(context.Background()))
	require.Eventually(t, func() bool { return events.lastError() != nil },
		time.Second, 5*time.Millisecond)
	assert.Equal(t, ErrNoSupportedFormat, events.lastError().Code)
}
