// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	internal_audio "github.com/rapidaai/celpip-practice/internal/audio"
)

const meterWidth = 30

// recordingObserver renders the live level meter and, when a monitor
// connection is up, forwards level frames to the server so watchers can
// follow the session.
type recordingObserver struct {
	monitor *websocket.Conn
}

func (o *recordingObserver) OnStateChange(state internal_audio.CaptureState) {}

func (o *recordingObserver) OnLevel(level float64) {
	filled := int(level * meterWidth)
	if filled > meterWidth {
		filled = meterWidth
	}
	fmt.Printf("\r  [%s%s] %3.0f%%",
		strings.Repeat("#", filled),
		strings.Repeat("-", meterWidth-filled),
		level*100)

	if o.monitor != nil {
		// best effort; a broken monitor must not interrupt the recording
		o.monitor.WriteJSON(map[string]any{"level": level})
	}
}

func (o *recordingObserver) OnError(err *internal_audio.Error) {
	fmt.Printf("\nrecording error: %v\n", err)
}

// dialMonitor connects the publisher side of the server's session monitor.
// Failure is tolerated: the CLI records fine without an audience.
func dialMonitor(cli *cliContext, sessionID string) *websocket.Conn {
	if sessionID == "" {
		return nil
	}
	wsURL := strings.Replace(cli.cfg.ServerUrl, "http", "ws", 1) +
		"/v1/monitor/" + sessionID + "?role=publish"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		cli.logger.Debugf("practice: monitor unavailable %v", err)
		return nil
	}
	return conn
}

func recordResponse(ctx context.Context, cli *cliContext, sessionID string, speakingSeconds int) (*internal_audio.Result, error) {
	recorder := internal_audio.NewRecorder(cli.logger, internal_audio.NewPortaudioAcquirer(cli.logger))
	defer recorder.Dispose()

	observer := &recordingObserver{monitor: dialMonitor(cli, sessionID)}
	if observer.monitor != nil {
		defer observer.monitor.Close()
	}
	recorder.SetListener(observer)

	if !recorder.RequestPermission(ctx) {
		return nil, fmt.Errorf("microphone unavailable: %v", recorder.State())
	}

	fmt.Printf("\nRecording for up to %d seconds. Press Enter to stop early.\n", speakingSeconds)
	if !recorder.StartRecording(ctx) {
		return nil, fmt.Errorf("could not start recording")
	}

	stop := make(chan struct{})
	go func() {
		bufio.NewReader(os.Stdin).ReadString('\n')
		close(stop)
	}()

	select {
	case <-stop:
	case <-time.After(time.Duration(speakingSeconds) * time.Second):
	case <-ctx.Done():
	}

	result := recorder.StopRecording()
	if !result.Success {
		return nil, fmt.Errorf("recording failed: %v", result.Err)
	}
	return &result, nil
}

// playbackObserver waits for the session to reach a terminal state.
type playbackObserver struct {
	done chan struct{}
}

func (o *playbackObserver) OnStateChange(state internal_audio.PlayState) {
	if state == internal_audio.PlaybackEnded {
		select {
		case <-o.done:
		default:
			close(o.done)
		}
	}
}

func (o *playbackObserver) OnError(err *internal_audio.Error) {
	fmt.Printf("\nplayback error: %v\n", err)
	select {
	case <-o.done:
	default:
		close(o.done)
	}
}

func reviewPlayback(ctx context.Context, cli *cliContext, audio *internal_audio.EncodedAudio) error {
	player := internal_audio.NewPlayer(cli.logger, internal_audio.NewPortaudioOpener(cli.logger))
	defer player.Dispose()

	observer := &playbackObserver{done: make(chan struct{})}
	player.SetListener(observer)
	player.SetVisualization(func(sample internal_audio.LevelSample) {
		filled := int(sample.Level * meterWidth)
		if filled > meterWidth {
			filled = meterWidth
		}
		fmt.Printf("\r  [%s%s]", strings.Repeat("#", filled), strings.Repeat("-", meterWidth-filled))
	})

	if !player.Load(ctx, internal_audio.BlobSource(audio.Data, audio.Format)) {
		return fmt.Errorf("could not load the recording: %v", player.State().Err)
	}
	if !player.Play() {
		return fmt.Errorf("could not start playback: %v", player.State().Err)
	}

	select {
	case <-observer.done:
	case <-ctx.Done():
	}
	fmt.Println()
	return nil
}
