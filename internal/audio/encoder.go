// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_audio

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4/pkg/media/oggwriter"
	"github.com/zaf/g711"
	"gopkg.in/hraban/opus.v2"
)

const (
	bytesPerSample = 2  // LINEAR16 → 2 bytes per sample
	bitsPerSample  = 16 // LINEAR16 → 16 bits per sample
	pcmFormatTag   = 1  // WAV PCM format tag

	ulawSampleRate = 8000
)

// StreamEncoder consumes PCM slices incrementally while a session records and
// finalizes them into a single container payload. Implementations are not
// safe for concurrent use; the recorder serializes access.
type StreamEncoder interface {
	Format() Format
	// Encode appends one PCM slice (interleaved int16 samples).
	Encode(pcm []int16) error
	// Finalize closes the container and returns the complete payload.
	// The encoder is inert afterwards.
	Finalize() ([]byte, error)
}

// --- WAV ---

type wavEncoderFactory struct{}

func (*wavEncoderFactory) Format() Format { return FormatWAV }
func (*wavEncoderFactory) Probe() bool    { return true }
func (*wavEncoderFactory) New(cfg Config) (StreamEncoder, error) {
	return &wavEncoder{cfg: cfg}, nil
}

type wavEncoder struct {
	cfg Config
	pcm bytes.Buffer
}

func (e *wavEncoder) Format() Format { return FormatWAV }

func (e *wavEncoder) Encode(pcm []int16) error {
	for _, s := range pcm {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(s))
		e.pcm.Write(b[:])
	}
	return nil
}

func (e *wavEncoder) Finalize() ([]byte, error) {
	return writeWAV(e.pcm.Bytes(), e.cfg.SampleRate, e.cfg.Channels), nil
}

// writeWAV wraps little-endian 16-bit PCM in a RIFF container.
func writeWAV(pcmData []byte, sampleRate uint32, channels uint16) []byte {
	var buf bytes.Buffer
	bps := int(sampleRate) * int(channels) * bytesPerSample

	buf.Write([]byte("RIFF"))
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcmData)))
	buf.Write([]byte("WAVE"))

	buf.Write([]byte("fmt "))
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(pcmFormatTag))
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(bps))
	binary.Write(&buf, binary.LittleEndian, uint16(bytesPerSample*int(channels)))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.Write([]byte("data"))
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcmData)))
	buf.Write(pcmData)

	return buf.Bytes()
}

// --- Opus in Ogg ---

type opusEncoderFactory struct{}

func (*opusEncoderFactory) Format() Format { return FormatOpusOgg }

// Probe constructs a throwaway encoder; the opus codec is only usable when
// its native library linked in.
func (*opusEncoderFactory) Probe() bool {
	_, err := opus.NewEncoder(int(DefaultCaptureConfig.SampleRate), int(DefaultCaptureConfig.Channels), opus.AppVoIP)
	return err == nil
}

func (f *opusEncoderFactory) New(cfg Config) (StreamEncoder, error) {
	enc, err := opus.NewEncoder(int(cfg.SampleRate), int(cfg.Channels), opus.AppVoIP)
	if err != nil {
		return nil, fmt.Errorf("opus encoder: %w", err)
	}
	var container bytes.Buffer
	ogg, err := oggwriter.NewWith(&container, cfg.SampleRate, cfg.Channels)
	if err != nil {
		return nil, fmt.Errorf("ogg muxer: %w", err)
	}
	return &opusOggEncoder{
		cfg:       cfg,
		enc:       enc,
		ogg:       ogg,
		container: &container,
		// 20 ms frames, the opus sweet spot
		frameSamples: int(cfg.SampleRate) / 50 * int(cfg.Channels),
		packet:       make([]byte, 4000),
	}, nil
}

type opusOggEncoder struct {
	cfg          Config
	enc          *opus.Encoder
	ogg          *oggwriter.OggWriter
	container    *bytes.Buffer
	frameSamples int
	pending      []int16
	packet       []byte
	sequence     uint16
	timestamp    uint32
	finalized    bool
}

func (e *opusOggEncoder) Format() Format { return FormatOpusOgg }

func (e *opusOggEncoder) Encode(pcm []int16) error {
	e.pending = append(e.pending, pcm...)
	for len(e.pending) >= e.frameSamples {
		frame := e.pending[:e.frameSamples]
		if err := e.writeFrame(frame); err != nil {
			return err
		}
		e.pending = e.pending[e.frameSamples:]
	}
	return nil
}

func (e *opusOggEncoder) writeFrame(frame []int16) error {
	n, err := e.enc.Encode(frame, e.packet)
	if err != nil {
		return fmt.Errorf("opus encode: %w", err)
	}
	e.sequence++
	e.timestamp += uint32(e.frameSamples / int(e.cfg.Channels))
	pkt := &rtp.Packet{
		Header: rtp.Header{
			Version:        2,
			PayloadType:    111,
			SequenceNumber: e.sequence,
			Timestamp:      e.timestamp,
			SSRC:           1,
		},
		Payload: append([]byte(nil), e.packet[:n]...),
	}
	if err := e.ogg.WriteRTP(pkt); err != nil {
		return fmt.Errorf("ogg write: %w", err)
	}
	return nil
}

func (e *opusOggEncoder) Finalize() ([]byte, error) {
	if e.finalized {
		return e.container.Bytes(), nil
	}
	// Zero-pad the trailing partial frame so no captured sample is dropped.
	if len(e.pending) > 0 {
		frame := make([]int16, e.frameSamples)
		copy(frame, e.pending)
		if err := e.writeFrame(frame); err != nil {
			return nil, err
		}
		e.pending = nil
	}
	if err := e.ogg.Close(); err != nil {
		return nil, fmt.Errorf("ogg close: %w", err)
	}
	e.finalized = true
	return e.container.Bytes(), nil
}

// --- G.711 µ-law ---

type ulawEncoderFactory struct{}

func (*ulawEncoderFactory) Format() Format { return FormatULaw }
func (*ulawEncoderFactory) Probe() bool    { return true }
func (f *ulawEncoderFactory) New(cfg Config) (StreamEncoder, error) {
	decimation := int(cfg.SampleRate) / ulawSampleRate
	if decimation < 1 || int(cfg.SampleRate)%ulawSampleRate != 0 {
		return nil, fmt.Errorf("ulaw encoder: capture rate %d is not a multiple of %d", cfg.SampleRate, ulawSampleRate)
	}
	return &ulawEncoder{cfg: cfg, decimation: decimation}, nil
}

// ulawEncoder decimates the capture stream to 8 kHz mono and G.711-encodes
// it. audio/basic is headerless, so Finalize returns the raw µ-law bytes.
type ulawEncoder struct {
	cfg        Config
	decimation int
	pending    []int16
	out        bytes.Buffer
}

func (e *ulawEncoder) Format() Format { return FormatULaw }

func (e *ulawEncoder) Encode(pcm []int16) error {
	// Downmix to mono first.
	ch := int(e.cfg.Channels)
	for i := 0; i+ch <= len(pcm); i += ch {
		var sum int
		for c := 0; c < ch; c++ {
			sum += int(pcm[i+c])
		}
		e.pending = append(e.pending, int16(sum/ch))
	}

	// Average each decimation group into one 8 kHz sample.
	group := e.decimation
	n := len(e.pending) / group * group
	lpcm := make([]byte, 0, n/group*2)
	for i := 0; i+group <= n; i += group {
		var sum int
		for j := 0; j < group; j++ {
			sum += int(e.pending[i+j])
		}
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(int16(sum/group)))
		lpcm = append(lpcm, b[:]...)
	}
	e.pending = e.pending[n:]

	e.out.Write(g711.EncodeUlaw(lpcm))
	return nil
}

func (e *ulawEncoder) Finalize() ([]byte, error) {
	// Drop the trailing sub-sample remainder; it is below one 8 kHz period.
	return e.out.Bytes(), nil
}
