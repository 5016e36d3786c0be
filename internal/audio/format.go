// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_audio

import (
	"strings"

	"github.com/rapidaai/celpip-practice/pkg/commons"
)

// Format identifies a negotiated audio container. The values double as the
// `audio_format` field of the submission contract, so they must name what was
// actually produced, never an assumed default.
type Format string

const (
	FormatOpusOgg Format = "audio/ogg;codecs=opus"
	FormatWAV     Format = "audio/wav"
	FormatULaw    Format = "audio/basic" // G.711 µ-law, 8 kHz mono
)

// DefaultFormatPreference is the probe order for capture: opus first for
// size, then uncompressed WAV, then the telephony fallback.
var DefaultFormatPreference = []Format{FormatOpusOgg, FormatWAV, FormatULaw}

// MIME returns the media type without codec parameters.
func (f Format) MIME() string {
	if i := strings.Index(string(f), ";"); i >= 0 {
		return string(f)[:i]
	}
	return string(f)
}

// FormatFromMIME maps a media type (as found in a Content-Type header or a
// data URL) back onto a container identifier. Unknown types return "" and the
// caller falls back to content sniffing.
func FormatFromMIME(mime string) Format {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	switch mime {
	case "audio/ogg", "application/ogg", "audio/opus":
		return FormatOpusOgg
	case "audio/wav", "audio/wave", "audio/x-wav":
		return FormatWAV
	case "audio/basic":
		return FormatULaw
	case "audio/mpeg", "audio/mp3":
		return FormatMP3
	}
	return ""
}

// FormatMP3 is decode-only: remotely supplied narration clips arrive as mp3,
// but the capture side never negotiates it (no encoder).
const FormatMP3 Format = "audio/mpeg"

// Config describes the capture graph. The processing hints mirror what the
// host environment is asked for at acquisition time; backends that cannot
// honor them simply ignore them.
type Config struct {
	SampleRate       uint32
	Channels         uint16
	EchoCancellation bool
	NoiseSuppression bool
	AutoGainControl  bool
}

// DefaultCaptureConfig is 48 kHz mono 16-bit with all processing hints on.
var DefaultCaptureConfig = Config{
	SampleRate:       48000,
	Channels:         1,
	EchoCancellation: true,
	NoiseSuppression: true,
	AutoGainControl:  true,
}

func (c Config) bytesPerSecond() int {
	return int(c.SampleRate) * int(c.Channels) * bytesPerSample
}

// EncoderFactory probes and constructs a stream encoder for one container.
type EncoderFactory interface {
	Format() Format
	// Probe reports whether the running platform can actually produce this
	// container. Called once per negotiation, before construction.
	Probe() bool
	New(cfg Config) (StreamEncoder, error)
}

// EncoderRegistry holds the known encoder factories keyed by container.
type EncoderRegistry struct {
	logger    commons.Logger
	factories map[Format]EncoderFactory
}

// NewEncoderRegistry registers the built-in encoders: opus-in-ogg (probed,
// the opus codec needs its native library), WAV and µ-law (always available).
func NewEncoderRegistry(logger commons.Logger) *EncoderRegistry {
	r := &EncoderRegistry{
		logger:    logger,
		factories: make(map[Format]EncoderFactory),
	}
	r.Register(&opusEncoderFactory{})
	r.Register(&wavEncoderFactory{})
	r.Register(&ulawEncoderFactory{})
	return r
}

func (r *EncoderRegistry) Register(f EncoderFactory) {
	r.factories[f.Format()] = f
}

// Negotiate returns the first entry of prefs whose encoder probes as
// supported. The outcome is typed: no match is a no_supported_format error,
// not a falsy sentinel.
func (r *EncoderRegistry) Negotiate(prefs []Format) (EncoderFactory, *Error) {
	for _, f := range prefs {
		factory, ok := r.factories[f]
		if !ok {
			continue
		}
		if !factory.Probe() {
			r.logger.Debugf("audio: format %s not supported on this platform", f)
			continue
		}
		return factory, nil
	}
	return nil, newError(ErrNoSupportedFormat, "no candidate container format is supported", nil)
}
