// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNegotiateHonorsPreferenceOrder(t *testing.T) {
	registry := NewEncoderRegistry(nopLogger{})

	factory, err := registry.Negotiate([]Format{FormatWAV, FormatULaw})
	require.Nil(t, err)
	assert.Equal(t, FormatWAV, factory.Format())

	factory, err = registry.Negotiate([]Format{FormatULaw, FormatWAV})
	require.Nil(t, err)
	assert.Equal(t, FormatULaw, factory.Format())
}

func TestNegotiateSkipsUnknownFormats(t *testing.T) {
	registry := NewEncoderRegistry(nopLogger{})

	factory, err := registry.Negotiate([]Format{FormatMP3, FormatWAV})
	require.Nil(t, err)
	assert.Equal(t, FormatWAV, factory.Format(), "unrecordable entries are skipped, not fatal")
}

func TestNegotiateFailsTyped(t *testing.T) {
	registry := NewEncoderRegistry(nopLogger{})

	for _, prefs := range [][]Format{nil, {}, {FormatMP3}} {
		_, err := registry.Negotiate(prefs)
		require.NotNil(t, err)
		assert.Equal(t, ErrNoSupportedFormat, err.Code)
	}
}

func TestFormatFromMIME(t *testing.T) {
	cases := []struct {
		mime string
		want Format
	}{
		{"audio/ogg;codecs=opus", FormatOpusOgg},
		{"audio/ogg; codecs=opus", FormatOpusOgg},
		{"audio/ogg", FormatOpusOgg},
		{"audio/wav", FormatWAV},
		{"audio/x-wav", FormatWAV},
		{"audio/wave", FormatWAV},
		{"audio/basic", FormatULaw},
		{"audio/mpeg", FormatMP3},
		{"audio/mp3", FormatMP3},
		{"AUDIO/WAV", FormatWAV},
		{"text/plain", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatFromMIME(tc.mime), "mime %q", tc.mime)
	}
}

func TestFormatMIMERoundTrip(t *testing.T) {
	for _, f := range []Format{FormatOpusOgg, FormatWAV, FormatULaw, FormatMP3} {
		assert.Equal(t, f, FormatFromMIME(f.MIME()), "format %q", f)
	}
}
