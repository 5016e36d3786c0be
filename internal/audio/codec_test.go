// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_audio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportRoundTripIsLossless(t *testing.T) {
	payload := make([]byte, 257)
	for i := range payload {
		payload[i] = byte(i * 7)
	}
	audio := &EncodedAudio{Data: payload, Format: FormatOpusOgg}

	encoded := ToTransportString(audio)
	assert.False(t, strings.HasPrefix(encoded, "data:"), "transport string is bare base64")

	decoded, err := FromTransportString(encoded, FormatOpusOgg)
	require.Nil(t, err)
	assert.Equal(t, payload, decoded.Data)
	assert.Equal(t, FormatOpusOgg, decoded.Format)
}

func TestFromTransportStringAcceptsDataURL(t *testing.T) {
	audio := &EncodedAudio{Data: []byte{0x52, 0x49, 0x46, 0x46}, Format: FormatWAV}
	url := AsDataURL(audio)
	require.True(t, strings.HasPrefix(url, "data:audio/wav"))

	// The URL's own media type wins over a wrong hint.
	decoded, err := FromTransportString(url, FormatULaw)
	require.Nil(t, err)
	assert.Equal(t, audio.Data, decoded.Data)
	assert.Equal(t, FormatWAV, decoded.Format)
}

func TestFromTransportStringTolerance(t *testing.T) {
	cases := []struct {
		name  string
		input string
		ok    bool
	}{
		{"surrounding whitespace", "  aGVsbG8=  ", true},
		{"url safe alphabet", "_-8=", true},
		{"garbage", "not base64 at all!!!", false},
		{"malformed data url", "data:;;;", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decoded, err := FromTransportString(tc.input, FormatWAV)
			if tc.ok {
				require.Nil(t, err)
				assert.NotEmpty(t, decoded.Data)
			} else {
				require.NotNil(t, err)
				assert.Equal(t, ErrDecodeFailed, err.Code)
			}
		})
	}
}
