// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_audio

import (
	"encoding/base64"
	"strings"

	"github.com/vincent-petithory/dataurl"
)

// ToTransportString encodes the payload as raw base64 with no data-URL
// scheme prefix — the submission contract expects `audio_data` bare.
func ToTransportString(audio *EncodedAudio) string {
	return base64.StdEncoding.EncodeToString(audio.Data)
}

// FromTransportString is the lossless inverse. It accepts both bare base64
// and full data URLs, stripping the scheme before decoding; a data URL's own
// media type wins over the hint. Round-tripping reproduces the payload
// byte for byte.
func FromTransportString(s string, hint Format) (*EncodedAudio, *Error) {
	s = strings.TrimSpace(s)
	format := hint

	if strings.HasPrefix(s, "data:") {
		du, err := dataurl.DecodeString(s)
		if err != nil {
			return nil, newError(ErrDecodeFailed, "malformed data URL", err)
		}
		if f := FormatFromMIME(du.ContentType()); f != "" {
			format = f
		}
		return &EncodedAudio{Data: du.Data, Format: format}, nil
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// Some producers emit URL-safe alphabets.
		data, err = base64.URLEncoding.DecodeString(s)
		if err != nil {
			return nil, newError(ErrDecodeFailed, "invalid base64 transport string", err)
		}
	}
	return &EncodedAudio{Data: data, Format: format}, nil
}

// AsDataURL re-adds the correct scheme prefix for handing the payload to a
// playback sink that wants a URL-shaped source.
func AsDataURL(audio *EncodedAudio) string {
	return dataurl.New(audio.Data, audio.Format.MIME()).String()
}
