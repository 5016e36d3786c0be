// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_audio

import "fmt"

type sourceKind int

const (
	sourceTransport sourceKind = iota
	sourceBlob
	sourceURL
)

// Source is the tagged union of everything the playback engine accepts: a
// base64 transport string, an in-memory blob, or a remote URL. One
// constructor per kind — no runtime type inspection.
type Source struct {
	kind    sourceKind
	payload string
	blob    []byte
	format  Format
}

// TransportSource wraps a base64 transport string (bare or data URL).
func TransportSource(s string, hint Format) Source {
	return Source{kind: sourceTransport, payload: s, format: hint}
}

// BlobSource wraps already-decoded container bytes.
func BlobSource(data []byte, format Format) Source {
	return Source{kind: sourceBlob, blob: data, format: format}
}

// URLSource wraps a remote audio location; the format is taken from the
// response Content-Type, falling back to content sniffing.
func URLSource(url string) Source {
	return Source{kind: sourceURL, payload: url}
}

func (s Source) String() string {
	switch s.kind {
	case sourceTransport:
		return fmt.Sprintf("transport-string(%d chars, hint=%s)", len(s.payload), s.format)
	case sourceBlob:
		return fmt.Sprintf("blob(%d bytes, %s)", len(s.blob), s.format)
	case sourceURL:
		return fmt.Sprintf("url(%s)", s.payload)
	}
	return "unknown-source"
}
