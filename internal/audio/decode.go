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
	"io"

	"github.com/hajimehoshi/go-mp3"
	"github.com/pion/webrtc/v4/pkg/media/oggreader"
	"github.com/zaf/g711"
	"gopkg.in/hraban/opus.v2"
)

// decodedStream is a fully decoded playback source.
type decodedStream struct {
	pcm        []int16 // interleaved
	sampleRate int
	channels   int
}

func (d *decodedStream) frames() int {
	if d.channels == 0 {
		return 0
	}
	return len(d.pcm) / d.channels
}

func (d *decodedStream) duration() float64 {
	if d.sampleRate == 0 {
		return 0
	}
	return float64(d.frames()) / float64(d.sampleRate)
}

// sniffFormat guesses the container from magic bytes when no media type was
// supplied (remote servers lie, blobs carry no metadata).
func sniffFormat(data []byte) Format {
	switch {
	case len(data) >= 4 && bytes.Equal(data[:4], []byte("RIFF")):
		return FormatWAV
	case len(data) >= 4 && bytes.Equal(data[:4], []byte("OggS")):
		return FormatOpusOgg
	case len(data) >= 3 && bytes.Equal(data[:3], []byte("ID3")):
		return FormatMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return FormatMP3
	}
	return ""
}

// decodePCM turns a container payload into interleaved 16-bit PCM.
func decodePCM(data []byte, format Format) (*decodedStream, error) {
	if format == "" {
		format = sniffFormat(data)
	}
	switch format {
	case FormatWAV:
		return decodeWAV(data)
	case FormatOpusOgg:
		return decodeOpusOgg(data)
	case FormatMP3:
		return decodeMP3(data)
	case FormatULaw:
		return decodeULaw(data)
	}
	return nil, fmt.Errorf("unrecognized container (%d bytes)", len(data))
}

func decodeWAV(data []byte) (*decodedStream, error) {
	if len(data) < 44 || !bytes.Equal(data[:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WAVE")) {
		return nil, fmt.Errorf("not a RIFF/WAVE payload")
	}

	var (
		sampleRate    uint32
		channels      uint16
		bits          uint16
		pcmBytes      []byte
		haveFmt, have bool
	)

	// Walk the chunk list; fmt and data may appear in any order and other
	// chunks (LIST, fact) may sit between them.
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) {
			size = len(data) - body
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("truncated fmt chunk")
			}
			tag := binary.LittleEndian.Uint16(data[body : body+2])
			if tag != pcmFormatTag {
				return nil, fmt.Errorf("unsupported WAV format tag %d", tag)
			}
			channels = binary.LittleEndian.Uint16(data[body+2 : body+4])
			sampleRate = binary.LittleEndian.Uint32(data[body+4 : body+8])
			bits = binary.LittleEndian.Uint16(data[body+14 : body+16])
			haveFmt = true
		case "data":
			pcmBytes = data[body : body+size]
			have = true
		}
		off = body + size
		if size%2 == 1 {
			off++ // chunks are word aligned
		}
	}

	if !haveFmt || !have {
		return nil, fmt.Errorf("missing fmt or data chunk")
	}
	if bits != bitsPerSample {
		return nil, fmt.Errorf("unsupported bit depth %d", bits)
	}
	if channels == 0 || sampleRate == 0 {
		return nil, fmt.Errorf("degenerate WAV header")
	}

	pcm := make([]int16, len(pcmBytes)/2)
	for i := range pcm {
		pcm[i] = int16(binary.LittleEndian.Uint16(pcmBytes[i*2 : i*2+2]))
	}
	return &decodedStream{pcm: pcm, sampleRate: int(sampleRate), channels: int(channels)}, nil
}

// splitOggPackets reassembles the logical packets from each page's segment
// table. A lacing value of 255 continues the packet into the next segment,
// and an unterminated table carries the packet across the page boundary.
func splitOggPackets(data []byte) ([][]byte, error) {
	var packets [][]byte
	var pending []byte
	off := 0
	for off+27 <= len(data) {
		if !bytes.Equal(data[off:off+4], []byte("OggS")) {
			return nil, fmt.Errorf("bad ogg capture pattern at offset %d", off)
		}
		segments := int(data[off+26])
		tableEnd := off + 27 + segments
		if tableEnd > len(data) {
			return nil, fmt.Errorf("truncated ogg segment table")
		}
		body := tableEnd
		for _, lacing := range data[off+27 : tableEnd] {
			end := body + int(lacing)
			if end > len(data) {
				return nil, fmt.Errorf("truncated ogg page body")
			}
			pending = append(pending, data[body:end]...)
			body = end
			if lacing < 255 {
				packets = append(packets, pending)
				pending = nil
			}
		}
		off = body
	}
	if len(pending) > 0 {
		return nil, fmt.Errorf("ogg stream ends mid-packet")
	}
	return packets, nil
}

func decodeOpusOgg(data []byte) (*decodedStream, error) {
	_, header, err := oggreader.NewWith(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("ogg parse: %w", err)
	}
	channels := int(header.Channels)
	if channels == 0 {
		channels = 1
	}
	sampleRate := int(header.SampleRate)
	if sampleRate == 0 {
		sampleRate = 48000
	}

	dec, err := opus.NewDecoder(sampleRate, channels)
	if err != nil {
		return nil, fmt.Errorf("opus decoder: %w", err)
	}

	packets, err := splitOggPackets(data)
	if err != nil {
		return nil, err
	}

	// 120 ms is the largest legal opus frame.
	frame := make([]int16, sampleRate/1000*120*channels)
	var pcm []int16
	for _, packet := range packets {
		if len(packet) == 0 ||
			bytes.HasPrefix(packet, []byte("OpusHead")) ||
			bytes.HasPrefix(packet, []byte("OpusTags")) {
			continue
		}
		n, err := dec.Decode(packet, frame)
		if err != nil {
			return nil, fmt.Errorf("opus decode: %w", err)
		}
		pcm = append(pcm, frame[:n*channels]...)
	}
	return &decodedStream{pcm: pcm, sampleRate: sampleRate, channels: channels}, nil
}

func decodeMP3(data []byte) (*decodedStream, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("mp3 parse: %w", err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode: %w", err)
	}
	// go-mp3 always emits 16-bit stereo.
	pcm := make([]int16, len(raw)/2)
	for i := range pcm {
		pcm[i] = int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
	}
	return &decodedStream{pcm: pcm, sampleRate: dec.SampleRate(), channels: 2}, nil
}

func decodeULaw(data []byte) (*decodedStream, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty µ-law payload")
	}
	raw := g711.DecodeUlaw(data)
	pcm := make([]int16, len(raw)/2)
	for i := range pcm {
		pcm[i] = int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
	}
	return &decodedStream{pcm: pcm, sampleRate: ulawSampleRate, channels: 1}, nil
}
