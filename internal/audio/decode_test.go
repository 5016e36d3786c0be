// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_audio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// oggPage assembles a raw page around the given lacing table. The checksum
// is left zero; the packet splitter does not verify it.
func oggPage(headerType byte, lacing []byte, body []byte) []byte {
	page := make([]byte, 0, 27+len(lacing)+len(body))
	page = append(page, 'O', 'g', 'g', 'S', 0, headerType)
	page = append(page, make([]byte, 20)...) // granule, serial, sequence, crc
	page = append(page, byte(len(lacing)))
	page = append(page, lacing...)
	return append(page, body...)
}

func TestSplitOggPacketsMultiplePacketsPerPage(t *testing.T) {
	body := append(bytes.Repeat([]byte{0xAA}, 5), bytes.Repeat([]byte{0xBB}, 3)...)
	packets, err := splitOggPackets(oggPage(0, []byte{5, 3}, body))
	require.NoError(t, err)
	require.Len(t, packets, 2)
	assert.Equal(t, bytes.Repeat([]byte{0xAA}, 5), packets[0])
	assert.Equal(t, bytes.Repeat([]byte{0xBB}, 3), packets[1])
}

func TestSplitOggPacketsLacedPacket(t *testing.T) {
	// 255 continues the packet into the next lacing value.
	body := bytes.Repeat([]byte{0xCD}, 265)
	packets, err := splitOggPackets(oggPage(0, []byte{255, 10}, body))
	require.NoError(t, err)
	require.Len(t, packets, 1)
	assert.Equal(t, body, packets[0])
}

func TestSplitOggPacketsPacketSpanningPages(t *testing.T) {
	first := oggPage(0, []byte{255}, bytes.Repeat([]byte{0xEE}, 255))
	second := oggPage(0x01, []byte{4}, bytes.Repeat([]byte{0xEE}, 4))
	packets, err := splitOggPackets(append(first, second...))
	require.NoError(t, err)
	require.Len(t, packets, 1)
	assert.Equal(t, bytes.Repeat([]byte{0xEE}, 259), packets[0])
}

func TestSplitOggPacketsRejectsBadStream(t *testing.T) {
	_, err := splitOggPackets([]byte("NotAnOggPageAtAllButLongEnoughToParse"))
	assert.Error(t, err)

	// stream truncated inside a laced packet
	_, err = splitOggPackets(oggPage(0, []byte{255}, bytes.Repeat([]byte{0x00}, 255)))
	assert.Error(t, err)
}
