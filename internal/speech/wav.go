package speech

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hammamikhairi/ottotimer/internal/domain"
)

// wavFormat is the subset of the "fmt " chunk the player cares about.
type wavFormat struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
}

// decodeWAV validates the RIFF container and returns the raw PCM payload.
// Only 16-bit PCM at SampleRate/ChannelCount is accepted, since the audio
// context is opened once with that layout.
func decodeWAV(wav []byte) ([]byte, error) {
	if len(wav) < 12 {
		return nil, errors.New("wav data too short")
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, errors.New("not a valid WAV file")
	}

	var (
		format  *wavFormat
		pos     = 12
		pcmData []byte
	)
	for pos+8 <= len(wav) {
		id := string(wav[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(wav[pos+4 : pos+8]))
		start := pos + 8
		end := min(start+size, len(wav))

		switch id {
		case "fmt ":
			if end-start < 16 {
				return nil, errors.New("fmt chunk too short")
			}
			c := wav[start:end]
			format = &wavFormat{
				AudioFormat:   binary.LittleEndian.Uint16(c[0:2]),
				Channels:      binary.LittleEndian.Uint16(c[2:4]),
				SampleRate:    binary.LittleEndian.Uint32(c[4:8]),
				BitsPerSample: binary.LittleEndian.Uint16(c[14:16]),
			}
		case "data":
			pcmData = wav[start:end]
		}
		if pcmData != nil && format != nil {
			break
		}

		pos = start + size
		if size%2 != 0 {
			pos++
		}
	}

	if pcmData == nil {
		return nil, errors.New("data chunk not found in WAV")
	}
	// Azure's RIFF output always carries fmt; a bare data chunk is trusted.
	if format != nil {
		if format.AudioFormat != 1 || format.Channels != ChannelCount ||
			format.SampleRate != SampleRate || format.BitsPerSample != BitDepth {
			return nil, fmt.Errorf("%w: %d Hz, %d ch, %d bit (want %d Hz mono %d bit PCM)",
				domain.ErrUnsupportedWAV, format.SampleRate, format.Channels, format.BitsPerSample,
				SampleRate, BitDepth)
		}
	}
	return pcmData, nil
}

// encodeWAV wraps PCM samples in a canonical 44-byte RIFF header.
func encodeWAV(pcm []byte) []byte {
	var buf bytes.Buffer
	blockAlign := ChannelCount * BitDepth / 8

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, wavFormatHeader{
		AudioFormat:   1,
		Channels:      ChannelCount,
		SampleRate:    SampleRate,
		ByteRate:      uint32(SampleRate * blockAlign),
		BlockAlign:    uint16(blockAlign),
		BitsPerSample: BitDepth,
	})

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}

type wavFormatHeader struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}
