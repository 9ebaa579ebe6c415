package speech

import (
	"encoding/binary"
	"math"
	"time"
)

// Tone returns a WAV containing a sine beep at freq Hz for d, followed by
// gap of silence. Amplitude is in [0, 1]. The edges are ramped over a few
// milliseconds so the beep does not click.
func Tone(freq float64, d, gap time.Duration, amplitude float64) []byte {
	amplitude = min(max(amplitude, 0), 1)
	n := samples(d)
	silence := samples(gap)
	ramp := min(SampleRate/200, n/2) // 5ms

	pcm := make([]byte, (n+silence)*2)
	for i := range n {
		env := 1.0
		if ramp > 0 {
			switch {
			case i < ramp:
				env = float64(i) / float64(ramp)
			case i >= n-ramp:
				env = float64(n-1-i) / float64(ramp)
			}
		}
		v := amplitude * env * math.Sin(2*math.Pi*freq*float64(i)/SampleRate)
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(v*math.MaxInt16)))
	}
	return encodeWAV(pcm)
}

func samples(d time.Duration) int {
	return int(int64(d) * SampleRate / int64(time.Second))
}

// AlarmTone is the default alarm: two short 880 Hz beeps and a pause.
func AlarmTone() []byte {
	beep, _ := decodeWAV(Tone(880, 150*time.Millisecond, 100*time.Millisecond, 0.6))
	tail, _ := decodeWAV(Tone(880, 150*time.Millisecond, 600*time.Millisecond, 0.6))
	return encodeWAV(append(append([]byte(nil), beep...), tail...))
}

// PCMDuration returns the playback length of a decoded WAV.
func PCMDuration(wav []byte) time.Duration {
	pcm, err := decodeWAV(wav)
	if err != nil {
		return 0
	}
	n := len(pcm) / (ChannelCount * BitDepth / 8)
	return time.Duration(n) * time.Second / SampleRate
}
