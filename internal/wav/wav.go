// Package wav encodes captured microphone samples as WAV files for
// upload to the transcription endpoint.
package wav

import "math"

// WAV format constants.
const (
	// HeaderSize is the size of a standard WAV file header in bytes.
	HeaderSize = 44

	// FormatPCM is the audio format code for uncompressed PCM.
	FormatPCM = 1
)

// Capture format constants. Recording runs at 16 kHz mono 16-bit, the
// format speech-to-text engines expect.
const (
	CaptureSampleRate    = 16000
	CaptureChannels      = 1
	CaptureBitsPerSample = 16
)

// WrapRawPCM adds a WAV header to raw PCM data, producing a complete WAV
// file as a byte slice.
func WrapRawPCM(pcm []byte, sampleRate, channels, bitsPerSample int) []byte {
	dataSize := len(pcm)
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	header := make([]byte, HeaderSize)

	// RIFF header
	copy(header[0:4], "RIFF")
	putLE32(header[4:8], uint32(36+dataSize))
	copy(header[8:12], "WAVE")

	// fmt subchunk
	copy(header[12:16], "fmt ")
	putLE32(header[16:20], 16)
	putLE16(header[20:22], FormatPCM)
	putLE16(header[22:24], uint16(channels))
	putLE32(header[24:28], uint32(sampleRate))
	putLE32(header[28:32], uint32(byteRate))
	putLE16(header[32:34], uint16(blockAlign))
	putLE16(header[34:36], uint16(bitsPerSample))

	// data subchunk
	copy(header[36:40], "data")
	putLE32(header[40:44], uint32(dataSize))

	return append(header, pcm...)
}

// FromFloat32 converts normalized float32 samples (the capture format) to
// a complete mono 16-bit WAV file. Samples outside [-1, 1] are clipped.
func FromFloat32(samples []float32, sampleRate int) []byte {
	pcm := make([]byte, len(samples)*2)

	for i, sample := range samples {
		if sample > 1 {
			sample = 1
		}

		if sample < -1 {
			sample = -1
		}

		value := int16(sample * math.MaxInt16)
		putLE16(pcm[i*2:i*2+2], uint16(value))
	}

	return WrapRawPCM(pcm, sampleRate, CaptureChannels, CaptureBitsPerSample)
}

func putLE16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

func putLE32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
