package mt63

/*------------------------------------------------------------------
 *
 * Purpose:   	Read and write .WAV audio files.
 *
 * Description:	Only PCM, 8 or 16 bits, one or two channels.  Doesn't
 *		handle all possible cases but good enough for our
 *		purposes.
 *
 *---------------------------------------------------------------*/

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

var ErrWAVFormat = errors.New("unsupported WAV file")

type wavHeader struct { /* .WAV file header. */
	Riff            [4]byte /* "RIFF" */
	Filesize        int32   /* file length - 8 */
	Wave            [4]byte /* "WAVE" */
	Fmt             [4]byte /* "fmt " */
	Fmtsize         int32   /* 16. */
	Wformattag      int16   /* 1 for PCM. */
	Nchannels       int16   /* 1 for mono, 2 for stereo. */
	Nsamplespersec  int32   /* sampling freq, Hz. */
	Navgbytespersec int32   /* = nblockalign * nsamplespersec. */
	Nblockalign     int16   /* = wbitspersample / 8 * nchannels. */
	Wbitspersample  int16   /* 16 or 8. */
	Data            [4]byte /* "data" */
	Datasize        int32   /* number of bytes following. */
}

type wavChunk struct {
	ID       [4]byte
	Datasize uint32
}

// Data size written by programs which don't know the length, such as
// when writing to a pipe.
const wavUnknownSize = 0xFFFFFFFF

type wavFormat struct {
	Wformattag      int16
	Nchannels       int16
	Nsamplespersec  int32
	Navgbytespersec int32
	Nblockalign     int16
	Wbitspersample  int16
}

/*------------------------------------------------------------------
 *
 * Name:        WriteWAV
 *
 * Purpose:     Write mono audio to a file.
 *
 * Inputs:	fname		- File to create.
 *		samples		- Audio, -1 to +1.
 *		rate		- Samples per second.
 *		bits		- 8 or 16.
 *
 *----------------------------------------------------------------*/

func WriteWAV(fname string, samples []float32, rate int, bits int) error {
	if bits != 8 && bits != 16 {
		return fmt.Errorf("%w: %d bits per sample", ErrWAVFormat, bits)
	}

	var f, err = os.Create(fname) //nolint:gosec // We expect to write to a user-supplied file from CLI
	if err != nil {
		return fmt.Errorf("couldn't open %s for write: %w", fname, err)
	}
	defer f.Close()

	var w = bufio.NewWriter(f)
	if err := writeWAV(w, samples, rate, bits); err != nil {
		return err
	}
	return w.Flush()
}

func writeWAV(w io.Writer, samples []float32, rate int, bits int) error {
	var blockAlign = bits / 8
	var dataSize = len(samples) * blockAlign

	var h = wavHeader{
		Riff:            [4]byte{'R', 'I', 'F', 'F'},
		Filesize:        int32(dataSize + binary.Size(wavHeader{}) - 8), //nolint:gosec
		Wave:            [4]byte{'W', 'A', 'V', 'E'},
		Fmt:             [4]byte{'f', 'm', 't', ' '},
		Fmtsize:         16, // Always 16.
		Wformattag:      1,  // 1 for PCM.
		Nchannels:       1,
		Nsamplespersec:  int32(rate),              //nolint:gosec
		Navgbytespersec: int32(blockAlign * rate), //nolint:gosec
		Nblockalign:     int16(blockAlign),        //nolint:gosec
		Wbitspersample:  int16(bits),              //nolint:gosec
		Data:            [4]byte{'d', 'a', 't', 'a'},
		Datasize:        int32(dataSize), //nolint:gosec
	}

	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("couldn't write WAV header: %w", err)
	}

	for _, x := range samples {
		var v = max(-1, min(1, float64(x)))
		var err error
		if bits == 16 {
			err = binary.Write(w, binary.LittleEndian, int16(math.Round(v*32767)))
		} else {
			// 8 bit samples are unsigned.
			err = binary.Write(w, binary.LittleEndian, uint8(math.Round(v*127)+128))
		}
		if err != nil {
			return fmt.Errorf("couldn't write audio: %w", err)
		}
	}

	return nil
}

/*------------------------------------------------------------------
 *
 * Name:        ReadWAV
 *
 * Purpose:     Read one channel of a .WAV file.
 *
 * Inputs:	fname		- File name.
 *		channel		- 0 for left or mono, 1 for right.
 *
 * Returns:	Audio as -1 to +1 and the sample rate.
 *
 *----------------------------------------------------------------*/

func ReadWAV(fname string, channel int) ([]float32, int, error) {
	var f, err = os.Open(fname) //nolint:gosec
	if err != nil {
		return nil, 0, fmt.Errorf("couldn't open file for read: %w", err)
	}
	defer f.Close()

	return readWAV(bufio.NewReader(f), channel)
}

func readWAV(r io.Reader, channel int) ([]float32, int, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrWAVFormat, err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, 0, fmt.Errorf("%w: this is not a .WAV format file", ErrWAVFormat)
	}

	var format wavFormat
	var haveFormat = false

	for {
		var chunk wavChunk
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			return nil, 0, fmt.Errorf("%w: no data chunk: %w", ErrWAVFormat, err)
		}

		switch string(chunk.ID[:]) {
		case "fmt ":
			if chunk.Datasize != 16 && chunk.Datasize != 18 {
				return nil, 0, fmt.Errorf("%w: need fmt chunk datasize of 16 or 18, found %d", ErrWAVFormat, chunk.Datasize)
			}
			if err := binary.Read(r, binary.LittleEndian, &format); err != nil {
				return nil, 0, fmt.Errorf("%w: %w", ErrWAVFormat, err)
			}
			if _, err := io.CopyN(io.Discard, r, int64(chunk.Datasize)-16); err != nil {
				return nil, 0, fmt.Errorf("%w: %w", ErrWAVFormat, err)
			}
			haveFormat = true

		case "data":
			if !haveFormat {
				return nil, 0, fmt.Errorf("%w: data before fmt", ErrWAVFormat)
			}
			if chunk.Datasize != 0 && chunk.Datasize != wavUnknownSize {
				r = io.LimitReader(r, int64(chunk.Datasize))
			}
			return readSamples(r, format, channel)

		default:
			// LIST and friends.  Odd sizes are followed by a pad byte.
			if _, err := io.CopyN(io.Discard, r, int64(chunk.Datasize)+int64(chunk.Datasize&1)); err != nil {
				return nil, 0, fmt.Errorf("%w: %w", ErrWAVFormat, err)
			}
		}
	}
}

// Read samples to the end of r.  A short data chunk is accepted.
func readSamples(r io.Reader, format wavFormat, channel int) ([]float32, int, error) {
	if format.Wformattag != 1 {
		return nil, 0, fmt.Errorf("%w: only audio format 1 (PCM), this file has %d", ErrWAVFormat, format.Wformattag)
	}
	if format.Nchannels != 1 && format.Nchannels != 2 {
		return nil, 0, fmt.Errorf("%w: only 1 or 2 channels, this file has %d", ErrWAVFormat, format.Nchannels)
	}
	if format.Wbitspersample != 8 && format.Wbitspersample != 16 {
		return nil, 0, fmt.Errorf("%w: only 8 or 16 bits per sample, this file has %d", ErrWAVFormat, format.Wbitspersample)
	}
	if channel < 0 || channel >= int(format.Nchannels) {
		return nil, 0, fmt.Errorf("%w: no channel %d", ErrWAVFormat, channel)
	}

	var raw, err = io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrWAVFormat, err)
	}

	var bytesPer = int(format.Wbitspersample) / 8
	var frame = bytesPer * int(format.Nchannels)
	var out = make([]float32, 0, len(raw)/frame)

	for i := channel * bytesPer; i+bytesPer <= len(raw); i += frame {
		if bytesPer == 2 {
			out = append(out, float32(int16(binary.LittleEndian.Uint16(raw[i:])))/32768) //nolint:gosec
		} else {
			out = append(out, float32(int(raw[i])-128)/128)
		}
	}

	return out, int(format.Nsamplespersec), nil
}
