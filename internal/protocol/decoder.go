// Package protocol decodes the text line protocol spoken by the sensor:
// newline-terminated lines of exactly three comma-separated decimal
// numbers in the order roll, pitch, yaw, in degrees, e.g.
//
//	12.34,-5.67,180.00\n
//
// Sensors that share the UART with NMEA talkers may instead emit the
// proprietary sentence $PRPY,<roll>,<pitch>,<yaw>*hh, which is parsed
// with the checksum verified. Anything else on the wire is ignored.
package protocol

import (
	"bytes"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	nmea "github.com/adrianmo/go-nmea"

	"github.com/relabs-tech/attitude_visualizer/internal/orientation"
)

// TypeRPY is the sentence type of the proprietary attitude sentence.
const TypeRPY = "RPY"

// RPY is a proprietary NMEA sentence carrying roll/pitch/yaw in degrees.
type RPY struct {
	nmea.BaseSentence
	Roll  float64
	Pitch float64
	Yaw   float64
}

func init() {
	nmea.MustRegisterParser(TypeRPY, func(s nmea.BaseSentence) (nmea.Sentence, error) {
		p := nmea.NewParser(s)
		m := RPY{
			BaseSentence: s,
			Roll:         p.Float64(0, "roll"),
			Pitch:        p.Float64(1, "pitch"),
			Yaw:          p.Float64(2, "yaw"),
		}
		return m, p.Err()
	})
}

// Decoder turns a stream of byte chunks into samples. The only state it
// carries across calls is the unconsumed tail after the last newline, so
// a line may arrive fragmented across any number of reads.
type Decoder struct {
	tail []byte
	now  func() time.Time
}

// NewDecoder creates a decoder stamping samples with time.Now.
func NewDecoder() *Decoder {
	return &Decoder{now: time.Now}
}

// NewDecoderAt is NewDecoder with an injectable clock for tests.
func NewDecoderAt(now func() time.Time) *Decoder {
	return &Decoder{now: now}
}

// Feed appends a chunk to the decoder's buffer and returns the samples
// decoded from every complete line in it. Malformed lines are dropped
// silently; bytes after the last newline carry over to the next call.
func (d *Decoder) Feed(chunk []byte) []orientation.Sample {
	d.tail = append(d.tail, chunk...)

	var samples []orientation.Sample
	for {
		i := bytes.IndexByte(d.tail, '\n')
		if i < 0 {
			break
		}
		line := d.tail[:i]
		d.tail = d.tail[i+1:]

		if pose, ok := d.decodeLine(line); ok {
			samples = append(samples, orientation.Sample{Pose: pose, Time: d.now()})
		}
	}
	return samples
}

// Pending returns the number of buffered bytes awaiting a newline.
func (d *Decoder) Pending() int {
	return len(d.tail)
}

func (d *Decoder) decodeLine(raw []byte) (orientation.Pose, bool) {
	if !utf8.Valid(raw) {
		return orientation.Pose{}, false
	}
	line := strings.TrimSpace(string(raw))
	if line == "" {
		return orientation.Pose{}, false
	}

	if strings.HasPrefix(line, "$") {
		return decodeSentence(line)
	}

	parts := strings.Split(line, ",")
	if len(parts) != 3 {
		return orientation.Pose{}, false
	}

	var vals [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return orientation.Pose{}, false
		}
		vals[i] = v
	}
	return orientation.Pose{Roll: vals[0], Pitch: vals[1], Yaw: vals[2]}, true
}

func decodeSentence(line string) (orientation.Pose, bool) {
	s, err := nmea.Parse(line)
	if err != nil {
		return orientation.Pose{}, false
	}
	m, ok := s.(RPY)
	if !ok {
		// Some other talker on the shared UART; not ours.
		return orientation.Pose{}, false
	}
	return orientation.Pose{Roll: m.Roll, Pitch: m.Pitch, Yaw: m.Yaw}, true
}
