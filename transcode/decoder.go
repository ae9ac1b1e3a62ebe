package transcode

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/RyanBlaney/capillary/logging"
)

// Format names an on-disk sample encoding
type Format string

const (
	// FormatText is one row per line, values separated by whitespace, commas
	// or semicolons. Blank lines and lines starting with '#' are skipped.
	FormatText Format = "text"

	// FormatFloat64LE is raw little-endian IEEE-754 doubles
	FormatFloat64LE Format = "f64le"
)

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	Format    Format `json:"format"`
	RowLength int    `json:"row_length"` // f64le only: samples per row, 0 keeps one row
}

// DefaultDecoderConfig returns a text decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		Format: FormatText,
	}
}

// Decoder turns encoded sample data into rows of float64 values
type Decoder struct {
	config *DecoderConfig
}

// NewDecoder creates a new sample decoder
func NewDecoder(config *DecoderConfig) (*Decoder, error) {
	if config == nil {
		config = DefaultDecoderConfig()
	}

	switch config.Format {
	case FormatText, FormatFloat64LE:
	default:
		return nil, fmt.Errorf("unsupported sample format %q", config.Format)
	}
	if config.RowLength < 0 {
		return nil, fmt.Errorf("row length must not be negative: %d", config.RowLength)
	}

	return &Decoder{config: config}, nil
}

// DecodeFile decodes the named file; "-" reads standard input
func (d *Decoder) DecodeFile(filename string) ([][]float64, error) {
	if filename == "-" || filename == "" {
		return d.DecodeReader(os.Stdin)
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open sample file: %w", err)
	}
	defer f.Close()

	return d.DecodeReader(f)
}

// DecodeReader decodes everything r yields
func (d *Decoder) DecodeReader(r io.Reader) ([][]float64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read samples: %w", err)
	}
	return d.DecodeBytes(data)
}

// DecodeBytes decodes an in-memory buffer
func (d *Decoder) DecodeBytes(data []byte) ([][]float64, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "sample_decoder",
		"format":    d.config.Format,
		"data_size": len(data),
	})

	var (
		rows [][]float64
		err  error
	)
	switch d.config.Format {
	case FormatFloat64LE:
		rows = splitRows(bytesToFloat64(data), d.config.RowLength)
		if rem := len(data) % 8; rem != 0 {
			logger.Warn("Trailing bytes ignored", logging.Fields{"bytes": rem})
		}
	default:
		rows, err = parseText(data)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("Samples decoded", logging.Fields{"rows": len(rows)})
	return rows, nil
}

func parseText(data []byte) ([][]float64, error) {
	var rows [][]float64

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ';' || r == ' ' || r == '\t'
		})
		row := make([]float64, 0, len(fields))
		for _, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid sample %q: %w", line, field, err)
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan samples: %w", err)
	}
	return rows, nil
}

// bytesToFloat64 converts raw float64 bytes to []float64, ignoring a
// trailing partial value
func bytesToFloat64(data []byte) []float64 {
	sampleCount := len(data) / 8
	if sampleCount == 0 {
		return nil
	}

	samples := make([]float64, sampleCount)
	for i := range sampleCount {
		bits := binary.LittleEndian.Uint64(data[i*8 : i*8+8])
		samples[i] = math.Float64frombits(bits)
	}
	return samples
}

func splitRows(samples []float64, rowLength int) [][]float64 {
	if len(samples) == 0 {
		return nil
	}
	if rowLength <= 0 || rowLength >= len(samples) {
		return [][]float64{samples}
	}

	rows := make([][]float64, 0, (len(samples)+rowLength-1)/rowLength)
	for start := 0; start < len(samples); start += rowLength {
		end := min(start+rowLength, len(samples))
		rows = append(rows, samples[start:end])
	}
	return rows
}

// Flatten concatenates rows into one sequence
func Flatten(rows [][]float64) []float64 {
	n := 0
	for _, r := range rows {
		n += len(r)
	}

	out := make([]float64, 0, n)
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}

// EncodeFloat64LE is the inverse of the f64le decoder
func EncodeFloat64LE(samples []float64) []byte {
	out := make([]byte, 8*len(samples))
	for i, v := range samples {
		binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(v))
	}
	return out
}
