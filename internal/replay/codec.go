package replay

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-fighter/internal/input"
)

// Export writes l as YAML.
func Export(w io.Writer, l *Log) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("replay: encode: %w", err)
	}
	return enc.Close()
}

// Import reads a YAML log written by Export and checks it.
func Import(r io.Reader) (*Log, error) {
	var l Log
	if err := yaml.NewDecoder(r).Decode(&l); err != nil {
		return nil, fmt.Errorf("replay: decode: %w", err)
	}
	if err := l.Check(); err != nil {
		return nil, err
	}
	return &l, nil
}

var inputsMagic = []byte("FGI1")

// maxRecords bounds decoded logs, a little over five hours at 55 ticks
// per second.
const maxRecords = 1 << 20

// EncodeInputs packs the records into a compact run-length form: each
// run is a uvarint count followed by the four bytes of the repeated
// input pair. Ticks are implicit.
func EncodeInputs(records []Record) []byte {
	buf := append([]byte(nil), inputsMagic...)
	for i := 0; i < len(records); {
		j := i + 1
		for j < len(records) && records[j].P1 == records[i].P1 && records[j].P2 == records[i].P2 {
			j++
		}
		buf = binary.AppendUvarint(buf, uint64(j-i))
		buf = append(buf,
			byte(records[i].P1.Dir), byte(records[i].P1.Buttons),
			byte(records[i].P2.Dir), byte(records[i].P2.Buttons))
		i = j
	}
	return buf
}

// DecodeInputs reverses EncodeInputs.
func DecodeInputs(data []byte) ([]Record, error) {
	if !bytes.HasPrefix(data, inputsMagic) {
		return nil, fmt.Errorf("%w: bad input header", ErrCorrupt)
	}
	data = data[len(inputsMagic):]

	var out []Record
	for len(data) > 0 {
		n, size := binary.Uvarint(data)
		if size <= 0 || n == 0 {
			return nil, fmt.Errorf("%w: bad run length at record %d", ErrCorrupt, len(out))
		}
		if uint64(len(out))+n > maxRecords {
			return nil, fmt.Errorf("%w: more than %d records", ErrCorrupt, maxRecords)
		}
		data = data[size:]
		if len(data) < 4 {
			return nil, fmt.Errorf("%w: truncated run at record %d", ErrCorrupt, len(out))
		}
		p1 := input.Sample{Dir: input.Direction(data[0]), Buttons: input.Buttons(data[1])}
		p2 := input.Sample{Dir: input.Direction(data[2]), Buttons: input.Buttons(data[3])}
		data = data[4:]
		for k := uint64(0); k < n; k++ {
			out = append(out, Record{Tick: len(out), P1: p1, P2: p2})
		}
	}
	return out, nil
}
