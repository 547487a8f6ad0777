/*
Package chunk implements the record framing used by MmTex texture files.

Each record is a 16 byte header followed by its payload:

	magic    4 bytes, always "CHNK"
	reserved uint32, ignored when reading and written as zero
	tag      4 bytes of ASCII naming the payload
	size     int32, the number of payload bytes that follow

All integers are little-endian.
*/
package chunk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
)

// HeaderSize is the size in bytes of the fixed part of each record
const HeaderSize = 16

// magic starts every record
const magic = "CHNK"

var (
	// ErrTruncated is returned when the stream ends part way through a
	// record.
	ErrTruncated = errors.New("chunk: stream truncated")
	// ErrBadMagic is returned when a record does not start with "CHNK".
	ErrBadMagic = errors.New("chunk: bad magic")
	// ErrBadSize is returned for a negative payload size.
	ErrBadSize = errors.New("chunk: bad payload size")
)

// Tag is the four character code naming a record
type Tag [4]byte

func (t Tag) String() string {
	return string(t[:])
}

// Chunk is a single decoded record
type Chunk struct {
	Reserved uint32
	Tag      Tag
	Payload  []byte
}

type header struct {
	Magic    Tag
	Reserved uint32
	Tag      Tag
	Size     int32
}

// Reader reads records from an underlying stream
type Reader struct {
	r io.Reader
}

// NewReader returns a Reader reading from r
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next reads the next record. It returns io.EOF if the stream ended cleanly
// before a new record and ErrTruncated if it ended inside one.
func (r *Reader) Next() (*Chunk, error) {
	var tmp [HeaderSize]byte
	switch _, err := io.ReadFull(r.r, tmp[:]); err {
	case nil:
	case io.EOF:
		return nil, io.EOF
	case io.ErrUnexpectedEOF:
		return nil, fmt.Errorf("%w: short header", ErrTruncated)
	default:
		return nil, err
	}

	var h header
	if err := binary.Read(bytes.NewReader(tmp[:]), binary.LittleEndian, &h); err != nil {
		return nil, err
	}

	if h.Magic.String() != magic {
		return nil, fmt.Errorf("%w: %q", ErrBadMagic, h.Magic.String())
	}
	if h.Size < 0 {
		return nil, fmt.Errorf("%w: %s declares %d bytes", ErrBadSize, h.Tag, h.Size)
	}

	// Don't trust the size for the allocation, the stream may be shorter
	payload, err := ioutil.ReadAll(io.LimitReader(r.r, int64(h.Size)))
	if err != nil {
		return nil, err
	}
	if len(payload) != int(h.Size) {
		return nil, fmt.Errorf("%w: %s declares %d bytes, %d available", ErrTruncated, h.Tag, h.Size, len(payload))
	}

	return &Chunk{
		Reserved: h.Reserved,
		Tag:      h.Tag,
		Payload:  payload,
	}, nil
}

// ReadAll reads records until the stream ends cleanly
func ReadAll(r io.Reader) ([]*Chunk, error) {
	cr := NewReader(r)

	var chunks []*Chunk
	for {
		c, err := cr.Next()
		if err == io.EOF {
			return chunks, nil
		}
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
}

// Writer writes records to an underlying stream
type Writer struct {
	w io.Writer
}

// NewWriter returns a Writer writing to w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteChunk writes a single record with a zero reserved field.
func (w *Writer) WriteChunk(tag Tag, payload []byte) error {
	if len(payload) > 1<<31-1 {
		return fmt.Errorf("%w: %d bytes", ErrBadSize, len(payload))
	}

	h := header{
		Tag:  tag,
		Size: int32(len(payload)),
	}
	copy(h.Magic[:], magic)
	if err := binary.Write(w.w, binary.LittleEndian, &h); err != nil {
		return err
	}

	_, err := w.w.Write(payload)
	return err
}
