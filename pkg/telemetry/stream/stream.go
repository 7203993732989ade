// Package stream frames telemetry packets on a byte stream.
// Each packet is prefixed by its length as 4-byte little-endian.
package stream

import (
	"encoding/binary"
	"errors"
	"io"
	"sync"
)

// MaxPacketSize bounds the size accepted by ReadPacket.
const MaxPacketSize = 1 << 16

// ErrPacketTooLarge is returned for a length prefix above MaxPacketSize.
var ErrPacketTooLarge = errors.New("packet too large")

// Writer writes length-prefixed packets.
type Writer struct {
	W io.Writer

	lock sync.Mutex
	buf  []byte
}

// NewWriter creates a Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{W: w}
}

// WritePacket implements PacketWriter.
// The prefix and the packet go out in a single Write.
func (p *Writer) WritePacket(pkt []byte) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.buf = append(p.buf[:0], 0, 0, 0, 0)
	binary.LittleEndian.PutUint32(p.buf, uint32(len(pkt)))
	p.buf = append(p.buf, pkt...)
	_, err := p.W.Write(p.buf)
	return err
}

// Close closes the underlying writer if it is an io.Closer.
func (p *Writer) Close() error {
	if c, ok := p.W.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Reader reads length-prefixed packets.
type Reader struct {
	R io.Reader
}

// NewReader creates a Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{R: r}
}

// ReadPacket reads the next packet.
func (p *Reader) ReadPacket() ([]byte, error) {
	var size uint32
	if err := binary.Read(p.R, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	if size > MaxPacketSize {
		return nil, ErrPacketTooLarge
	}
	pkt := make([]byte, size)
	if _, err := io.ReadFull(p.R, pkt); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return pkt, nil
}
