package link

import (
	"errors"
	"fmt"
)

var (
	// ErrShortPacket indicates fewer words than the packet layout requires.
	ErrShortPacket = errors.New("short packet")
)

// FramingError indicates a word was found where a packet tag is expected.
type FramingError struct {
	Word     Word
	Expected Tag
}

// Error implements error.
func (e *FramingError) Error() string {
	if e.Expected == 0 {
		return fmt.Sprintf("framing error: unexpected word %#08x", uint32(e.Word))
	}
	return fmt.Sprintf("framing error: word %#08x is not tag %v", uint32(e.Word), e.Expected)
}
