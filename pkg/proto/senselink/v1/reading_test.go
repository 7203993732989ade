package senselink

import (
	"testing"

	"github.com/golang/protobuf/proto"
	"github.com/stretchr/testify/require"
)

func TestReadingWireFormat(t *testing.T) {
	msg := &Reading{Luminance: 300, Led: "HOT"}
	data, err := proto.Marshal(msg)
	require.NoError(t, err)
	// field 3 varint 300, field 4 bytes "HOT"
	require.Equal(t, []byte{0x18, 0xac, 0x02, 0x22, 0x03, 'H', 'O', 'T'}, data)

	var decoded Reading
	require.NoError(t, proto.Unmarshal(data, &decoded))
	require.True(t, proto.Equal(msg, &decoded))
	require.Contains(t, decoded.String(), `led:"HOT"`)
}
