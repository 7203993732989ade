package link

import (
	"context"
	"fmt"
	"math"
)

// Word is the unit carried by the FIFO.
type Word uint32

// Tag is the leading word of a packet identifying its layout.
type Tag Word

// Packet tags.
// TagLight and TagClimate are per-sensor packets,
// TagReading carries a full Reading.
const (
	TagLight   Tag = 1
	TagClimate Tag = 2
	TagReading Tag = 3
)

// Fields is a bit mask of Reading fields.
type Fields uint8

// Reading fields
const (
	FieldLuminance Fields = 1 << iota
	FieldTemperature
	FieldHumidity

	FieldsNone Fields = 0
	FieldsAll         = FieldLuminance | FieldTemperature | FieldHumidity
)

// payload layouts, in wire order after the tag.
var layouts = map[Tag][]Fields{
	TagLight:   {FieldLuminance},
	TagClimate: {FieldTemperature, FieldHumidity},
	TagReading: {FieldTemperature, FieldHumidity, FieldLuminance},
}

// PacketWords is the number of words of a full Reading packet.
const PacketWords = 4

// TagOf interprets a word as a tag.
func TagOf(w Word) (Tag, bool) {
	t := Tag(w)
	return t, t.IsValid()
}

// IsValid indicates the tag is known.
func (t Tag) IsValid() bool {
	_, ok := layouts[t]
	return ok
}

// PayloadLen is the number of words following the tag.
func (t Tag) PayloadLen() int {
	return len(layouts[t])
}

// Fields returns the Reading fields carried by packets with this tag.
func (t Tag) Fields() (f Fields) {
	for _, field := range layouts[t] {
		f |= field
	}
	return
}

// String implements fmt.Stringer.
func (t Tag) String() string {
	switch t {
	case TagLight:
		return "light"
	case TagClimate:
		return "climate"
	case TagReading:
		return "reading"
	}
	return fmt.Sprintf("tag(%#x)", uint32(t))
}

// Bits returns the exact bit pattern of f as a Word.
func Bits(f float32) Word {
	return Word(math.Float32bits(f))
}

// FromBits reinterprets the bit pattern of a Word as float32.
func FromBits(w Word) float32 {
	return math.Float32frombits(uint32(w))
}

// Reading is one sample of both sensors.
type Reading struct {
	// Luminance in raw sensor unit (lux).
	Luminance uint32
	// Temperature in Celsius.
	Temperature float32
	// Humidity in percent.
	Humidity float32
}

// Merge copies the fields selected by mask from src.
func (r *Reading) Merge(src Reading, mask Fields) {
	if mask&FieldLuminance != 0 {
		r.Luminance = src.Luminance
	}
	if mask&FieldTemperature != 0 {
		r.Temperature = src.Temperature
	}
	if mask&FieldHumidity != 0 {
		r.Humidity = src.Humidity
	}
}

// String implements fmt.Stringer.
func (r Reading) String() string {
	return fmt.Sprintf("T=%.2fC H=%.2f%% L=%d", r.Temperature, r.Humidity, r.Luminance)
}

func (r *Reading) word(f Fields) Word {
	switch f {
	case FieldLuminance:
		return Word(r.Luminance)
	case FieldTemperature:
		return Bits(r.Temperature)
	case FieldHumidity:
		return Bits(r.Humidity)
	}
	panic(fmt.Sprintf("invalid field %d", f))
}

func (r *Reading) setWord(f Fields, w Word) {
	switch f {
	case FieldLuminance:
		r.Luminance = uint32(w)
	case FieldTemperature:
		r.Temperature = FromBits(w)
	case FieldHumidity:
		r.Humidity = FromBits(w)
	default:
		panic(fmt.Sprintf("invalid field %d", f))
	}
}

// Packet is a Reading framed by a tag.
// Only the fields selected by Tag.Fields are meaningful.
type Packet struct {
	Tag     Tag
	Reading Reading
}

// Encode frames a full Reading.
func Encode(r Reading) Packet {
	return Packet{Tag: TagReading, Reading: r}
}

// EncodeLight frames a luminance-only packet.
func EncodeLight(lux uint32) Packet {
	return Packet{Tag: TagLight, Reading: Reading{Luminance: lux}}
}

// EncodeClimate frames a temperature/humidity packet.
func EncodeClimate(temperature, humidity float32) Packet {
	return Packet{Tag: TagClimate, Reading: Reading{Temperature: temperature, Humidity: humidity}}
}

// Fields returns the Reading fields carried.
func (p Packet) Fields() Fields {
	return p.Tag.Fields()
}

// Len returns the number of words including the tag.
func (p Packet) Len() int {
	return p.Tag.PayloadLen() + 1
}

// Words returns encoded words for pushing.
func (p Packet) Words() []Word {
	return p.AppendWords(make([]Word, 0, p.Len()))
}

// AppendWords appends encoded words to dst.
func (p Packet) AppendWords(dst []Word) []Word {
	layout, ok := layouts[p.Tag]
	if !ok {
		panic(fmt.Sprintf("encode packet with invalid %v", p.Tag))
	}
	dst = append(dst, Word(p.Tag))
	for _, f := range layout {
		dst = append(dst, p.Reading.word(f))
	}
	return dst
}

// PushTo pushes all words of the packet back-to-back.
// It blocks while the FIFO is full.
func (p Packet) PushTo(ctx context.Context, fifo *FIFO) error {
	for _, w := range p.Words() {
		if err := fifo.Push(ctx, w); err != nil {
			return err
		}
	}
	return nil
}

// DecodePacket decodes one packet of any known tag from the head of words
// and returns the number of words consumed.
func DecodePacket(words []Word) (pkt Packet, n int, err error) {
	if len(words) == 0 {
		return pkt, 0, ErrShortPacket
	}
	tag, ok := TagOf(words[0])
	if !ok {
		return pkt, 0, &FramingError{Word: words[0]}
	}
	layout := layouts[tag]
	if len(words) < len(layout)+1 {
		return pkt, 0, ErrShortPacket
	}
	pkt.Tag = tag
	for i, f := range layout {
		pkt.Reading.setWord(f, words[i+1])
	}
	return pkt, len(layout) + 1, nil
}

// Decode decodes a full Reading packet.
// Either all fields are recovered or an error is returned.
func Decode(words []Word) (Reading, error) {
	if len(words) > 0 && Tag(words[0]) != TagReading {
		return Reading{}, &FramingError{Word: words[0], Expected: TagReading}
	}
	pkt, _, err := DecodePacket(words)
	if err != nil {
		return Reading{}, err
	}
	return pkt.Reading, nil
}
