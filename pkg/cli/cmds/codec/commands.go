// Package codec provides shell commands to inspect the FIFO packet format.
package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/senselink/pkg/cli/sh"
	"github.com/robotalks/senselink/pkg/link"
	"github.com/robotalks/senselink/pkg/present"
)

// EncodeWords encodes T H L as the words of a full reading packet.
func EncodeWords(args []string) ([]link.Word, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("TEMPERATURE HUMIDITY LUMINANCE required")
	}
	var r link.Reading
	t, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return nil, fmt.Errorf("Invalid TEMPERATURE: %v", err)
	}
	h, err := strconv.ParseFloat(args[1], 32)
	if err != nil {
		return nil, fmt.Errorf("Invalid HUMIDITY: %v", err)
	}
	l, err := strconv.ParseUint(args[2], 0, 32)
	if err != nil {
		return nil, fmt.Errorf("Invalid LUMINANCE: %v", err)
	}
	r.Temperature, r.Humidity, r.Luminance = float32(t), float32(h), uint32(l)
	return link.Encode(r).Words(), nil
}

// FormatWords formats words as hex.
func FormatWords(words []link.Word) string {
	strs := make([]string, len(words))
	for n, w := range words {
		strs[n] = fmt.Sprintf("%#08x", uint32(w))
	}
	return strings.Join(strs, " ")
}

// DecodeWords feeds words to a parser and describes each step.
func DecodeWords(args []string) ([]string, error) {
	var (
		parser link.Parser
		lines  []string
	)
	for _, arg := range args {
		val, err := strconv.ParseUint(arg, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("Invalid WORD %q: %v", arg, err)
		}
		pr := parser.Parse(link.Word(val))
		switch {
		case pr.Discarded():
			lines = append(lines, pr.Err.Error())
		case pr.Packet != nil:
			lines = append(lines, fmt.Sprintf("%v: %v", pr.Packet.Tag, describe(pr.Packet)))
		}
	}
	if parser.Pending() {
		lines = append(lines, fmt.Sprintf("incomplete packet, %d more words expected", parser.Expect()))
	}
	return lines, nil
}

func describe(pkt *link.Packet) string {
	r := pkt.Reading
	var fields []string
	if pkt.Fields()&link.FieldTemperature != 0 {
		fields = append(fields, fmt.Sprintf("T=%.1fC", r.Temperature))
	}
	if pkt.Fields()&link.FieldHumidity != 0 {
		fields = append(fields, fmt.Sprintf("H=%.1f%%", r.Humidity))
	}
	if pkt.Fields()&link.FieldLuminance != 0 {
		fields = append(fields, fmt.Sprintf("L=%d", r.Luminance))
	}
	return strings.Join(fields, " ")
}

var (
	// EncodeCmd prints the words of a reading packet.
	EncodeCmd = ishell.Cmd{
		Name:    "encode",
		Aliases: []string{"enc"},
		Help:    "TEMPERATURE HUMIDITY LUMINANCE",
		Func: func(c *ishell.Context) {
			words, err := EncodeWords(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			if sh.ShellFrom(c).OutputJSON {
				sh.Print(c, words)
				return
			}
			c.Println(FormatWords(words))
		},
	}

	// DecodeCmd parses words as received from the FIFO.
	DecodeCmd = ishell.Cmd{
		Name:    "decode",
		Aliases: []string{"dec"},
		Help:    "WORD...",
		Func: func(c *ishell.Context) {
			lines, err := DecodeWords(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			for _, line := range lines {
				c.Println(line)
			}
		},
	}

	// ClassifyCmd shows the LED state of a temperature.
	ClassifyCmd = ishell.Cmd{
		Name: "classify",
		Help: "TEMPERATURE",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("TEMPERATURE required"))
				return
			}
			t, err := strconv.ParseFloat(c.Args[0], 32)
			if err != nil {
				c.Err(fmt.Errorf("Invalid TEMPERATURE: %v", err))
				return
			}
			state := present.Classify(float32(t))
			r, g, b := state.RGB()
			c.Printf("%v R=%v G=%v B=%v\n", state, r, g, b)
		},
	}
)

func init() {
	sh.AddCmds(&EncodeCmd, &DecodeCmd, &ClassifyCmd)
}
