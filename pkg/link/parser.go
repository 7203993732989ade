package link

// Parser reassembles packets from words.
type Parser struct {
	// Tags restricts the accepted tags, nil accepts every known tag.
	Tags []Tag

	packet Packet
	layout []Fields
	recv   int
}

// ParseResult indicates the result after one parsing step.
// At most one of Packet and Err is set.
type ParseResult struct {
	// Packet is set when the word completes a packet.
	Packet *Packet
	// Err is a *FramingError when the word was discarded.
	Err error
}

// Discarded indicates the word was dropped.
func (r ParseResult) Discarded() bool {
	return r.Err != nil
}

// Pending indicates a packet is partially received.
func (p *Parser) Pending() bool {
	return p.layout != nil
}

// Expect returns the number of words needed to complete the pending packet,
// or 0 when waiting for a tag.
func (p *Parser) Expect() int {
	return len(p.layout) - p.recv
}

// Reset drops any partially received packet.
func (p *Parser) Reset() {
	p.packet, p.layout, p.recv = Packet{}, nil, 0
}

func (p *Parser) accepts(tag Tag) bool {
	if p.Tags == nil {
		return true
	}
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Parse consumes one word.
// When waiting for a tag, a word which is not an accepted tag is discarded and
// the parser keeps waiting for a tag. Payload words are not inspected.
func (p *Parser) Parse(w Word) (pr ParseResult) {
	if p.layout == nil {
		tag, ok := TagOf(w)
		if !ok || !p.accepts(tag) {
			pr.Err = &FramingError{Word: w}
			return
		}
		p.packet = Packet{Tag: tag}
		p.layout, p.recv = layouts[tag], 0
		return
	}
	p.packet.Reading.setWord(p.layout[p.recv], w)
	if p.recv++; p.recv >= len(p.layout) {
		pkt := p.packet
		p.Reset()
		pr.Packet = &pkt
	}
	return
}
