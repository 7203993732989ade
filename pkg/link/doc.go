// Package link provides the inter-core sensor link.
//
// The link connects exactly two execution contexts: a producer sampling
// sensors and a consumer presenting the readings. The only shared state
// between them is a FIFO of 32-bit words of bounded depth, modelled on the
// RP2040 inter-core mailbox.
//
// Readings are framed as a tag word followed by a fixed number of payload
// words. Float values cross the FIFO as their exact IEEE-754 bit patterns.
// The FIFO has no framing awareness: producers must push whole packets
// back-to-back and consumers must never split a packet.
//
// There is no checksum and no resynchronization beyond dropping a single
// unexpected word where a tag is expected.
package link
