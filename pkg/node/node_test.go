package node

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/senselink/pkg/framework"
	"github.com/robotalks/senselink/pkg/link"
	"github.com/robotalks/senselink/pkg/present"
)

type testCC struct {
	ctx   context.Context
	cycle uint64
}

func newTestCC() *testCC {
	return &testCC{ctx: context.Background()}
}

func (c *testCC) Context() context.Context { return c.ctx }
func (c *testCC) Time() time.Time          { return time.Now() }
func (c *testCC) Cycle() uint64            { return c.cycle }
func (c *testCC) PriorityLevel() int       { return fx.PrLvControl }
func (c *testCC) TriggerNext()             {}

type fixedSensors struct {
	lux         uint16
	temperature float32
	humidity    float32
}

func (s *fixedSensors) ReadLux() uint16 { return s.lux }

func (s *fixedSensors) ReadClimate() (float32, float32) {
	return s.temperature, s.humidity
}

type recordingLED struct {
	lock    sync.Mutex
	r, g, b bool
}

func (l *recordingLED) Set(r, g, b bool) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.r, l.g, l.b = r, g, b
	return nil
}

func (l *recordingLED) rgb() []bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	return []bool{l.r, l.g, l.b}
}

type recordingObserver struct {
	readings []link.Reading
	states   []present.LedState
}

func (o *recordingObserver) Observe(r link.Reading, state present.LedState) {
	o.readings = append(o.readings, r)
	o.states = append(o.states, state)
}

func drainWords(fifo *link.FIFO) (words []link.Word) {
	for {
		w, ok := fifo.TryPop()
		if !ok {
			return
		}
		words = append(words, w)
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("blocking")
	require.NoError(t, err)
	require.Equal(t, PolicyBlocking, p)
	p, err = ParsePolicy("best-effort")
	require.NoError(t, err)
	require.Equal(t, PolicyBestEffort, p)
	_, err = ParsePolicy("eventually")
	require.Equal(t, ErrUnknownPolicy, err)
}

func TestProducer(t *testing.T) {
	sensors := &fixedSensors{lux: 300, temperature: 50, humidity: 60}
	r := link.Reading{Luminance: 300, Temperature: 50, Humidity: 60}

	testCases := []struct {
		split bool
		words []link.Word
	}{
		{false, []link.Word{
			link.Word(link.TagReading), link.Bits(50), link.Bits(60), 300,
		}},
		{true, []link.Word{
			link.Word(link.TagLight), 300,
			link.Word(link.TagClimate), link.Bits(50), link.Bits(60),
		}},
	}
	for _, tc := range testCases {
		fifo := link.NewFIFO(link.DefaultDepth)
		p := &Producer{Light: sensors, Climate: sensors, FIFO: fifo, Split: tc.split}
		require.NoError(t, p.Control(newTestCC()))
		require.Equal(t, tc.words, drainWords(fifo))
		require.EqualValues(t, 1, p.Cycles())

		if !tc.split {
			decoded, err := link.Decode(tc.words)
			require.NoError(t, err)
			require.Equal(t, r, decoded)
		}
	}
}

func TestProducerBackpressure(t *testing.T) {
	sensors := &fixedSensors{lux: 1, temperature: 25, humidity: 50}
	fifo := link.NewFIFO(2)
	p := &Producer{Light: sensors, Climate: sensors, FIFO: fifo}

	done := make(chan error, 1)
	go func() { done <- p.Control(newTestCC()) }()

	select {
	case <-done:
		t.Fatal("producer did not block on full FIFO")
	case <-time.After(50 * time.Millisecond):
	}
	require.EqualValues(t, 0, p.Cycles())

	var words []link.Word
	for len(words) < 4 {
		w, err := fifo.Pop(context.Background())
		require.NoError(t, err)
		words = append(words, w)
	}
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("producer still blocked")
	}
	require.Equal(t, link.Word(link.TagReading), words[0])
	require.EqualValues(t, 1, p.Cycles())
}

func TestProducerCancelled(t *testing.T) {
	sensors := &fixedSensors{}
	p := &Producer{Light: sensors, Climate: sensors, FIFO: link.NewFIFO(1)}
	cc := newTestCC()
	ctx, cancel := context.WithCancel(context.Background())
	cc.ctx = ctx
	cancel()
	require.Equal(t, context.Canceled, p.Control(cc))
}

func TestConsumerBlockingRecovers(t *testing.T) {
	fifo := link.NewFIFO(link.DefaultDepth)
	ledOut := &recordingLED{}
	obs := &recordingObserver{}
	c := &Consumer{
		Policy:    PolicyBlocking,
		FIFO:      fifo,
		Presenter: &present.Presenter{LED: ledOut},
		Observer:  obs,
	}
	ctx := context.Background()
	require.NoError(t, fifo.Push(ctx, 0xdeadbeef))
	pkt := link.Encode(link.Reading{Luminance: 300, Temperature: 50, Humidity: 60})
	require.NoError(t, pkt.PushTo(ctx, fifo))

	require.NoError(t, c.Control(newTestCC()))
	require.Equal(t, ConsumerStats{Cycles: 1, Discarded: 1}, c.Stats())
	last, state := c.Last()
	require.Equal(t, link.Reading{}, last)
	require.Equal(t, present.Cold, state)
	require.Empty(t, obs.readings)

	require.NoError(t, c.Control(newTestCC()))
	require.Equal(t, ConsumerStats{Cycles: 2, Packets: 1, Discarded: 1}, c.Stats())
	last, state = c.Last()
	require.Equal(t, pkt.Reading, last)
	require.Equal(t, present.Hot, state)
	require.Equal(t, []bool{true, false, false}, ledOut.rgb())
	require.Equal(t, []link.Reading{pkt.Reading}, obs.readings)
	require.Equal(t, []present.LedState{present.Hot}, obs.states)
}

func TestConsumerDiscardsTagsNotSent(t *testing.T) {
	pkt := link.Encode(link.Reading{Luminance: 300, Temperature: 50, Humidity: 60})
	for _, stray := range []link.Word{0xdeadbeef, link.Word(link.TagLight), link.Word(link.TagClimate), 0} {
		for _, policy := range []Policy{PolicyBlocking, PolicyBestEffort} {
			fifo := link.NewFIFO(link.DefaultDepth)
			c := &Consumer{Policy: policy, FIFO: fifo}
			ctx := context.Background()
			require.NoError(t, fifo.Push(ctx, stray))
			require.NoError(t, pkt.PushTo(ctx, fifo))

			for c.Stats().Packets == 0 {
				require.NoError(t, c.Control(newTestCC()))
			}
			require.EqualValuesf(t, 1, c.Stats().Discarded, "stray %#x %s", stray, policy)
			last, state := c.Last()
			require.Equal(t, pkt.Reading, last)
			require.Equal(t, present.Hot, state)
		}
	}
}

func TestConsumerSplitRejectsFullReading(t *testing.T) {
	fifo := link.NewFIFO(link.DefaultDepth)
	c := &Consumer{Policy: PolicyBlocking, FIFO: fifo, Tags: PacketTags(true)}
	require.NoError(t, fifo.Push(context.Background(), link.Word(link.TagReading)))
	require.NoError(t, c.Control(newTestCC()))
	require.Equal(t, ConsumerStats{Cycles: 1, Discarded: 1}, c.Stats())
}

func TestConsumerBlockingSplitPackets(t *testing.T) {
	fifo := link.NewFIFO(link.DefaultDepth)
	c := &Consumer{Policy: PolicyBlocking, FIFO: fifo, Tags: PacketTags(true)}
	ctx := context.Background()
	light := link.EncodeLight(120)
	climate := link.EncodeClimate(15, 40)
	require.NoError(t, light.PushTo(ctx, fifo))
	require.NoError(t, climate.PushTo(ctx, fifo))

	require.NoError(t, c.Control(newTestCC()))
	last, _ := c.Last()
	require.Equal(t, link.Reading{Luminance: 120}, last)

	require.NoError(t, c.Control(newTestCC()))
	last, state := c.Last()
	require.Equal(t, link.Reading{Luminance: 120, Temperature: 15, Humidity: 40}, last)
	require.Equal(t, present.Cold, state)
}

func TestConsumerBlockingWaits(t *testing.T) {
	fifo := link.NewFIFO(link.DefaultDepth)
	c := &Consumer{Policy: PolicyBlocking, FIFO: fifo}
	ctx := context.Background()
	require.NoError(t, fifo.Push(ctx, link.Word(link.TagReading)))

	done := make(chan error, 1)
	go func() { done <- c.Control(newTestCC()) }()
	select {
	case <-done:
		t.Fatal("consumer did not wait for the payload")
	case <-time.After(50 * time.Millisecond):
	}
	for _, w := range []link.Word{link.Bits(30), link.Bits(45), 10} {
		require.NoError(t, fifo.Push(ctx, w))
	}
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("consumer still blocked")
	}
	last, state := c.Last()
	require.Equal(t, link.Reading{Luminance: 10, Temperature: 30, Humidity: 45}, last)
	require.Equal(t, present.Normal, state)
}

func TestConsumerBestEffort(t *testing.T) {
	fifo := link.NewFIFO(link.DefaultDepth)
	local := &fixedSensors{lux: 777}
	c := &Consumer{Policy: PolicyBestEffort, FIFO: fifo, Light: local}
	ctx := context.Background()

	// nothing queued, never blocks
	require.NoError(t, c.Control(newTestCC()))
	last, _ := c.Last()
	require.Equal(t, link.Reading{Luminance: 777}, last)

	words := link.Encode(link.Reading{Luminance: 5, Temperature: 50, Humidity: 60}).Words()
	for _, w := range words[:3] {
		require.NoError(t, fifo.Push(ctx, w))
	}
	require.NoError(t, c.Control(newTestCC()))
	require.Equal(t, ConsumerStats{Cycles: 2}, c.Stats())
	last, state := c.Last()
	require.Equal(t, link.Reading{Luminance: 777}, last)
	require.Equal(t, present.Cold, state)

	require.NoError(t, fifo.Push(ctx, words[3]))
	local.lux = 778
	require.NoError(t, c.Control(newTestCC()))
	require.Equal(t, ConsumerStats{Cycles: 3, Packets: 1}, c.Stats())
	last, state = c.Last()
	require.Equal(t, link.Reading{Luminance: 778, Temperature: 50, Humidity: 60}, last)
	require.Equal(t, present.Hot, state)
}

func TestConsumerBestEffortBounded(t *testing.T) {
	fifo := link.NewFIFO(4)
	c := &Consumer{Policy: PolicyBestEffort, FIFO: fifo}
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		require.NoError(t, fifo.Push(ctx, 0xffff0000))
	}
	require.NoError(t, c.Control(newTestCC()))
	require.Equal(t, ConsumerStats{Cycles: 1, Discarded: 4}, c.Stats())
	require.Zero(t, fifo.Len())
}

func TestSystem(t *testing.T) {
	sensors := &fixedSensors{lux: 300, temperature: 50, humidity: 60}
	fifo := link.NewFIFO(link.DefaultDepth)
	ledOut := &recordingLED{}
	c := &Consumer{
		Policy:    PolicyBlocking,
		FIFO:      fifo,
		Presenter: &present.Presenter{LED: ledOut},
	}
	p := &Producer{Light: sensors, Climate: sensors, FIFO: fifo}
	s := NewSystem(p, c, 5*time.Millisecond)
	require.True(t, s.ConsumerLoop.Continuous)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		return c.Stats().Packets >= 3
	}, 2*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("system did not stop")
	}

	last, state := c.Last()
	require.Equal(t, link.Reading{Luminance: 300, Temperature: 50, Humidity: 60}, last)
	require.Equal(t, present.Hot, state)
	require.Zero(t, c.Stats().Discarded)
	require.Equal(t, []bool{true, false, false}, ledOut.rgb())
}
