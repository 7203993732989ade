// Package sh provides the interactive diagnostic shell of senselink.
package sh

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"sync"

	"github.com/abiosoft/ishell"
	"github.com/golang/protobuf/proto"

	pb "github.com/robotalks/senselink/pkg/proto/senselink/v1"
	"github.com/robotalks/senselink/pkg/telemetry"
	"github.com/robotalks/senselink/pkg/telemetry/mqtt"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	MQTTURL     string

	Shell *ishell.Shell
	Watch *Watch
}

// Watch is an active telemetry subscription.
type Watch struct {
	Queue *mqtt.Queue
	Sub   *mqtt.Subscription

	lock sync.RWMutex
	last map[string]*pb.Reading
	echo func(device string, msg *pb.Reading)
}

const (
	shellKey = "$shell"
	prompt   = "senselink > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool
	mqttURL    = "mqtt://localhost:1883/senselink/"

	commands = []*ishell.Cmd{
		&WatchCmd,
		&UnwatchCmd,
		&LastCmd,
	}
)

func init() {
	if val := os.Getenv("SENSELINK_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL of telemetry.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New() *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		MQTTURL:     mqttURL,
		Shell:       ishell.New(),
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(prompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Print prints a value, in JSON if requested.
func Print(c *ishell.Context, v interface{}) {
	if ShellFrom(c).OutputJSON {
		out, err := json.Marshal(v)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(v)
}

// FormatReading formats a telemetry reading for display.
func FormatReading(device string, msg *pb.Reading) string {
	return fmt.Sprintf("%s #%d: T=%.1fC H=%.1f%% L=%d %s",
		device, msg.Sequence, msg.Temperature, msg.Humidity, msg.Luminance, msg.Led)
}

// NewWatch creates an unconnected Watch.
func NewWatch(q *mqtt.Queue) *Watch {
	return &Watch{Queue: q, last: make(map[string]*pb.Reading)}
}

// Handle records a telemetry payload received on topic.
func (w *Watch) Handle(topic string, payload []byte) {
	msg, err := telemetry.Decode(payload)
	if err != nil {
		log.Printf("%s: bad reading: %v", topic, err)
		return
	}
	device := msg.DeviceId
	if device == "" {
		device = mqtt.DeviceOf(topic)
	}
	w.lock.Lock()
	w.last[device] = msg
	echo := w.echo
	w.lock.Unlock()
	if echo != nil {
		echo(device, msg)
	}
}

// Last returns the last reading of device.
func (w *Watch) Last(device string) *pb.Reading {
	w.lock.RLock()
	defer w.lock.RUnlock()
	if msg := w.last[device]; msg != nil {
		return proto.Clone(msg).(*pb.Reading)
	}
	return nil
}

// Devices lists devices seen.
func (w *Watch) Devices() []string {
	w.lock.RLock()
	devices := make([]string, 0, len(w.last))
	for device := range w.last {
		devices = append(devices, device)
	}
	w.lock.RUnlock()
	sort.Strings(devices)
	return devices
}

// SetEcho sets the callback of each reading.
func (w *Watch) SetEcho(echo func(device string, msg *pb.Reading)) {
	w.lock.Lock()
	w.echo = echo
	w.lock.Unlock()
}

// Close unsubscribes and disconnects.
func (w *Watch) Close() error {
	if w.Sub != nil {
		w.Sub.Close()
	}
	return w.Queue.Close()
}

// StartWatch subscribes readings of device, or all devices if empty.
func (s *Shell) StartWatch(device string) error {
	if s.Watch == nil {
		q, err := mqtt.NewQueueFromURL(s.MQTTURL)
		if err != nil {
			return err
		}
		token := q.Connect()
		token.Wait()
		if err = token.Error(); err != nil {
			return err
		}
		s.Watch = NewWatch(q)
	}
	if s.Watch.Sub != nil {
		s.Watch.Sub.Close()
	}
	pattern := mqtt.ReadingPattern
	if device != "" {
		pattern = mqtt.ReadingTopic(device)
	}
	s.Watch.Sub = s.Watch.Queue.Sub(pattern, s.Watch.Handle)
	s.Watch.Sub.Token.Wait()
	return s.Watch.Sub.Token.Error()
}

// StopWatch closes the watch.
func (s *Shell) StopWatch() {
	if s.Watch != nil {
		s.Watch.Close()
		s.Watch = nil
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	defer s.StopWatch()
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// WatchCmd subscribes telemetry.
	WatchCmd = ishell.Cmd{
		Name:    "watch",
		Aliases: []string{"w"},
		Help:    "[DEVICE-ID]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var device string
			if len(c.Args) > 0 {
				device = c.Args[0]
			}
			if err := s.StartWatch(device); err != nil {
				c.Err(err)
				return
			}
			s.Watch.SetEcho(func(device string, msg *pb.Reading) {
				if s.OutputJSON {
					out, _ := json.Marshal(msg)
					c.Println(string(out))
					return
				}
				c.Println(FormatReading(device, msg))
			})
			if !s.Interactive {
				// keep printing until interrupted
				<-(chan struct{})(nil)
			}
		},
	}

	// UnwatchCmd stops watching telemetry.
	UnwatchCmd = ishell.Cmd{
		Name: "unwatch",
		Help: "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).StopWatch()
		},
	}

	// LastCmd shows the last reading received by watch.
	LastCmd = ishell.Cmd{
		Name:    "last",
		Aliases: []string{"l"},
		Help:    "[DEVICE-ID]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if s.Watch == nil {
				c.Err(fmt.Errorf("not watching"))
				return
			}
			devices := c.Args
			if len(devices) == 0 {
				devices = s.Watch.Devices()
			}
			if len(devices) == 0 {
				c.Println("No readings received")
				return
			}
			for _, device := range devices {
				msg := s.Watch.Last(device)
				if msg == nil {
					c.Err(fmt.Errorf("no reading from %q", device))
					continue
				}
				if s.OutputJSON {
					Print(c, msg)
					continue
				}
				c.Println(FormatReading(device, msg))
			}
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New().Run(flag.Args()...)
}
