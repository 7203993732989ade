package main

import (
	"flag"
	"log"
	"os"

	"github.com/robotalks/senselink/pkg/telemetry"
	"github.com/robotalks/senselink/pkg/telemetry/mqtt"
)

var (
	mqttURL = "mqtt://localhost:1883/senselink/"
	pattern = mqtt.ReadingPattern
)

func init() {
	if val := os.Getenv("SENSELINK_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&pattern, "topic", pattern, "Topic pattern to watch.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	q.Sub(pattern, mqtt.Handler(func(topic string, payload []byte) {
		msg, err := telemetry.Decode(payload)
		if err != nil {
			log.Printf("%s: bad reading: %v", topic, err)
			return
		}
		log.Printf("%s: %s", topic, msg.String())
	}))
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}
	<-(chan struct{})(nil)
}
