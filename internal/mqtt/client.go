package mqtt

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/berfenger/solardash/internal/config"
	"github.com/berfenger/solardash/internal/core/domain"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	MQTT_PAYLOAD_ONLINE  = "online"
	MQTT_PAYLOAD_OFFLINE = "offline"
	MQTT_PAYLOAD_ON      = "on"
	MQTT_PAYLOAD_OFF     = "off"

	BRIDGE_SENSOR_ID = "bridge"
)

var (
	ErrUnknownTopic   = errors.New("topic is not a sensor state topic")
	ErrInvalidPayload = errors.New("invalid sensor payload")
)

func OptsFromConfig(cfg *config.Config) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTT.Host, cfg.MQTT.Port))
	opts.SetClientID(fmt.Sprintf("solardash_%d", rand.Intn(1000)))
	if cfg.MQTT.Username != "" && cfg.MQTT.Password != "" {
		opts.SetUsername(cfg.MQTT.Username)
		opts.SetPassword(cfg.MQTT.Password)
	}
	opts.SetAutoReconnect(true)
	opts.WillEnabled = true
	opts.WillPayload = []byte(MQTT_PAYLOAD_OFFLINE)
	opts.WillRetained = true
	opts.WillTopic = bridgeStateTopic(cfg.MQTT.ClientTopic)
	opts.WillQos = 0

	return opts
}

func CreateMQTTClient(cfg *config.Config, opts *mqtt.ClientOptions, onConnectHandler func(client mqtt.Client),
	onConnectionLostHandler func(mqtt.Client, error)) *MQTTClient {
	if onConnectHandler != nil {
		opts.OnConnect = onConnectHandler
	}
	if onConnectionLostHandler != nil {
		opts.OnConnectionLost = onConnectionLostHandler
	}
	return &MQTTClient{
		client:           mqtt.NewClient(opts),
		cfg:              cfg.MQTT,
		stateTopicRegexp: stateTopicExtractor(cfg.MQTT.BaseTopic),
	}
}

// MQTTClient reads the state topics published by the inverter bridge and
// announces our own availability.
type MQTTClient struct {
	client           mqtt.Client
	cfg              config.MQTTConfig
	stateTopicRegexp *regexp.Regexp
}

func (c *MQTTClient) baseTopic() string {
	return c.cfg.BaseTopic
}

// BridgeStateTopic is our own availability topic.
func (c *MQTTClient) BridgeStateTopic() string {
	return bridgeStateTopic(c.cfg.ClientTopic)
}

// SourceBridgeStateTopic is the availability topic of the inverter bridge.
func (c *MQTTClient) SourceBridgeStateTopic() string {
	return bridgeStateTopic(c.baseTopic())
}

func (c *MQTTClient) SensorStateTopic(sensorId string) string {
	return fmt.Sprintf("%s/sensor/%s/state", c.baseTopic(), sensorId)
}

func (c *MQTTClient) BinarySensorStateTopic(sensorId string) string {
	return fmt.Sprintf("%s/binary_sensor/%s/state", c.baseTopic(), sensorId)
}

func (c *MQTTClient) SubscriptionFilters() map[string]byte {
	return map[string]byte{
		c.SensorStateTopic("+"):       0,
		c.BinarySensorStateTopic("+"): 0,
		c.SourceBridgeStateTopic():    1,
	}
}

// ParseStateMessage turns a bridge state message into a reading event stamped at.
func (c *MQTTClient) ParseStateMessage(msg mqtt.Message, at time.Time) (domain.SensorReadingEvent, error) {
	return parseStateMessage(c.stateTopicRegexp, c.SourceBridgeStateTopic(), msg.Topic(), string(msg.Payload()), at)
}

func parseStateMessage(stateRegexp *regexp.Regexp, bridgeTopic, topic, payload string, at time.Time) (domain.SensorReadingEvent, error) {
	payload = strings.TrimSpace(payload)

	if topic == bridgeTopic {
		switch payload {
		case MQTT_PAYLOAD_ONLINE, MQTT_PAYLOAD_OFFLINE:
			return domain.BridgeStateEvent{
				SensorReadingMixIn: domain.SensorReadingMixIn{Id: BRIDGE_SENSOR_ID, At: at},
				Online:             payload == MQTT_PAYLOAD_ONLINE,
			}, nil
		}
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidPayload, topic, payload)
	}

	matches := stateRegexp.FindStringSubmatch(topic)
	if len(matches) != 3 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
	}
	kind, id := matches[1], matches[2]
	mixIn := domain.SensorReadingMixIn{Id: id, At: at}

	if kind == "binary_sensor" {
		switch strings.ToLower(payload) {
		case MQTT_PAYLOAD_ON:
			return domain.BinaryReadingEvent{SensorReadingMixIn: mixIn, Value: true}, nil
		case MQTT_PAYLOAD_OFF:
			return domain.BinaryReadingEvent{SensorReadingMixIn: mixIn, Value: false}, nil
		}
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidPayload, topic, payload)
	}

	if value, err := strconv.ParseFloat(payload, 64); err == nil {
		return domain.FloatReadingEvent{SensorReadingMixIn: mixIn, Value: value}, nil
	}
	return domain.TextReadingEvent{SensorReadingMixIn: mixIn, Value: payload}, nil
}

func (c *MQTTClient) Publish(topic string, payload any, qos byte, retain bool, continuation func(error), timeout time.Duration) {
	token := c.client.Publish(topic, qos, retain, payload)
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT publish timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) SubscribeToStateTopics(handler mqtt.MessageHandler, continuation func(error), timeout time.Duration) {
	token := c.client.SubscribeMultiple(c.SubscriptionFilters(), handler)
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT subscribe timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) Connect(continuation func(error), timeout time.Duration) {
	token := c.client.Connect()
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT connect timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) Disconnect(timeout time.Duration) {
	c.client.Disconnect(uint(timeout.Milliseconds()))
}

func stateTopicExtractor(baseTopic string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf("^%s/(sensor|binary_sensor)/([a-zA-Z0-9_]+)/state$", regexp.QuoteMeta(baseTopic)))
}

func bridgeStateTopic(baseTopic string) string {
	return fmt.Sprintf("%s/bridge/state", baseTopic)
}
