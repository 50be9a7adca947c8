package publisher

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jgoulah/wattboard/internal/config"
	"github.com/jgoulah/wattboard/pkg/models"
)

const publishTimeout = 10 * time.Second

// Message is a single retained MQTT publish
type Message struct {
	Topic   string
	Payload []byte
}

// Summary is the JSON document published under {prefix}/{granularity}/summary
type Summary struct {
	Granularity models.Granularity `json:"granularity"`
	Period      string             `json:"period"`
	TotalKWh    float64            `json:"total_kwh"`
	Devices     map[string]float64 `json:"devices"`
	PublishedAt string             `json:"published_at"`
}

// Messages builds the retained messages for one period's breakdown: the
// total, one topic per device and a JSON summary
func Messages(prefix string, g models.Granularity, anchor string, series *models.TrendSeries, now time.Time) ([]Message, error) {
	base := fmt.Sprintf("%s/%s", prefix, g)

	msgs := []Message{{
		Topic:   base + "/total",
		Payload: []byte(formatKWh(series.TotalUsage)),
	}}
	for _, d := range models.Devices {
		msgs = append(msgs, Message{
			Topic:   base + "/" + d.Slug(),
			Payload: []byte(formatKWh(series.Breakdown.Get(d))),
		})
	}

	summary, err := json.Marshal(Summary{
		Granularity: g,
		Period:      anchor,
		TotalKWh:    series.TotalUsage,
		Devices:     series.Breakdown.Map(),
		PublishedAt: now.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding summary: %w", err)
	}
	msgs = append(msgs, Message{Topic: base + "/summary", Payload: summary})

	return msgs, nil
}

// Publisher sends usage breakdowns to an MQTT broker (e.g. for Home Assistant)
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
	log         *zap.Logger
}

// New connects to the configured broker
func New(mqttCfg config.MQTTConfig, topicPrefix string, log *zap.Logger) (*Publisher, error) {
	if !mqttCfg.Enabled {
		return nil, fmt.Errorf("MQTT publishing is not enabled in config")
	}
	if mqttCfg.Broker == "" {
		return nil, fmt.Errorf("MQTT broker address is required when enabled")
	}
	if log == nil {
		log = zap.NewNop()
	}

	clientID := mqttCfg.ClientID
	if clientID == "" {
		clientID = "wattboard-" + uuid.NewString()[:8]
	}

	// Configure MQTT client options
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", mqttCfg.Broker))
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(publishTimeout)

	if mqttCfg.Username != "" {
		opts.SetUsername(mqttCfg.Username)
	}
	if mqttCfg.Password != "" {
		opts.SetPassword(mqttCfg.Password)
	}

	// Create and connect client
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}

	log.Info("connected to MQTT broker", zap.String("broker", mqttCfg.Broker), zap.String("client_id", clientID))

	return &Publisher{
		client:      client,
		topicPrefix: topicPrefix,
		log:         log,
	}, nil
}

// Publish sends the breakdown of one period as retained messages
func (p *Publisher) Publish(g models.Granularity, anchor string, series *models.TrendSeries) (int, error) {
	msgs, err := Messages(p.topicPrefix, g, anchor, series, time.Now())
	if err != nil {
		return 0, err
	}

	for i, msg := range msgs {
		token := p.client.Publish(msg.Topic, 1, true, msg.Payload)
		if !token.WaitTimeout(publishTimeout) {
			return i, fmt.Errorf("publishing %s: timed out", msg.Topic)
		}
		if err := token.Error(); err != nil {
			return i, fmt.Errorf("publishing %s: %w", msg.Topic, err)
		}
		p.log.Debug("published", zap.String("topic", msg.Topic), zap.ByteString("payload", msg.Payload))
	}

	return len(msgs), nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}

func formatKWh(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
