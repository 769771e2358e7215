package report

import (
	"context"
	"errors"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/shiwa/timecard-mini/gnss-link/internal/config"
	"github.com/shiwa/timecard-mini/gnss-link/internal/logger"
)

// ErrNoBroker — в конфиге не задан брокер.
var ErrNoBroker = errors.New("report: mqtt broker not configured")

// publisher — часть mqtt.Client, которая нужна приёмнику.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTTSink публикует отчёты JSON-ом в топик брокера.
type MQTTSink struct {
	client publisher
	topic  string
	qos    byte
	retain bool
}

// DialMQTT подключается к брокеру.
func DialMQTT(c config.MQTTConfig) (*MQTTSink, error) {
	if c.Broker == "" {
		return nil, ErrNoBroker
	}
	opts := mqtt.NewClientOptions().
		AddBroker(c.Broker).
		SetClientID(c.ClientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", c.Broker, token.Error())
	}
	logger.Info("connected to MQTT broker at %s", c.Broker)
	return newMQTTSink(client, c), nil
}

func newMQTTSink(p publisher, c config.MQTTConfig) *MQTTSink {
	return &MQTTSink{client: p, topic: c.Topic, qos: c.QoS, retain: c.Retain}
}

// Publish отправляет отчёт. Пока фикса нет, ничего не публикуется.
func (s *MQTTSink) Publish(ctx context.Context, r Report) error {
	if !r.Valid() {
		return nil
	}
	payload, err := Encode(r)
	if err != nil {
		return err
	}
	token := s.client.Publish(s.topic, s.qos, s.retain, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish %s: %w", s.topic, err)
	}
	return nil
}

// Close отключается от брокера.
func (s *MQTTSink) Close() error {
	s.client.Disconnect(250)
	return nil
}
