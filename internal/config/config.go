package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config — конфигурация gnss-link
type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Session SessionConfig `yaml:"session"`
	Report  ReportConfig  `yaml:"report"`
}

// Транспорты и драйверы последовательного порта
const (
	TransportSerial = "serial"
	TransportI2C    = "i2c"

	DriverTarm  = "tarm"  // github.com/tarm/serial
	DriverBugst = "bugst" // go.bug.st/serial
)

// DeviceConfig — канал к приёмнику: последовательный порт (USB CDC / UART) или I2C (DDC u-blox)
type DeviceConfig struct {
	Transport  string `yaml:"transport"`
	Driver     string `yaml:"driver"`
	Port       string `yaml:"port"`
	Baud       int    `yaml:"baud"`
	I2CBus     int    `yaml:"i2c_bus"`
	I2CAddress uint16 `yaml:"i2c_address"`
}

// SessionConfig — периоды задач сессии (строки длительности Go: "10ms", "1s").
// read_interval — пауза между чтениями строк; 0 — читать без паузы.
// configure_interval — период отправки кадров конфигурации; 0 — один раз при старте.
type SessionConfig struct {
	ReadInterval      string `yaml:"read_interval"`
	ReportInterval    string `yaml:"report_interval"`
	ConfigureInterval string `yaml:"configure_interval"`
	HighPrecision     bool   `yaml:"high_precision"`
	PollHighPrecision bool   `yaml:"poll_high_precision"`
}

// ReportConfig — куда отдавать фикс: лог и/или MQTT
type ReportConfig struct {
	Log  bool       `yaml:"log"`
	MQTT MQTTConfig `yaml:"mqtt"`
}

// MQTTConfig — публикация фикса в брокер; пустой broker — выключено
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
	QoS      byte   `yaml:"qos"`
	Retain   bool   `yaml:"retain"`
}

const (
	defaultReadInterval      = 10 * time.Millisecond
	defaultReportInterval    = time.Second
	defaultConfigureInterval = 10 * time.Second
)

// Default возвращает конфиг по умолчанию (ZED-F9P по USB, /dev/ttyACM0)
func Default() *Config {
	return &Config{
		Device: DeviceConfig{
			Transport:  TransportSerial,
			Driver:     DriverTarm,
			Port:       "/dev/ttyACM0",
			Baud:       9600,
			I2CBus:     1,
			I2CAddress: 0x42,
		},
		Session: SessionConfig{
			ReadInterval:      defaultReadInterval.String(),
			ReportInterval:    defaultReportInterval.String(),
			ConfigureInterval: defaultConfigureInterval.String(),
			HighPrecision:     true,
		},
		Report: ReportConfig{
			Log: true,
			MQTT: MQTTConfig{
				Topic:    "gnss/fix",
				ClientID: "gnss-link",
				Retain:   true,
			},
		},
	}
}

// Load читает конфиг из YAML
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse разбирает YAML поверх Default(): отсутствующие ключи сохраняют значения по умолчанию
// (high_precision, report.log, mqtt.retain включены, пока не выключены явно).
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate проверяет значения, которые нельзя молча заменить умолчанием.
func (c *Config) Validate() error {
	switch c.Device.Transport {
	case TransportSerial:
		switch c.Device.Driver {
		case DriverTarm, DriverBugst:
		default:
			return fmt.Errorf("config: unknown serial driver %q", c.Device.Driver)
		}
	case TransportI2C:
		if c.Device.I2CAddress == 0 || c.Device.I2CAddress > 0x7F {
			return fmt.Errorf("config: invalid i2c address 0x%X", c.Device.I2CAddress)
		}
	default:
		return fmt.Errorf("config: unknown transport %q", c.Device.Transport)
	}
	if c.Report.MQTT.QoS > 2 {
		return fmt.Errorf("config: mqtt qos %d out of range", c.Report.MQTT.QoS)
	}
	return nil
}

// ReadIntervalDuration — пауза между чтениями
func (s SessionConfig) ReadIntervalDuration() time.Duration {
	return parseDuration(s.ReadInterval, defaultReadInterval)
}

// ReportIntervalDuration — период отчёта о фиксе
func (s SessionConfig) ReportIntervalDuration() time.Duration {
	d := parseDuration(s.ReportInterval, defaultReportInterval)
	if d <= 0 {
		return defaultReportInterval
	}
	return d
}

// ConfigureIntervalDuration — период отправки конфигурации; 0 — однократно
func (s SessionConfig) ConfigureIntervalDuration() time.Duration {
	return parseDuration(s.ConfigureInterval, defaultConfigureInterval)
}

func applyDefaults(c *Config) {
	d := Default()
	if c.Device.Transport == "" {
		c.Device.Transport = d.Device.Transport
	}
	if c.Device.Driver == "" {
		c.Device.Driver = d.Device.Driver
	}
	if c.Device.Port == "" {
		c.Device.Port = d.Device.Port
	}
	if c.Device.Baud == 0 {
		c.Device.Baud = d.Device.Baud
	}
	if c.Device.I2CAddress == 0 {
		c.Device.I2CAddress = d.Device.I2CAddress
	}
	if c.Report.MQTT.Topic == "" {
		c.Report.MQTT.Topic = d.Report.MQTT.Topic
	}
	if c.Report.MQTT.ClientID == "" {
		c.Report.MQTT.ClientID = d.Report.MQTT.ClientID
	}
}

// parseDuration: пусто, ошибка или отрицательное значение — умолчание.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}
