// Package transport открывает канал к приёмнику: последовательный порт или I2C (DDC u-blox).
//
// Чтение и запись без таймаутов: зависшее устройство блокирует вызывающую горутину,
// пока канал не закрыт. Повторов нет.
package transport

import (
	"fmt"
	"io"

	"github.com/shiwa/timecard-mini/gnss-link/internal/config"
)

// Open открывает канал по конфигу устройства.
func Open(c config.DeviceConfig) (io.ReadWriteCloser, error) {
	switch c.Transport {
	case config.TransportSerial, "":
		switch c.Driver {
		case config.DriverBugst:
			return openBugst(c.Port, c.Baud)
		case config.DriverTarm, "":
			p, err := openTarm(c.Port, c.Baud)
			if err != nil {
				return nil, err
			}
			return p, nil
		default:
			return nil, fmt.Errorf("transport: unknown serial driver %q", c.Driver)
		}
	case config.TransportI2C:
		d, err := OpenDDC(c.I2CBus, c.I2CAddress)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("transport: unknown transport %q", c.Transport)
	}
}

// Describe — короткое описание канала для логов.
func Describe(c config.DeviceConfig) string {
	if c.Transport == config.TransportI2C {
		return fmt.Sprintf("i2c:/dev/i2c-%d@0x%02X", c.I2CBus, c.I2CAddress)
	}
	return fmt.Sprintf("serial(%s):%s@%d", c.Driver, c.Port, c.Baud)
}
