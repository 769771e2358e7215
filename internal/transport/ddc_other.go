//go:build !linux

package transport

import "fmt"

// OpenDDC — I2C доступен только на Linux.
func OpenDDC(bus int, addr uint16) (*DDC, error) {
	return nil, fmt.Errorf("i2c: unsupported OS (need linux), bus %d addr 0x%X", bus, addr)
}
