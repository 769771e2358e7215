// Package ubx — сборка и проверка кадров бинарного протокола u-blox UBX.
package ubx

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Sync bytes для UBX протокола
const (
	Sync1 = 0xB5
	Sync2 = 0x62
)

// Классы и ID сообщений
const (
	ClassACK = 0x05
	ClassCFG = 0x06

	IDACK    = 0x01 // ACK-ACK
	IDNAK    = 0x00 // ACK-NAK
	IDVALSET = 0x8A // CFG-VALSET
	IDVALGET = 0x8B // CFG-VALGET
)

const (
	headerSize   = 6 // sync(2) + class + id + length(2)
	checksumSize = 2
	// MaxPayload — длина payload кодируется 16 битами
	MaxPayload = 0xFFFF
)

// ErrPayloadTooLarge — payload не помещается в 16-битное поле длины.
var ErrPayloadTooLarge = errors.New("ubx: payload too large")

// Header — заголовок UBX сообщения (6 байт)
type Header struct {
	Sync1  uint8
	Sync2  uint8
	Class  uint8
	ID     uint8
	Length uint16
}

// Message — class/id/payload до сборки в кадр
type Message struct {
	Class   uint8
	ID      uint8
	Payload []byte
}

// Encode собирает кадр сообщения
func (m Message) Encode() ([]byte, error) {
	return EncodePacket(m.Class, m.ID, m.Payload)
}

// Checksum вычисляет UBX контрольную сумму (без sync bytes): Fletcher-8, обе суммы по модулю 256.
func Checksum(data []byte) (ckA, ckB uint8) {
	for _, b := range data {
		ckA += b
		ckB += ckA
	}
	return ckA, ckB
}

// EncodePacket собирает полный UBX пакет: header + payload + checksum.
// Длина считается по фактическому payload.
func EncodePacket(class, id uint8, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayload {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(payload))
	}
	buf := make([]byte, 0, headerSize+len(payload)+checksumSize)
	buf = append(buf, Sync1, Sync2, class, id)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(payload)))
	buf = append(buf, payload...)
	ckA, ckB := Checksum(buf[2:])
	buf = append(buf, ckA, ckB)
	return buf, nil
}

// ParseHeader парсит заголовок из буфера (минимум 6 байт)
func ParseHeader(buf []byte) (h Header, ok bool) {
	if len(buf) < headerSize || buf[0] != Sync1 || buf[1] != Sync2 {
		return Header{}, false
	}
	h.Sync1 = buf[0]
	h.Sync2 = buf[1]
	h.Class = buf[2]
	h.ID = buf[3]
	h.Length = binary.LittleEndian.Uint16(buf[4:6])
	return h, true
}

// VerifyChecksum проверяет контрольную сумму пакета (header + payload + 2 байта checksum)
func VerifyChecksum(packet []byte) bool {
	if len(packet) < headerSize+checksumSize {
		return false
	}
	ckA, ckB := Checksum(packet[2 : len(packet)-2])
	return packet[len(packet)-2] == ckA && packet[len(packet)-1] == ckB
}

// Payload возвращает payload из полного пакета (без header и checksum).
func Payload(packet []byte) []byte {
	h, ok := ParseHeader(packet)
	if !ok || len(packet) < headerSize+int(h.Length)+checksumSize {
		return nil
	}
	return packet[headerSize : headerSize+int(h.Length)]
}

// FindPacket ищет первый полный пакет с верной контрольной суммой.
// rest — байты после найденного пакета. Пакеты с неверной суммой пропускаются.
func FindPacket(buf []byte) (packet, rest []byte, ok bool) {
	for i := 0; i+headerSize <= len(buf); i++ {
		h, found := ParseHeader(buf[i:])
		if !found {
			continue
		}
		end := i + headerSize + int(h.Length) + checksumSize
		if end > len(buf) {
			continue
		}
		if VerifyChecksum(buf[i:end]) {
			return buf[i:end], buf[end:], true
		}
	}
	return nil, buf, false
}
