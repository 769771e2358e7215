package ubx

import "encoding/binary"

// KeyID — 32-битный идентификатор ключа конфигурации (CFG-VALSET/VALGET), в кадре little-endian.
type KeyID uint32

// CFG-NMEA-HIGHPREC (L): NMEA с 7 знаками после запятой в координатах
const KeyNMEAHighPrec KeyID = 0x10930006

// Layer для CFG-VALSET — битовая маска слоёв, куда записать значение.
const (
	LayerRAM   = 0x01
	LayerBBR   = 0x02
	LayerFlash = 0x04
)

// Layer для CFG-VALGET — откуда читать (одно значение, не маска).
const (
	PollLayerRAM     = 0x00 // текущее действующее значение
	PollLayerBBR     = 0x01
	PollLayerFlash   = 0x02
	PollLayerDefault = 0x07
)

// ValSet собирает payload CFG-VALSET: version(0), layers, reserved(2), key (LE), value.
func ValSet(layers uint8, key KeyID, value []byte) Message {
	payload := make([]byte, 0, 8+len(value))
	payload = append(payload, 0x00, layers, 0x00, 0x00)
	payload = binary.LittleEndian.AppendUint32(payload, uint32(key))
	payload = append(payload, value...)
	return Message{Class: ClassCFG, ID: IDVALSET, Payload: payload}
}

// ValGet собирает payload CFG-VALGET (poll): version(0), layer, position(2), key (LE); значения нет.
func ValGet(layer uint8, key KeyID) Message {
	payload := make([]byte, 0, 8)
	payload = append(payload, 0x00, layer, 0x00, 0x00)
	payload = binary.LittleEndian.AppendUint32(payload, uint32(key))
	return Message{Class: ClassCFG, ID: IDVALGET, Payload: payload}
}

// BuildValSet собирает кадр CFG-VALSET только в RAM (после перезагрузки приёмника значение теряется).
func BuildValSet(key KeyID, value []byte) ([]byte, error) {
	return ValSet(LayerRAM, key, value).Encode()
}

// BuildValGet собирает кадр CFG-VALGET текущего значения ключа.
func BuildValGet(key KeyID) ([]byte, error) {
	return ValGet(PollLayerRAM, key).Encode()
}

// HighPrecisionFrame — CFG-VALSET CFG-NMEA-HIGHPREC = 1 в RAM.
func HighPrecisionFrame() []byte {
	b, _ := BuildValSet(KeyNMEAHighPrec, []byte{0x01})
	return b
}

// PollHighPrecisionFrame — CFG-VALGET CFG-NMEA-HIGHPREC.
func PollHighPrecisionFrame() []byte {
	b, _ := BuildValGet(KeyNMEAHighPrec)
	return b
}
