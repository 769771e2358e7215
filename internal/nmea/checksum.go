// Package nmea — разбор NMEA 0183 предложений GLL (широта/долгота) с проверкой XOR контрольной суммы.
package nmea

import (
	"fmt"
	"strings"
)

// Checksum вычисляет XOR контрольную сумму строки NMEA.
// '$' сбрасывает аккумулятор (мусор перед началом предложения не учитывается),
// '*' завершает подсчёт. Результат — верхний регистр hex без дополнения нулями ("E", а не "0E").
func Checksum(line string) string {
	acc := 0
	for _, r := range line {
		if r == '*' {
			break
		}
		if r == '$' {
			acc = 0
			continue
		}
		acc ^= int(r)
	}
	return fmt.Sprintf("%X", acc)
}

var crlf = strings.NewReplacer("\r", "", "\n", "")

// TransmittedChecksum возвращает текст после последней '*' без символов CR/LF.
// Если '*' нет — возвращается вся строка (такая строка не пройдёт сравнение).
func TransmittedChecksum(line string) string {
	if i := strings.LastIndexByte(line, '*'); i >= 0 {
		line = line[i+1:]
	}
	return crlf.Replace(line)
}

// VerifyChecksum сравнивает вычисленную и переданную контрольные суммы как строки.
func VerifyChecksum(line string) error {
	computed := Checksum(line)
	transmitted := TransmittedChecksum(line)
	if computed != transmitted {
		return &ChecksumMismatchError{Computed: computed, Transmitted: transmitted}
	}
	return nil
}
