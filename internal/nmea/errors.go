package nmea

import (
	"errors"
	"fmt"
)

// ErrIgnored — строка не является GLL и не считается аномалией (пустая строка, другое $-предложение).
var ErrIgnored = errors.New("nmea: sentence ignored")

// ChecksumMismatchError — переданная контрольная сумма не совпала с вычисленной.
type ChecksumMismatchError struct {
	Computed    string
	Transmitted string
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("nmea: checksum `%s` did not match `%s`", e.Computed, e.Transmitted)
}

// AnomalyError — непустая строка, не начинающаяся с '$' (обрывок или мусор на линии).
type AnomalyError struct {
	Line   string
	Fields int
}

func (e *AnomalyError) Error() string {
	return fmt.Sprintf("nmea: weird message %q of len %d", e.Line, e.Fields)
}

// MalformedError — GLL с верной контрольной суммой, но с неразбираемыми полями
// (нет фикса, пустые координаты, слишком мало полей).
type MalformedError struct {
	Field  string
	Reason string
	Err    error
}

func (e *MalformedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("nmea: malformed %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("nmea: malformed %s: %s", e.Field, e.Reason)
}

func (e *MalformedError) Unwrap() error { return e.Err }
