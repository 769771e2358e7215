package nmea

import (
	"strconv"
	"strings"
)

// Position — координаты из одного GLL предложения, знаковые градусы.
type Position struct {
	Latitude  float64
	Longitude float64
}

// Поля GLL: $xxGLL,ddmm.mmmm,N|S,dddmm.mmmm,E|W,hhmmss.ss,A|V,mode*cs
const (
	gllLat    = 1
	gllLatHem = 2
	gllLon    = 3
	gllLonHem = 4
	gllFields = 5 // минимум для координат
)

const (
	latDegDigits = 2
	lonDegDigits = 3
)

// IsGLL возвращает true, если первое поле строки — $<talker>GLL. Talker не проверяется.
func IsGLL(line string) bool {
	head, _, _ := strings.Cut(line, ",")
	return strings.HasPrefix(head, "$") && strings.HasSuffix(head, "GLL")
}

// Decode разбирает одну строку (с терминатором или без) в Position.
//
// Ошибки: *AnomalyError — строка без '$'; ErrIgnored — пустая строка или не-GLL предложение;
// *ChecksumMismatchError — неверная контрольная сумма; *MalformedError — поля не разбираются.
func Decode(line string) (Position, error) {
	fields := strings.Split(line, ",")
	if !IsGLL(line) {
		if line != "" && line != "\n" && line != "\r\n" && !strings.HasPrefix(line, "$") {
			return Position{}, &AnomalyError{Line: line, Fields: len(fields)}
		}
		return Position{}, ErrIgnored
	}
	if err := VerifyChecksum(line); err != nil {
		return Position{}, err
	}
	if len(fields) < gllFields {
		return Position{}, &MalformedError{Field: "sentence", Reason: "need " + strconv.Itoa(gllFields) + " fields, got " + strconv.Itoa(len(fields))}
	}
	lat, err := parseCoordinate("latitude", fields[gllLat], latDegDigits)
	if err != nil {
		return Position{}, err
	}
	lon, err := parseCoordinate("longitude", fields[gllLon], lonDegDigits)
	if err != nil {
		return Position{}, err
	}
	if fields[gllLatHem] == "S" {
		lat = -lat
	}
	if fields[gllLonHem] == "W" {
		lon = -lon
	}
	return Position{Latitude: lat, Longitude: lon}, nil
}

// parseCoordinate переводит d..dmm.mmmm в градусы: целые градусы из первых degDigits символов,
// остаток — минуты.
func parseCoordinate(name, token string, degDigits int) (float64, error) {
	if len(token) < degDigits {
		return 0, &MalformedError{Field: name, Reason: "token " + strconv.Quote(token) + " too short"}
	}
	deg, err := strconv.Atoi(token[:degDigits])
	if err != nil {
		return 0, &MalformedError{Field: name, Reason: "degrees", Err: err}
	}
	minutes, err := strconv.ParseFloat(token[degDigits:], 64)
	if err != nil {
		return 0, &MalformedError{Field: name, Reason: "minutes", Err: err}
	}
	return float64(deg) + minutes/60, nil
}
