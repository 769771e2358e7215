// Package logger — единый вывод логов gnss-link с префиксом и учётом quiet/verbose.
package logger

import "log"

const prefix = "gnss-link: "

// Quiet при true отключает информационные сообщения (Info, Debug); Warn и Error выводятся всегда.
var Quiet bool

// Verbose включает Debug (сырые строки, отправленные кадры).
var Verbose bool

// Info выводит сообщение с префиксом, если Quiet == false.
func Info(format string, args ...interface{}) {
	if Quiet {
		return
	}
	log.Printf(prefix+format, args...)
}

// Debug выводит сообщение только при Verbose и без Quiet.
func Debug(format string, args ...interface{}) {
	if Quiet || !Verbose {
		return
	}
	log.Printf(prefix+"debug: "+format, args...)
}

// Warn — некритичные события протокола (неверная сумма, мусор на линии).
func Warn(format string, args ...interface{}) {
	log.Printf(prefix+"warning: "+format, args...)
}

// Error выводит сообщение об ошибке с префиксом всегда.
func Error(format string, args ...interface{}) {
	log.Printf(prefix+"error: "+format, args...)
}
