// gnss-link — связь с GNSS приёмником u-blox: чтение позиции из NMEA GLL
// и настройка приёмника кадрами UBX CFG-VALSET.
//
// Использование:
//
//	gnss-link                          — daemon: чтение фикса + периодическая настройка
//	gnss-link -configure               — включить NMEA high precision и выйти
//	gnss-link -poll                    — запросить значение NMEA high precision и выйти
//	gnss-link -config gnss-link.yml -transport i2c
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/shiwa/timecard-mini/gnss-link/internal/config"
	"github.com/shiwa/timecard-mini/gnss-link/internal/logger"
	"github.com/shiwa/timecard-mini/gnss-link/pkg/gnsslink"
)

func main() {
	configure := flag.Bool("configure", false, "отправить CFG-VALSET NMEA high precision и выйти")
	poll := flag.Bool("poll", false, "отправить запрос CFG-VALGET NMEA high precision и выйти")
	run := flag.Bool("run", false, "запуск daemon (по умолчанию, если не заданы -configure/-poll)")
	configPath := flag.String("config", "", "путь к YAML конфигу (по умолчанию gnss-link.yml)")
	port := flag.String("port", "", "последовательный порт (переопределяет config)")
	baud := flag.Int("baud", 0, "скорость порта (переопределяет config)")
	transportName := flag.String("transport", "", "serial или i2c (переопределяет config)")
	driver := flag.String("driver", "", "драйвер порта: tarm или bugst (переопределяет config)")
	quiet := flag.Bool("quiet", false, "меньше вывода")
	verbose := flag.Bool("verbose", false, "печатать сырые строки и отправленные кадры")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg == nil {
		cfg = config.Default()
	}

	if *port != "" {
		cfg.Device.Port = *port
	}
	if *baud != 0 {
		cfg.Device.Baud = *baud
	}
	if *transportName != "" {
		cfg.Device.Transport = *transportName
	}
	if *driver != "" {
		cfg.Device.Driver = *driver
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger.Quiet = *quiet
	logger.Verbose = *verbose

	if *configure || *poll {
		if err := gnsslink.ConfigureOnce(cfg, *configure, *poll); err != nil {
			log.Fatalf("configure: %v", err)
		}
		if !*quiet {
			fmt.Printf("gnss-link: кадры отправлены (high precision=%v, poll=%v)\n", *configure, *poll)
		}
		if !*run {
			return
		}
	}

	runDaemonWithShutdown(cfg, *quiet)
}

func loadConfig(path string) (*config.Config, error) {
	explicit := path != ""
	if !explicit {
		path = "gnss-link.yml"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) && !explicit {
		return nil, nil
	}
	return config.Load(path)
}

// runDaemonWithShutdown: по SIGINT/SIGTERM контекст отменяется, канал закрывается.
func runDaemonWithShutdown(cfg *config.Config, quiet bool) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("получен сигнал %v, завершение...", sig)
		cancel()
	}()

	if err := gnsslink.RunDaemon(ctx, cfg, quiet); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
