// Command tp8236 is a remote display for the TP8236 multimeter: it opens
// the meter's serial port, acquires the frame stream in the background, and
// prints readings as they arrive.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/rolfnbl/tp8236/internal/config"
	"github.com/rolfnbl/tp8236/internal/dmm"
	"github.com/rolfnbl/tp8236/internal/serialport"
)

var (
	configPath = flag.String("config", "", "path to a TOML config file")
	portPath   = flag.String("port", "", "serial device path (skips the interactive prompt)")
	devName    = flag.String("name", "", "device display name attached to readings")
	listOnly   = flag.Bool("list", false, "list serial ports and exit")
	samples    = flag.Int("samples", 0, "number of readings to collect before exiting")
	verbose    = flag.Bool("verbose", false, "enable debug logging")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
	if *verbose {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *portPath != "" {
		cfg.Port = *portPath
	}
	if *devName != "" {
		cfg.Name = *devName
	}
	if *samples > 0 {
		cfg.Samples = *samples
	}

	if *listOnly {
		return printPorts(os.Stdout)
	}

	if cfg.Port == "" {
		selected, err := selectPort(os.Stdin, os.Stdout)
		if err != nil {
			return err
		}
		cfg.Port = selected
	}

	poll, err := cfg.PollDuration()
	if err != nil {
		return err
	}
	sampleEvery, err := cfg.SampleDuration()
	if err != nil {
		return err
	}

	session := dmm.NewSession(
		dmm.WithName(cfg.Name),
		dmm.WithDepth(cfg.HistoryDepth),
		dmm.WithPollInterval(poll),
		dmm.WithLogf(func(format string, v ...any) {
			logger.Debug().Msgf(format, v...)
		}),
	)

	if err := session.OpenPath(cfg.Port, serialport.PortOptions{BaudRate: cfg.BaudRate}); err != nil {
		return err
	}
	defer session.Close()
	logger.Info().Str("port", cfg.Port).Str("name", cfg.Name).Msg("session open")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	for i := 0; i < cfg.Samples; i++ {
		select {
		case <-interrupt:
			logger.Info().Msg("interrupted")
			return nil
		case <-time.After(sampleEvery):
		}

		m, err := session.Read()
		if err != nil {
			// A corrupt frame is dropped; the stream recovers on
			// its own.
			logger.Warn().Err(err).Msg("discarded unreadable frame")
			continue
		}
		if m == nil {
			continue
		}
		fmt.Println(formatMeasurement(m))
	}
	return nil
}

// printPorts writes the enumerated serial ports to w.
func printPorts(w *os.File) error {
	ports, err := serialport.List()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Fprintln(w, "no serial ports found")
		return nil
	}
	for i, p := range ports {
		desc := p.Name
		if p.IsUSB && p.Product != "" {
			desc = fmt.Sprintf("%s (%s)", p.Name, p.Product)
		}
		fmt.Fprintf(w, "  %d: %s\n", i, desc)
	}
	return nil
}

// selectPort lists the available serial ports on w and reads a numeric
// selection from r.
func selectPort(r *os.File, w *os.File) (string, error) {
	ports, err := serialport.List()
	if err != nil {
		return "", err
	}
	if len(ports) == 0 {
		return "", fmt.Errorf("no serial ports found")
	}

	fmt.Fprintln(w, "Available serial ports:")
	for i, p := range ports {
		desc := p.Name
		if p.IsUSB && p.Product != "" {
			desc = fmt.Sprintf("%s (%s)", p.Name, p.Product)
		}
		fmt.Fprintf(w, "  %d: %s\n", i, desc)
	}
	fmt.Fprint(w, "Please select one of these ports: ")

	scan := bufio.NewScanner(r)
	if !scan.Scan() {
		return "", fmt.Errorf("no selection made")
	}
	idx, err := strconv.Atoi(strings.TrimSpace(scan.Text()))
	if err != nil || idx < 0 || idx >= len(ports) {
		return "", fmt.Errorf("invalid selection %q", scan.Text())
	}
	return ports[idx].Name, nil
}
