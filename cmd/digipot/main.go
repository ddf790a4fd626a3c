// go-mcp41hvx1
// Copyright (c) 2026 The go-mcp41hvx1 Authors.
// SPDX-License-Identifier: MIT

// Command digipot exercises an MCP41HVX1 from the command line, over
// either a Linux spidev port with a GPIO chip select or a USB serial
// MCU bridge.
//
// Examples:
//
//	digipot -spi /dev/spidev0.0 -cs GPIO22 get
//	digipot -spi /dev/spidev0.0 -cs GPIO22 set 9804
//	digipot -bridge /dev/ttyACM0 incr
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	mcp41hvx1 "github.com/digipot-io/go-mcp41hvx1"
	"github.com/digipot-io/go-mcp41hvx1/transport/serialbridge"
	"github.com/digipot-io/go-mcp41hvx1/transport/spidev"
)

// Package-level flag variables
var (
	flagSPIPort    string
	flagCSPin      string
	flagBridgePort string
	flagStep       float64
	flagMax        float64
	flagDebug      bool
)

func init() {
	flag.StringVar(&flagSPIPort, "spi", "", "spidev port (e.g. /dev/spidev0.0)")
	flag.StringVar(&flagCSPin, "cs", "", "chip select GPIO pin name (with -spi)")
	flag.StringVar(&flagBridgePort, "bridge", "", "serial bridge port (e.g. /dev/ttyACM0)")
	flag.Float64Var(&flagStep, "step", 196.08, "per-code resistance step in ohms")
	flag.Float64Var(&flagMax, "max", 50000, "maximum accepted resistance in ohms")
	flag.BoolVar(&flagDebug, "debug", false, "enable wire-level debug output")
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] get|set <ohms>|code <0-255>|incr|decr|startup|shutdown|tcon\n", os.Args[0])
	flag.PrintDefaults()
}

// openDevice builds a Device from the transport flags.
func openDevice() (*mcp41hvx1.Device, *mcp41hvx1.Bus, error) {
	var (
		per  mcp41hvx1.Peripheral
		cs   mcp41hvx1.SelectLine
		port string
		err  error
	)

	switch {
	case flagBridgePort != "":
		per, cs, err = serialbridge.Open(flagBridgePort)
		port = flagBridgePort
	case flagSPIPort != "" && flagCSPin != "":
		per, cs, err = spidev.Open(flagSPIPort, flagCSPin)
		port = flagSPIPort
	default:
		return nil, nil, errors.New("need either -bridge or both -spi and -cs")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open transport: %w", err)
	}

	bus := mcp41hvx1.NewBus(per, mcp41hvx1.WithPortName(port))

	cal := mcp41hvx1.DefaultCalibration()
	cal.StepResistance = flagStep
	cal.MaxResistance = flagMax

	dev, err := mcp41hvx1.New(bus, cs, mcp41hvx1.WithCalibration(cal))
	if err != nil {
		_ = bus.Close()
		return nil, nil, fmt.Errorf("failed to create device: %w", err)
	}
	return dev, bus, nil
}

func run(ctx context.Context, dev *mcp41hvx1.Device, op string, arg string) error {
	switch op {
	case "get":
		ohms, err := dev.GetResistanceContext(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%.1f ohms\n", ohms)
		return nil
	case "set":
		ohms, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("invalid resistance %q: %w", arg, err)
		}
		return dev.SetResistanceContext(ctx, ohms)
	case "code":
		code, err := strconv.ParseUint(arg, 0, 8)
		if err != nil {
			return fmt.Errorf("invalid wiper code %q: %w", arg, err)
		}
		return dev.SetWiperCode(uint8(code))
	case "incr":
		return dev.MoveWiperContext(ctx, mcp41hvx1.WiperIncrement)
	case "decr":
		return dev.MoveWiperContext(ctx, mcp41hvx1.WiperDecrement)
	case "startup":
		return dev.StartupContext(ctx)
	case "shutdown":
		return dev.ShutdownContext(ctx)
	case "tcon":
		tcon, err := dev.TCON()
		if err != nil {
			return err
		}
		fmt.Printf("tcon 0x%02X\n", tcon)
		return nil
	default:
		return fmt.Errorf("unknown operation %q", op)
	}
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if flagDebug {
		mcp41hvx1.SetDebugEnabled(true)
	}

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}
	op := args[0]
	arg := ""
	if len(args) > 1 {
		arg = args[1]
	}
	if (op == "set" || op == "code") && arg == "" {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dev, bus, err := openDevice()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := bus.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "close: %v\n", cerr)
		}
	}()

	if err := run(ctx, dev, op, arg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
