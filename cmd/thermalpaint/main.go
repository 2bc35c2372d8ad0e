package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Config    string           `short:"c" long:"config" default:"thermalpaint.json" description:"Rig configuration file"`
	Setup     SetupCommand     `command:"setup" description:"Find the brush and blinds serial ports"`
	Calibrate CalibrateCommand `command:"calibrate" description:"Calibrate the brush sensors and color-picking positions"`
	Run       RunCommand       `command:"run" alias:"paint" description:"Detect strokes and drive the blinds"`
	Info      InfoCommand      `command:"info" description:"Show the rig configuration and live readings"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "ThermalPaint - paint with the brush, feel it on the ThermoBlinds"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
