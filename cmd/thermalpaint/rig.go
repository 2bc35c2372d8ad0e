package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gwillem/thermalpaint/pkg/blinds"
	"github.com/gwillem/thermalpaint/pkg/brush"
	"github.com/gwillem/thermalpaint/pkg/camera"
	"github.com/gwillem/thermalpaint/pkg/config"
	"github.com/gwillem/thermalpaint/pkg/paint"
)

func loadConfig() *config.Config {
	cfg, err := config.LoadConfigFrom(opts.Config)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			warn("%s: %v, using defaults", opts.Config, err)
		} else {
			warn("%s not found, run 'thermalpaint setup' first. Using defaults.", opts.Config)
		}
		return config.Default()
	}
	fmt.Printf("Loaded configuration from %s\n", opts.Config)
	return cfg
}

func loadParameters(path string) paint.Parameters {
	params, err := paint.LoadParameters(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			warn("%s not found. Using default parameters.", path)
		} else {
			warn("%v. Using default parameters.", err)
		}
		return params
	}
	fmt.Printf("Loaded parameters from %s\n", path)
	return params
}

// openSensor always returns a sensor; a failed open leaves it disconnected.
func openSensor(cfg *config.Config) *brush.Sensor {
	sensor, err := brush.Open(cfg.Sensor.Port, cfg.Sensor.BaudRate)
	if err != nil {
		warn("%v", err)
		return sensor
	}
	fmt.Printf("Sensor connected on %s\n", cfg.Sensor.Port)
	return sensor
}

// openBlinds always returns blinds; a failed open leaves them disconnected.
func openBlinds(ctx context.Context, cfg *config.Config) *blinds.Blinds {
	b, err := blinds.Open(ctx, cfg.Blinds.Port, cfg.Blinds.BaudRate, cfg.Blinds.Calibration)
	if err != nil {
		warn("%v", err)
		return b
	}
	fmt.Printf("Blinds connected on %s\n", cfg.Blinds.Port)
	return b
}

func openCamera(cfg *config.Config) (*camera.Camera, error) {
	cam, err := camera.Open(cfg.Camera.Device)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Camera %d opened (%dx%d)\n", cfg.Camera.Device, cam.Width(), cam.Height())
	return cam, nil
}
