package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gwillem/thermalpaint/pkg/calibrate"
	"github.com/gwillem/thermalpaint/pkg/paint"
)

type InfoCommand struct {
	Samples int `long:"samples" default:"10" description:"Number of sensor readings to show"`
}

func (c *InfoCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("ThermalPaint Rig Info"))
	fmt.Println()

	cfg := loadConfig()
	params := loadParameters(cfg.ParametersFile)
	fmt.Println()

	fmt.Println(subHeaderStyle.Render("Configuration"))
	fmt.Printf("  Brush:   %s @ %d baud\n", orNone(cfg.Sensor.Port), cfg.Sensor.BaudRate)
	fmt.Printf("  Blinds:  %s @ %d baud, servo %d\n", orNone(cfg.Blinds.Port), cfg.Blinds.BaudRate, cfg.Blinds.Calibration.ID)
	fmt.Printf("  Camera:  device %d\n", cfg.Camera.Device)
	fmt.Printf("  Buffers: right %d, left %d\n", cfg.Thresholds.Right, cfg.Thresholds.Left)
	fmt.Printf("  Loop:    %d Hz\n", cfg.Hz)
	fmt.Println()

	fmt.Println(subHeaderStyle.Render("Parameters"))
	fmt.Println(renderParameters(params, calibrate.Done))
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fmt.Println(subHeaderStyle.Render("Blinds"))
	blinds := openBlinds(ctx, cfg)
	defer blinds.Close()
	if blinds.Connected() {
		angle, err := blinds.Angle(ctx)
		if err != nil {
			warn("read angle: %v", err)
		} else {
			fmt.Printf("  Fin angle: %.1f°\n", angle)
		}
	}
	fmt.Println()

	fmt.Println(subHeaderStyle.Render("Camera"))
	cam, err := openCamera(cfg)
	if err != nil {
		warn("%v", err)
	} else {
		defer cam.Close()
		if cam.Read() {
			for _, side := range []paint.Side{paint.Right, paint.Left} {
				pt := paint.ClampPoint(params.Origin(side), cam.Width(), cam.Height())
				color := cam.At(pt.X, pt.Y)
				fmt.Printf("  %-5s origin (%d, %d): %s %s -> %.1f°\n",
					side, pt.X, pt.Y, swatch(color.Hex(), 2), color.Hex(), color.Angle())
			}
		} else {
			warn("could not read a frame")
		}
	}
	fmt.Println()

	fmt.Println(subHeaderStyle.Render("Brush"))
	sensor := openSensor(cfg)
	defer sensor.Close()
	if !sensor.Connected() {
		return nil
	}
	for i := 0; i < c.Samples; i++ {
		sample, ok := sensor.Read()
		if !ok {
			fmt.Println(dimStyle.Render("  (no data)"))
			continue
		}
		state := paint.Classify(sample, params, cfg.Thresholds)
		fmt.Printf("  R=%4d (%+4d)  L=%4d (%+4d)  %s\n",
			sample.Right, sample.Right-params.RightBaseline,
			sample.Left, sample.Left-params.LeftBaseline,
			state)
	}

	return nil
}
