package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/hipsterbrown/feetech-servo/feetech"
	"go.bug.st/serial"

	"github.com/gwillem/thermalpaint/pkg/blinds"
	"github.com/gwillem/thermalpaint/pkg/config"
)

type SetupCommand struct {
	ServoID int `long:"servo-id" default:"1" description:"Servo ID of the blinds"`
}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("ThermalPaint Setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━"))
	fmt.Println()

	cfg, err := config.LoadConfigFrom(opts.Config)
	if err != nil {
		cfg = config.Default()
	}

	ports, err := serial.GetPortsList()
	if err != nil {
		return fmt.Errorf("list ports: %w", err)
	}
	ports = filterPorts(ports)
	if len(ports) == 0 {
		fmt.Println("No serial ports found.")
		fmt.Println("Make sure the brush and the blinds are connected.")
		os.Exit(1)
	}

	// Step 1: find the blinds servo
	fmt.Println(subHeaderStyle.Render("━━━ Blinds ━━━"))
	fmt.Println("Scanning for the blinds servo...")
	blindsPort := ""
	for _, port := range ports {
		servo, bus, ok := findServo(port, c.ServoID)
		if !ok {
			continue
		}
		fmt.Printf("  Found servo %d on %s\n", c.ServoID, port)
		if identifyBlindsWithWiggle(port, bus, servo) {
			blindsPort = port
			break
		}
	}
	if blindsPort == "" {
		warn("blinds not identified, painting will run without them")
	} else {
		cfg.Blinds.Port = blindsPort
		cfg.Blinds.Calibration.ID = c.ServoID
	}

	// Step 2: pick the brush port among the rest
	fmt.Println()
	fmt.Println(subHeaderStyle.Render("━━━ Brush ━━━"))
	var options []huh.Option[string]
	for _, port := range ports {
		if port != blindsPort {
			options = append(options, huh.NewOption(port, port))
		}
	}
	if len(options) == 0 {
		warn("no port left for the brush")
	} else {
		sensorPort := cfg.Sensor.Port
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Which port is the brush on?").
					Description("The Arduino reading the bend sensors").
					Options(options...).
					Value(&sensorPort),
			),
		)
		if err := form.Run(); err != nil {
			fmt.Println()
			os.Exit(0)
		}
		cfg.Sensor.Port = sensorPort
	}

	if err := cfg.SaveTo(opts.Config); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("  Brush:  %s\n", orNone(cfg.Sensor.Port))
	fmt.Printf("  Blinds: %s\n", orNone(cfg.Blinds.Port))
	fmt.Printf("Configuration saved to %s\n", opts.Config)
	fmt.Println()
	fmt.Println("Calibrate the brush with: " + headerStyle.Render("thermalpaint calibrate"))

	return nil
}

func filterPorts(ports []string) []string {
	var out []string
	for _, port := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(port, "Bluetooth") {
			continue
		}
		out = append(out, port)
	}
	return out
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// findServo opens port as a servo bus and looks for the given servo ID.
// The bus is left open when the servo is found.
func findServo(port string, id int) (*feetech.Servo, *feetech.Bus, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: blinds.DefaultBaudRate,
		Protocol: feetech.ProtocolSTS,
		Timeout:  100 * time.Millisecond,
	})
	if err != nil {
		return nil, nil, false
	}

	servos, err := bus.Scan(ctx, id, id)
	if err != nil {
		bus.Close()
		return nil, nil, false
	}
	for _, s := range servos {
		if s.ID == id {
			return feetech.NewServo(bus, s.ID, s.Model), bus, true
		}
	}
	bus.Close()
	return nil, nil, false
}

func identifyBlindsWithWiggle(port string, bus *feetech.Bus, servo *feetech.Servo) bool {
	defer bus.Close()

	ctx := context.Background()

	originalPos, err := servo.Position(ctx)
	if err != nil {
		fmt.Printf("  Error reading position: %v\n", err)
		return false
	}
	if err := servo.Enable(ctx); err != nil {
		fmt.Printf("  Error enabling servo: %v\n", err)
		return false
	}

	fmt.Printf("\n  Wiggling fins on %s...\n", port)

	// Wiggle: single gentle, slow movement
	wiggleAmount := 60
	moveTimeMs := 500
	servo.SetPositionWithTime(ctx, originalPos+wiggleAmount, moveTimeMs)
	time.Sleep(time.Duration(moveTimeMs+100) * time.Millisecond)
	servo.SetPositionWithTime(ctx, originalPos-wiggleAmount, moveTimeMs)
	time.Sleep(time.Duration(moveTimeMs+100) * time.Millisecond)
	servo.SetPositionWithTime(ctx, originalPos, moveTimeMs)
	time.Sleep(time.Duration(moveTimeMs+100) * time.Millisecond)

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Did the blinds on %s just move?", port)).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		return false
	}
	return confirmed
}
