package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gwillem/thermalpaint/pkg/brush"
	"github.com/gwillem/thermalpaint/pkg/calibrate"
	"github.com/gwillem/thermalpaint/pkg/camera"
	"github.com/gwillem/thermalpaint/pkg/paint"
)

type CalibrateCommand struct {
	Defaults  bool `long:"defaults" description:"Start from the default parameters instead of the saved ones"`
	Countdown int  `long:"countdown" default:"5" description:"Seconds to wait before sampling the baseline"`
}

const calibrationTick = 33 * time.Millisecond

func (c *CalibrateCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("ThermalPaint Calibration"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println()

	cfg := loadConfig()

	params := paint.DefaultParameters()
	if !c.Defaults {
		params = loadParameters(cfg.ParametersFile)
	}

	sensor := openSensor(cfg)
	defer sensor.Close()

	cam, err := openCamera(cfg)
	if err != nil {
		return err
	}
	defer cam.Close()

	var preview *camera.Preview
	if cfg.Camera.Preview {
		preview = camera.NewPreview("Calibration")
		defer preview.Close()
	}

	proc := calibrate.New(params, cam.Width(), cam.Height())

	// Step 1: baseline
	fmt.Println()
	fmt.Println(subHeaderStyle.Render("━━━ Sensor baseline ━━━"))
	if !sensor.Connected() {
		warn("no sensor, keeping baselines %d / %d", params.RightBaseline, params.LeftBaseline)
		proc.SetBaseline(paint.Sample{Right: params.RightBaseline, Left: params.LeftBaseline})
	} else {
		if !waitForUser(calibrate.Baseline.Instructions()) {
			fmt.Println("Calibration aborted, nothing saved.")
			return nil
		}
		baseline := estimateBaseline(sensor, cfg.BaselineSamples, c.Countdown)
		proc.SetBaseline(baseline)
		fmt.Printf("Baseline set: R=%d, L=%d\n", baseline.Right, baseline.Left)
	}

	// Step 2: positions and coefficients
	fmt.Println()
	m := newCalibrationModel(proc, sensor, cam, preview)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("run calibration: %w", err)
	}
	if !proc.Done() {
		fmt.Println("Calibration aborted, nothing saved.")
		return nil
	}

	// Step 3: save
	if err := proc.Parameters().Save(cfg.ParametersFile); err != nil {
		return fmt.Errorf("save parameters: %w", err)
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println(successStyle.Render("Calibration complete!"))
	fmt.Printf("Parameters saved to %s\n", cfg.ParametersFile)
	fmt.Println()
	fmt.Println("Start painting with: " + headerStyle.Render("thermalpaint run"))

	return nil
}

// waitForUser reports false when the prompt was aborted.
func waitForUser(prompt string) bool {
	fmt.Println(prompt)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("").
				Affirmative("Continue").
				Negative("").
				Value(new(bool)),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		return false
	}
	return true
}

func estimateBaseline(sensor *brush.Sensor, samples, countdown int) paint.Sample {
	for i := countdown; i > 0; i-- {
		fmt.Printf("Hold brush still... %d\r", i)
		time.Sleep(time.Second)
	}
	fmt.Print("Sampling baseline")

	dot := max(samples/4, 1)
	baseline := paint.EstimateBaselineWithProgress(sensor.Read, samples, func(done int) {
		if done%dot == 0 {
			fmt.Print(".")
		}
	})
	fmt.Println(" done")
	return baseline
}

// Calibration TUI model
type calibrationModel struct {
	proc     *calibrate.Procedure
	sensor   *brush.Sensor
	cam      *camera.Camera
	preview  *camera.Preview
	sample   paint.Sample
	hasData  bool
	color    paint.Color
	quitting bool
}

type tickMsg time.Time

func newCalibrationModel(proc *calibrate.Procedure, sensor *brush.Sensor, cam *camera.Camera, preview *camera.Preview) calibrationModel {
	return calibrationModel{
		proc:    proc,
		sensor:  sensor,
		cam:     cam,
		preview: preview,
	}
}

func tick() tea.Cmd {
	return tea.Tick(calibrationTick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m calibrationModel) Init() tea.Cmd {
	return tick()
}

var arrowKeys = map[string]calibrate.Direction{
	"up":    calibrate.Up,
	"down":  calibrate.Down,
	"left":  calibrate.Left,
	"right": calibrate.Right,
}

func (m calibrationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			m.proc.Confirm()
			if m.proc.Done() {
				m.quitting = true
				return m, tea.Quit
			}
		default:
			if d, ok := arrowKeys[key]; ok {
				m.proc.Adjust(d)
			}
		}

	case tickMsg:
		if m.proc.Stage().UsesSensor() {
			if s, ok := m.sensor.Read(); ok {
				m.proc.Observe(s)
				m.sample = s
				m.hasData = true
			}
		}
		if m.cam.Read() {
			m.proc.Resize(m.cam.Width(), m.cam.Height())
			pt := m.proc.Cursor()
			m.color = m.cam.At(pt.X, pt.Y)
			if m.preview != nil && m.preview.Show(m.cam, &camera.Marker{Point: pt, Color: m.color}) {
				m.quitting = true
				return m, tea.Quit
			}
		}
		return m, tick()
	}

	return m, nil
}

func (m calibrationModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	stage := m.proc.Stage()

	sb.WriteString(subHeaderStyle.Render("━━━ " + stage.String() + " ━━━"))
	sb.WriteString("\n")
	sb.WriteString(stage.Instructions())
	sb.WriteString("\n\n")

	pt := m.proc.Cursor()
	sb.WriteString(fmt.Sprintf("Cursor (%d, %d)  ", pt.X, pt.Y))
	sb.WriteString(swatch(m.color.Hex(), 6))
	sb.WriteString(dimStyle.Render(fmt.Sprintf(" %s  %.1f°", m.color.Hex(), m.color.Angle())))
	sb.WriteString("\n")
	if stage.UsesSensor() {
		if m.hasData {
			sb.WriteString(fmt.Sprintf("Sensor R=%d L=%d\n", m.sample.Right, m.sample.Left))
		} else {
			sb.WriteString(warningStyle.Render("Waiting for sensor data...") + "\n")
		}
	}
	sb.WriteString("\n")

	sb.WriteString(renderParameters(m.proc.Parameters(), stage))
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("Arrows to adjust, Enter to confirm, q to abort"))

	return sb.String()
}

func renderParameters(p paint.Parameters, stage calibrate.Stage) string {
	tableHeaderStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	tableSideStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	tableCellStyle := lipgloss.NewStyle().Padding(0, 1)
	tableActiveStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true).Padding(0, 1)

	rows := [][]string{
		{"right", fmt.Sprintf("%d", p.RightBaseline), fmt.Sprintf("(%d, %d)", p.RightOriginX, p.RightOriginY),
			fmt.Sprintf("%.2f", p.RightXCoeff), fmt.Sprintf("%.2f", p.RightYCoeff)},
		{"left", fmt.Sprintf("%d", p.LeftBaseline), fmt.Sprintf("(%d, %d)", p.LeftOriginX, p.LeftOriginY),
			fmt.Sprintf("%.2f", p.LeftXCoeff), fmt.Sprintf("%.2f", p.LeftYCoeff)},
	}

	// active returns whether a cell is edited in the current stage
	active := func(row, col int) bool {
		switch stage {
		case calibrate.RightPosition:
			return row == 0 && col == 2
		case calibrate.LeftPosition:
			return row == 1 && col == 2
		case calibrate.RightCoefficient:
			return row == 0 && col >= 3
		case calibrate.LeftCoefficient:
			return row == 1 && col >= 3
		}
		return false
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Side", "Baseline", "Origin", "X coeff", "Y coeff").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case active(row, col):
				return tableActiveStyle
			case col == 0:
				return tableSideStyle
			default:
				return tableCellStyle
			}
		})

	return t.Render()
}
