package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/gwillem/thermalpaint/pkg/camera"
	"github.com/gwillem/thermalpaint/pkg/control"
	"github.com/gwillem/thermalpaint/pkg/paint"
)

type RunCommand struct {
	Hz      int  `long:"hz" description:"Control loop frequency (overrides the config)"`
	Preview bool `long:"preview" description:"Show the camera image with the color-picking position"`
}

const (
	headerHeight = 2 // title + blank line
	statusHeight = 2 // status row + blank
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
	angleDataSet = "angle"
)

// State colors for the status line
var stateColors = map[paint.State]string{
	paint.Idle:          "241", // gray
	paint.PaintingRight: "208", // orange
	paint.PaintingLeft:  "51",  // cyan
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// previewMarker shows every cycle in the camera preview window.
type previewMarker struct {
	cam     *camera.Camera
	preview *camera.Preview
}

func (p previewMarker) Mark(c control.Cycle) bool {
	var m *camera.Marker
	if c.State != paint.Idle {
		m = &camera.Marker{Point: c.Point, Color: c.Color, Label: camera.AngleLabel(c.Angle)}
	}
	return p.preview.Show(p.cam, m)
}

func (p previewMarker) Close() error {
	return p.preview.Close()
}

type runModel struct {
	ctrl      *control.Controller
	chart     *streamlinechart.Model
	width     int      // terminal width
	height    int      // terminal height
	logs      []string // last N log messages
	quitting  bool
	last      control.Cycle
	hasCycle  bool
	lastAngle float64
}

func (m *runModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Messages from the controller
type cycleMsg control.Cycle
type logMsg string
type stoppedMsg struct{}

func waitForCycle(ctrl *control.Controller) tea.Cmd {
	return func() tea.Msg {
		return cycleMsg(<-ctrl.Cycles())
	}
}

func waitForLog(ctrl *control.Controller) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ctrl.Logs())
	}
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *runModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - statusHeight - footerHeight - borderSize
	if height < 10 {
		height = 10
	}
	return width, height
}

func (m *runModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func initialRunModel(ctrl *control.Controller) runModel {
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(0, paint.OpenAngle),
	)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	chart.SetDataSetStyles(angleDataSet, runes.ThinLineStyle, style)

	return runModel{
		ctrl:      ctrl,
		chart:     &chart,
		lastAngle: -1,
	}
}

func (m runModel) Init() tea.Cmd {
	return tea.Batch(
		waitForCycle(m.ctrl),
		waitForLog(m.ctrl),
	)
}

func (m runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case stoppedMsg:
		m.quitting = true
		return m, tea.Quit

	case cycleMsg:
		cycle := control.Cycle(msg)
		// Freeze the chart while the angle holds still
		if cycle.Angle != m.lastAngle {
			m.chart.PushDataSet(angleDataSet, cycle.Angle)
			m.chart.DrawAll()
			m.lastAngle = cycle.Angle
		}
		m.last = cycle
		m.hasCycle = true
		return m, waitForCycle(m.ctrl)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.ctrl)
	}

	return m, nil
}

func (m runModel) View() string {
	if m.quitting {
		return "Painting stopped.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render("ThermalPaint"))
	sb.WriteString(fmt.Sprintf(" - %d Hz", m.ctrl.Hz()))
	if m.width > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%dx%d]", m.width, m.height)))
	}
	sb.WriteString("\n\n")

	// Chart
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	// Status
	sb.WriteString(m.renderStatus())
	sb.WriteString("\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.width - 4).
		Foreground(lipgloss.Color("9")) // bright red

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("Press 'q' to quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func (m runModel) renderStatus() string {
	if !m.hasCycle {
		return statusStyle.Render("Waiting for brush and camera...")
	}
	c := m.last
	stateStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(stateColors[c.State])).Bold(true)

	items := []string{
		stateStyle.Render(strings.ToUpper(c.State.String())),
		fmt.Sprintf("R=%d L=%d", c.Sample.Right, c.Sample.Left),
		fmt.Sprintf("angle %.1f°", c.Angle),
	}
	if c.State != paint.Idle {
		items = append(items,
			fmt.Sprintf("at (%d, %d)", c.Point.X, c.Point.Y),
			swatch(c.Color.Hex(), 4)+" "+statusStyle.Render(c.Color.Hex()),
		)
	}
	return strings.Join(items, "  ")
}

func (c *RunCommand) Execute(args []string) error {
	cfg := loadConfig()
	if c.Hz > 0 {
		cfg.Hz = c.Hz
	}
	params := loadParameters(cfg.ParametersFile)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cam, err := openCamera(cfg)
	if err != nil {
		return err
	}
	sensor := openSensor(cfg)
	blinds := openBlinds(ctx, cfg)

	var marker control.Marker
	if c.Preview || cfg.Camera.Preview {
		marker = previewMarker{cam: cam, preview: camera.NewPreview("ThermalPaint Runtime")}
	}

	ctrl, err := control.NewController(control.Config{
		Parameters: params,
		Thresholds: cfg.Thresholds,
		Sensor:     sensor,
		Frames:     cam,
		Blinds:     blinds,
		Marker:     marker,
		Hz:         cfg.Hz,
	})
	if err != nil {
		cam.Close()
		sensor.Close()
		blinds.Close()
		return fmt.Errorf("create controller: %w", err)
	}
	defer ctrl.Close()

	p := tea.NewProgram(initialRunModel(ctrl), tea.WithAltScreen(), tea.WithContext(ctx))

	// Start controller in background
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := ctrl.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Controller error: %v", err)
		}
		p.Send(stoppedMsg{})
	}()

	_, err = p.Run()
	cancel()
	<-done
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run program: %w", err)
	}

	fmt.Println("Goodbye.")
	return nil
}
