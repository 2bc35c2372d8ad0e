// Package config holds the device configuration of a ThermalPaint rig.
package config

import (
	"encoding/json"
	"os"

	"github.com/gwillem/thermalpaint/pkg/blinds"
	"github.com/gwillem/thermalpaint/pkg/brush"
	"github.com/gwillem/thermalpaint/pkg/control"
	"github.com/gwillem/thermalpaint/pkg/paint"
)

const DefaultConfigFile = "thermalpaint.json"

// DefaultBaselineSamples is how many reads the baseline estimate takes.
const DefaultBaselineSamples = 300

// Config holds the rig configuration
type Config struct {
	Sensor          SensorConfig     `json:"sensor"`
	Blinds          BlindsConfig     `json:"blinds"`
	Camera          CameraConfig     `json:"camera"`
	Thresholds      paint.Thresholds `json:"thresholds"`
	ParametersFile  string           `json:"parameters_file"`
	BaselineSamples int              `json:"baseline_samples"`
	Hz              int              `json:"hz"`
}

// SensorConfig is the serial port of the brush
type SensorConfig struct {
	Port     string `json:"port"`
	BaudRate int    `json:"baud_rate,omitempty"`
}

// BlindsConfig is the servo bus of the blinds
type BlindsConfig struct {
	Port        string             `json:"port"`
	BaudRate    int                `json:"baud_rate,omitempty"`
	Calibration blinds.Calibration `json:"calibration"`
}

// CameraConfig selects the capture device
type CameraConfig struct {
	Device  int  `json:"device"`
	Preview bool `json:"preview"`
}

// Default returns a configuration without ports.
func Default() *Config {
	cfg := &Config{}
	cfg.WithDefaults()
	return cfg
}

// WithDefaults fills unset fields with defaults.
func (c *Config) WithDefaults() *Config {
	if c.Sensor.BaudRate <= 0 {
		c.Sensor.BaudRate = brush.DefaultBaudRate
	}
	if c.Blinds.BaudRate <= 0 {
		c.Blinds.BaudRate = blinds.DefaultBaudRate
	}
	if c.Blinds.Calibration == (blinds.Calibration{}) {
		c.Blinds.Calibration = blinds.DefaultCalibration()
	}
	if c.Thresholds == (paint.Thresholds{}) {
		c.Thresholds = paint.DefaultThresholds()
	}
	if c.ParametersFile == "" {
		c.ParametersFile = paint.DefaultParametersFile
	}
	if c.BaselineSamples <= 0 {
		c.BaselineSamples = DefaultBaselineSamples
	}
	if c.Hz <= 0 {
		c.Hz = control.DefaultHz
	}
	return c
}

// IsConfigured returns true if both serial ports are set
func (c *Config) IsConfigured() bool {
	return c.Sensor.Port != "" && c.Blinds.Port != ""
}

// LoadConfig loads configuration from the default config file
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigFile)
}

// LoadConfigFrom loads configuration from a specific file
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return cfg.WithDefaults(), nil
}

// Save saves configuration to the default config file
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ConfigExists returns true if the default config file exists
func ConfigExists() bool {
	_, err := os.Stat(DefaultConfigFile)
	return err == nil
}
