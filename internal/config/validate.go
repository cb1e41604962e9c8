package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWebcam(); err != nil {
		return err
	}
	if err := c.validateMonitor(); err != nil {
		return err
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateWebcam() error {
	if c.Webcam.Source == "" {
		return errors.New("webcam.source must be set")
	}
	if c.Webcam.BaseURL == "" {
		return errors.New("webcam.base_url must be set")
	}
	if err := ensurePositiveMap(map[string]int{
		"webcam.fetch_count":            c.Webcam.FetchCount,
		"webcam.request_timeout":        c.Webcam.RequestTimeout,
		"notifications.request_timeout": c.Notifications.RequestTimeout,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMonitor() error {
	if c.Monitor.PollInterval <= 0 {
		return errors.New("monitor.poll_interval must be positive (seconds)")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.StateFile == "" {
		return errors.New("paths.state_file must be set")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
