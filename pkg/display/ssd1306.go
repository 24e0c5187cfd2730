package display

import (
	"fmt"
	"image"
	"time"

	"k8s.io/klog/v2"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"
)

// resetPulse is how long the reset line is held low
const resetPulse = 10 * time.Millisecond

// SSD1306 drives an SSD1306 OLED over I2C
type SSD1306 struct {
	bus    i2c.BusCloser
	dev    *ssd1306.Dev
	width  int
	height int
}

// OpenSSD1306 initializes the host drivers, pulses the reset pin if one is
// given and opens the display on the named I2C bus ("" for the first bus).
func OpenSSD1306(busName, resetPin string, width, height int) (*SSD1306, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize host drivers: %w", err)
	}

	if resetPin != "" {
		if err := pulseReset(resetPin); err != nil {
			return nil, err
		}
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %q: %w", busName, err)
	}

	dev, err := ssd1306.NewI2C(bus, &ssd1306.Opts{W: width, H: height})
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("failed to initialize SSD1306: %w", err)
	}

	klog.Infof("Opened SSD1306 %dx%d on I2C bus %q", width, height, busName)
	return &SSD1306{bus: bus, dev: dev, width: width, height: height}, nil
}

func pulseReset(name string) error {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return fmt.Errorf("reset pin %s not found", name)
	}
	if err := pin.Out(gpio.Low); err != nil {
		return fmt.Errorf("failed to pull reset pin %s low: %w", name, err)
	}
	time.Sleep(resetPulse)
	if err := pin.Out(gpio.High); err != nil {
		return fmt.Errorf("failed to release reset pin %s: %w", name, err)
	}
	return nil
}

// Clear blanks the display
func (s *SSD1306) Clear() error {
	return s.Show(NewCanvas(s.width, s.height))
}

// Show pushes img to the display
func (s *SSD1306) Show(img image.Image) error {
	if err := s.dev.Draw(s.dev.Bounds(), img, image.Point{}); err != nil {
		return fmt.Errorf("failed to draw to SSD1306: %w", err)
	}
	return nil
}

// Close turns the display off and releases the bus
func (s *SSD1306) Close() error {
	haltErr := s.dev.Halt()
	if err := s.bus.Close(); err != nil {
		return fmt.Errorf("failed to close I2C bus: %w", err)
	}
	if haltErr != nil {
		return fmt.Errorf("failed to halt SSD1306: %w", haltErr)
	}
	return nil
}
