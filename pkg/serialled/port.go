package serialled

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

// DefaultBaud is the rate the LED firmware listens at.
const DefaultBaud = 115200

// SerialPort wraps a serial connection to the LED microcontroller.
type SerialPort struct {
	port serial.Port
	path string
	mu   sync.Mutex
}

// OpenSerial opens the serial port at the given baud rate, 8N1.
func OpenSerial(portPath string, baud int) (*SerialPort, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portPath, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portPath, err)
	}

	log.Info().Str("port", portPath).Int("baud", baud).Msg("Serial port opened")

	return &SerialPort{port: port, path: portPath}, nil
}

// ListPorts returns the serial ports present on this machine.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}

// Path returns the device path the port was opened on.
func (s *SerialPort) Path() string {
	return s.path
}

// Write sends raw bytes to the serial port.
func (s *SerialPort) Write(data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.Write(data)
}

// Read reads raw bytes from the serial port.
func (s *SerialPort) Read(buf []byte) (int, error) {
	return s.port.Read(buf)
}

// Close closes the serial port.
func (s *SerialPort) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.Close()
}
