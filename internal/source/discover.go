package source

import (
	"fmt"
	"log"

	bugserial "go.bug.st/serial"
)

// Discover tries to open a serial source on the explicit port first,
// then on every port the OS enumerates, in order. The first port that
// opens wins. An empty explicit port means "probe everything".
func Discover(explicit string, baudRate uint) (*Serial, error) {
	var candidates []string
	if explicit != "" {
		candidates = append(candidates, explicit)
	}

	ports, err := bugserial.GetPortsList()
	if err != nil {
		log.Printf("serial port enumeration failed: %v", err)
	}
	for _, name := range ports {
		if name != explicit {
			candidates = append(candidates, name)
		}
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("no serial ports found")
	}

	for _, name := range candidates {
		s, err := OpenSerial(name, baudRate)
		if err != nil {
			log.Printf("probe %s: %v", name, err)
			continue
		}
		return s, nil
	}
	return nil, fmt.Errorf("no serial port could be opened (tried %d)", len(candidates))
}
