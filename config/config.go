// Package config holds the options shared by the host commands.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/sparques/irkit/protocol"
)

// Config provides the options to reach the receiver board and the broker.
type Config struct {
	// Device is the serial device of the board, e.g. /dev/ttyACM0.
	Device string
	Baud   int

	// Protocols is a comma separated list of protocols to decode, empty for all.
	// The first one is also the default transmit protocol.
	Protocols string

	// BrokerURL specifies the MQTT broker and topic prefix,
	// e.g. mqtt://host:port/irkit/
	BrokerURL string
	// ClientID overrides the MQTT client id derived from the machine id.
	ClientID string
}

var defaultConfig = Config{
	Device:    "/dev/ttyACM0",
	Baud:      115200,
	BrokerURL: "mqtt://localhost:1883/irkit/",
}

func init() {
	if val := os.Getenv("IRKIT_DEVICE"); val != "" {
		defaultConfig.Device = val
	}
	if val := os.Getenv("IRKIT_BAUD"); val != "" {
		if baud, err := strconv.Atoi(val); err == nil {
			defaultConfig.Baud = baud
		}
	}
	if val := os.Getenv("IRKIT_PROTOCOL"); val != "" {
		defaultConfig.Protocols = val
	}
	if val := os.Getenv("IRKIT_BROKER_URL"); val != "" {
		defaultConfig.BrokerURL = val
	}
	if val := os.Getenv("IRKIT_CLIENT_ID"); val != "" {
		defaultConfig.ClientID = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Device, "device", defaultConfig.Device, "Serial device of the IR board.")
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Serial baud rate.")
	flag.StringVar(&defaultConfig.Protocols, "protocols", defaultConfig.Protocols, "Comma separated protocols to decode, empty for all.")
	flag.StringVar(&defaultConfig.BrokerURL, "broker", defaultConfig.BrokerURL, "MQTT broker URL with topic prefix.")
	flag.StringVar(&defaultConfig.ClientID, "client-id", defaultConfig.ClientID, "MQTT client id, defaults to one derived from the machine id.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// ProtocolIDs parses Protocols. An empty list means every protocol.
func (c *Config) ProtocolIDs() ([]protocol.ID, error) {
	if strings.TrimSpace(c.Protocols) == "" {
		return protocol.All(), nil
	}
	var ids []protocol.ID
	for _, name := range strings.Split(c.Protocols, ",") {
		id, err := protocol.ParseID(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("protocol %q: %w", name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Validate checks the config for obvious mistakes.
func (c *Config) Validate() error {
	if c.Device == "" {
		return errors.New("no serial device")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("invalid baud rate %d", c.Baud)
	}
	if _, err := c.ProtocolIDs(); err != nil {
		return err
	}
	u, err := url.Parse(c.BrokerURL)
	if err != nil {
		return fmt.Errorf("invalid broker URL: %w", err)
	}
	switch u.Scheme {
	case "mqtt", "tcp", "ssl", "ws", "wss":
	default:
		return fmt.Errorf("unknown broker URL scheme: %q", u.Scheme)
	}
	return nil
}
