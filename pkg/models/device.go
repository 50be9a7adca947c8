package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Device is one of the fixed appliance categories reported by the energy API
type Device int

const (
	Fridge Device = iota
	Oven
	Lights
	EVCharger

	deviceCount
)

var deviceNames = [deviceCount]string{
	Fridge:    "fridge",
	Oven:      "oven",
	Lights:    "lights",
	EVCharger: "ev charger",
}

// Devices lists every category in stacking order (bottom of the bar first)
var Devices = []Device{Fridge, Oven, Lights, EVCharger}

// String returns the wire name of the device
func (d Device) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Device(%d)", int(d))
	}
	return deviceNames[d]
}

// Slug returns the device name with spaces replaced, for use in topics and keys
func (d Device) Slug() string {
	return strings.ReplaceAll(d.String(), " ", "_")
}

// Valid reports whether d is one of the known categories
func (d Device) Valid() bool {
	return d >= 0 && d < deviceCount
}

// ParseDevice resolves a wire name (or slug) to a Device
func ParseDevice(s string) (Device, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.ReplaceAll(name, "_", " ")
	for _, d := range Devices {
		if deviceNames[d] == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown device: %q", s)
}

// DeviceUsage holds one kWh value per device. The array shape keeps the
// category set closed: a value can't exist for an unknown device and none
// of the four can be missing.
type DeviceUsage [deviceCount]float64

// Get returns the usage for a device
func (u DeviceUsage) Get(d Device) float64 {
	if !d.Valid() {
		return 0
	}
	return u[d]
}

// Total sums the usage of all devices
func (u DeviceUsage) Total() float64 {
	var total float64
	for _, v := range u {
		total += v
	}
	return total
}

// Map returns the usage keyed by device name, always with all four keys
func (u DeviceUsage) Map() map[string]float64 {
	m := make(map[string]float64, deviceCount)
	for _, d := range Devices {
		m[d.String()] = u[d]
	}
	return m
}

// MarshalJSON encodes the usage as an object keyed by device name
func (u DeviceUsage) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.Map())
}

// UnmarshalJSON reads an object keyed by device name. Missing devices are
// left at zero and unknown keys are ignored.
func (u *DeviceUsage) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding device usage: %w", err)
	}
	return u.fill(raw)
}

func (u *DeviceUsage) fill(raw map[string]json.RawMessage) error {
	*u = DeviceUsage{}
	for _, d := range Devices {
		v, ok := raw[d.String()]
		if !ok || string(v) == "null" {
			continue
		}
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			return fmt.Errorf("decoding %s usage: %w", d, err)
		}
		u[d] = f
	}
	return nil
}
