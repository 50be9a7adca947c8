package chart

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jgoulah/wattboard/pkg/models"
)

var (
	colorHighlight = lipgloss.Color("#FF7F50") // coral
	colorIdle      = lipgloss.Color("#808080")
)

var deviceColors = map[models.Device]lipgloss.Color{
	models.Fridge:    lipgloss.Color("#4F7CFF"),
	models.Oven:      lipgloss.Color("#E5484D"),
	models.Lights:    lipgloss.Color("#F5D90A"),
	models.EVCharger: lipgloss.Color("#30A46C"),
}

// Selection is the highlighted device, if any. The zero value selects nothing.
type Selection struct {
	device models.Device
	active bool
}

// Toggle selects d, or clears the selection when d is already selected
func (s Selection) Toggle(d models.Device) Selection {
	if s.active && s.device == d {
		return Selection{}
	}
	return Selection{device: d, active: true}
}

// Device returns the selected device and whether one is selected
func (s Selection) Device() (models.Device, bool) {
	return s.device, s.active
}

// Is reports whether d is the selected device
func (s Selection) Is(d models.Device) bool {
	return s.active && s.device == d
}

// BarColor is the fill for a device's segment: coral when highlighted, grey otherwise
func BarColor(sel Selection, d models.Device) lipgloss.Color {
	if sel.Is(d) {
		return colorHighlight
	}
	return colorIdle
}

// DeviceColor is the legend colour of a device
func DeviceColor(d models.Device) lipgloss.Color {
	if c, ok := deviceColors[d]; ok {
		return c
	}
	return colorIdle
}
