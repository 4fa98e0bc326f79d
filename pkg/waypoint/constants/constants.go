// Package constants defines the environment switches, virtual buttons and
// input timing shared by the waypoint packages.
package constants

import (
	"os"
	"strings"
	"time"
)

// Development is the environment variable value for development mode.
const Development = "DEV"

// Environment variables read by waypoint.
const (
	EnvironmentEnvVar = "ENVIRONMENT"
	LogLevelEnvVar    = "WAYPOINT_LOG_LEVEL"
	LogPathEnvVar     = "WAYPOINT_LOG_PATH"
	ConfigPathEnvVar  = "WAYPOINT_CONFIG"
)

// IsDevMode returns true if running in development mode (ENVIRONMENT=DEV).
func IsDevMode() bool {
	return os.Getenv(EnvironmentEnvVar) == Development
}

// VirtualButton represents an abstract input button, mapped from physical hardware.
// Input bindings are written against virtual buttons so the same tree can be
// driven from a keyboard, a game controller or raw evdev keys.
type VirtualButton int

const (
	VirtualButtonUnassigned VirtualButton = iota
	VirtualButtonUp
	VirtualButtonDown
	VirtualButtonLeft
	VirtualButtonRight
	VirtualButtonA
	VirtualButtonB
	VirtualButtonX
	VirtualButtonY
	VirtualButtonL1
	VirtualButtonL2
	VirtualButtonR1
	VirtualButtonR2
	VirtualButtonStart
	VirtualButtonSelect
	VirtualButtonMenu
	VirtualButtonF1
	VirtualButtonF2
	VirtualButtonVolumeUp
	VirtualButtonVolumeDown
	VirtualButtonPower
)

func (vb VirtualButton) GetName() string {
	switch vb {
	case VirtualButtonUnassigned:
		return "Unassigned"
	case VirtualButtonUp:
		return "Up"
	case VirtualButtonDown:
		return "Down"
	case VirtualButtonLeft:
		return "Left"
	case VirtualButtonRight:
		return "Right"
	case VirtualButtonA:
		return "A"
	case VirtualButtonB:
		return "B"
	case VirtualButtonX:
		return "X"
	case VirtualButtonY:
		return "Y"
	case VirtualButtonL1:
		return "L1"
	case VirtualButtonL2:
		return "L2"
	case VirtualButtonR1:
		return "R1"
	case VirtualButtonR2:
		return "R2"
	case VirtualButtonStart:
		return "Start"
	case VirtualButtonSelect:
		return "Select"
	case VirtualButtonMenu:
		return "Menu"
	case VirtualButtonF1:
		return "F1"
	case VirtualButtonF2:
		return "F2"
	case VirtualButtonVolumeUp:
		return "VolumeUp"
	case VirtualButtonVolumeDown:
		return "VolumeDown"
	case VirtualButtonPower:
		return "Power"
	default:
		return "Unknown"
	}
}

// ParseVirtualButton returns the button whose GetName matches name, ignoring
// case. It returns false for unknown names and for "Unassigned".
func ParseVirtualButton(name string) (VirtualButton, bool) {
	name = strings.TrimSpace(name)
	for vb := VirtualButtonUp; vb <= VirtualButtonPower; vb++ {
		if strings.EqualFold(vb.GetName(), name) {
			return vb, true
		}
	}
	return VirtualButtonUnassigned, false
}

// IsDirectional reports whether vb is one of the d-pad buttons.
func (vb VirtualButton) IsDirectional() bool {
	switch vb {
	case VirtualButtonUp, VirtualButtonDown, VirtualButtonLeft, VirtualButtonRight:
		return true
	}
	return false
}

func (vb VirtualButton) String() string {
	return vb.GetName()
}

// Default input timing.
const (
	DefaultInputDelay     = 20 * time.Millisecond  // Debounce delay between input events
	DefaultRepeatDelay    = 300 * time.Millisecond // Hold time before the first repeat
	DefaultRepeatInterval = 50 * time.Millisecond  // Time between subsequent repeats
)
