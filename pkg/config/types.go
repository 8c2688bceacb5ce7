package config

// Numeric defaults and limits, in seconds where applicable.
const (
	DefaultTempoDelay = 0.5
	DefaultHoldTime   = 5.0
	DefaultMultiplier = 1.0

	MaxTempoDelay = 600.0
	MaxHoldTime   = 1e6
	MaxMultiplier = 1e6
)

// File is the root of a configuration file.
type File struct {
	// Debug enables debug output for every mapping.
	Debug bool `yaml:"debug"`

	// Mode is the initial router mode.
	Mode string `yaml:"mode"`

	Devices  Devices         `yaml:"devices"`
	Mappings []MappingConfig `yaml:"mappings"`
}

// Devices declares the physical and virtual devices.
type Devices struct {
	Physical []DeviceConfig `yaml:"physical"`
	Virtual  []DeviceConfig `yaml:"virtual"`
}

// DeviceConfig declares one device.
type DeviceConfig struct {
	ID      string `yaml:"id"`
	Buttons int    `yaml:"buttons"`

	// Path is the Linux event device of a physical device, used by the
	// evdev bridge.
	Path string `yaml:"path,omitempty"`

	// Name is the uinput name of a virtual device, used by the evdev
	// bridge.
	Name string `yaml:"name,omitempty"`
}

// MappingConfig configures one mapping.
type MappingConfig struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description,omitempty"`
	Mode        string `yaml:"mode,omitempty"`

	// Input is the physical button in "device:index" form.
	Input string `yaml:"input"`

	// Output is the virtual button in "device:index" form.
	Output string `yaml:"output"`

	Alternating bool `yaml:"alternating,omitempty"`
	Debug       bool `yaml:"debug,omitempty"`

	Cancel CancelConfig   `yaml:"cancel,omitempty"`
	Hold1  *ProfileConfig `yaml:"hold1,omitempty"`
	Hold2  *ProfileConfig `yaml:"hold2,omitempty"`
}

// CancelConfig configures the cancel input.
type CancelConfig struct {
	Enabled bool   `yaml:"enabled"`
	Button  string `yaml:"button"`
}

// ProfileConfig configures one hold profile. Unset numbers take their
// defaults.
type ProfileConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Description string `yaml:"description,omitempty"`

	TempoDelay         *float64 `yaml:"tempo_delay,omitempty"`
	HoldTime           *float64 `yaml:"hold_time,omitempty"`
	HoldTimeMultiplier *float64 `yaml:"hold_time_multiplier,omitempty"`

	Modifier ModifierConfig `yaml:"modifier,omitempty"`
}

// ModifierConfig configures a profile guard.
type ModifierConfig struct {
	Enabled bool `yaml:"enabled"`

	// Source is "physical" or "virtual".
	Source string `yaml:"source"`
	Button string `yaml:"button"`
}
