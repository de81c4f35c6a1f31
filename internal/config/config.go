package config

// Config is the top-level configuration structure mapping to scenarist.toml.
type Config struct {
	Run       RunConfig        `toml:"run"`
	Scenarios []ScenarioConfig `toml:"scenario"`
}

// RunConfig maps to the [run] section in scenarist.toml.
type RunConfig struct {
	// Scenarios selects the scenarios to run. Whether the key was present
	// matters: absent runs every scenario, an empty list lists them.
	Scenarios []string `toml:"scenarios"`

	// ScenariosSet records that Scenarios was explicitly provided by some
	// configuration layer, even as an empty list.
	ScenariosSet bool `toml:"-"`

	NoSetup        bool     `toml:"no_setup"`
	Manifests      []string `toml:"manifests"`
	ReportFile     string   `toml:"report_file"`
	Shell          string   `toml:"shell"`
	CommandTimeout string   `toml:"command_timeout"`
}

// ScenarioConfig maps to one [[scenario]] entry in scenarist.toml. Entries
// are registered in file order.
type ScenarioConfig struct {
	Name        string         `toml:"name"`
	Description string         `toml:"description"`
	Setup       string         `toml:"setup"`
	Teardown    string         `toml:"teardown"`
	Attributes  map[string]any `toml:"attributes"`
}
