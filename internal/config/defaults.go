package config

// NewDefaults returns a Config populated with all default values.
// Scenario selection is left unset, which runs every scenario.
func NewDefaults() *Config {
	return &Config{
		Run: RunConfig{
			Manifests: []string{
				"scenarios/**/*.toml",
				"scenarios/**/*.yaml",
				"scenarios/**/*.yml",
			},
			Shell:          "sh",
			CommandTimeout: "10m",
		},
		Scenarios: []ScenarioConfig{},
	}
}
