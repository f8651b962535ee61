// Package dto defines the decode shapes for declarative graph definitions.
// It uses "mapstructure" tags to match the YAML keys of a per-state block.
package dto

// StateSpec is the declarative definition of one navigation state. Type
// selects the transition variant; the remaining fields apply per variant.
type StateSpec struct {
	Type string `mapstructure:"type"`

	// menu
	Title   string       `mapstructure:"title"`
	Options []OptionSpec `mapstructure:"options"`

	// save
	Prompt      string   `mapstructure:"prompt"`
	Key         string   `mapstructure:"key"`
	Next        string   `mapstructure:"next"`
	Confirm     string   `mapstructure:"confirm"`
	Suggestions []string `mapstructure:"suggestions"`

	// reply
	Text string `mapstructure:"text"`
}

// OptionSpec maps one menu label to its target state.
type OptionSpec struct {
	Label string `mapstructure:"label"`
	To    string `mapstructure:"to"`
}
