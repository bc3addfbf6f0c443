package model

// StateSummary is the read model for status output: card and execution
// counts per group plus the effective queue settings.
type StateSummary struct {
	Columns          int            `yaml:"columns"`
	ConcurrencyLimit int            `yaml:"concurrency_limit"`
	HistoryLimit     int            `yaml:"history_limit"`
	CardCount        int            `yaml:"card_count"`
	Groups           []string       `yaml:"groups"`
	CardsByGroup     map[string]int `yaml:"cards_by_group"`
	Executions       int            `yaml:"executions"`
	Failures         int            `yaml:"failures"`
}
