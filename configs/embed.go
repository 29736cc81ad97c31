package configs

import "embed"

const (
	PersonaFile = "PERSONA.md"
	FactsFile   = "personal_data.json"
	EvalFile    = "eval_cases.yaml"
)

//go:embed PERSONA.md personal_data.json eval_cases.yaml
var FS embed.FS
