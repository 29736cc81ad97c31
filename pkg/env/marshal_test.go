package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string        `env:"TWIN_SUBJECT_NAME"`
	Provider string        `env:"TWIN_LLM_PROVIDER,required"`
	Temp     float64       `env:"TWIN_LLM_TEMPERATURE"`
	Owner    int64         `env:"TWIN_TELEGRAM_OWNER_ID"`
	Enabled  bool          `env:"TWIN_ENABLE_HTTP"`
	Match    []string      `env:"TWIN_CALENDAR_MATCH" envSeparator:","`
	Timeout  time.Duration `env:"TWIN_HTTP_READ_TIMEOUT"`
	Prompt   string        `env:"TWIN_PROMPT"`
	Skipped  string
	hidden   string `env:"TWIN_HIDDEN"`
}

func TestMarshalEnv(t *testing.T) {
	s := &sample{
		Name:     "Jane Doe",
		Provider: "openai",
		Temp:     0.5,
		Owner:    42,
		Enabled:  true,
		Match:    []string{"work", "personal"},
		Timeout:  15 * time.Second,
		Prompt:   "use # carefully",
		Skipped:  "x",
		hidden:   "y",
	}

	got, err := MarshalEnv(s)
	require.NoError(t, err)
	assert.Equal(t, "TWIN_SUBJECT_NAME=Jane Doe\n"+
		"TWIN_LLM_PROVIDER=openai\n"+
		"TWIN_LLM_TEMPERATURE=0.5\n"+
		"TWIN_TELEGRAM_OWNER_ID=42\n"+
		"TWIN_ENABLE_HTTP=true\n"+
		"TWIN_CALENDAR_MATCH=work,personal\n"+
		"TWIN_HTTP_READ_TIMEOUT=15s\n"+
		"TWIN_PROMPT=\"use # carefully\"\n", got)
}

func TestMarshalEnv_ZeroValuesOmitted(t *testing.T) {
	got, err := MarshalEnv(&sample{Provider: "ollama"})
	require.NoError(t, err)
	assert.Equal(t, "TWIN_LLM_PROVIDER=ollama\n", got)
}

func TestMarshalEnv_RejectsNonStruct(t *testing.T) {
	_, err := MarshalEnv(sample{})
	assert.Error(t, err)
}
