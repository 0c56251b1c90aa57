package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalEnv(t *testing.T) {
	type cfg struct {
		Provider string `env:"LLM_PROVIDER"`
		Model    string `env:"LLM_MODEL"`
		Enabled  bool   `env:"AB_TEST_ENABLED"`
		Ratio    int    `env:"AB_TEST_VARIANT_A_RATIO"`
		Skipped  string `env:"EMPTY_VALUE"`
		NoTag    string
	}

	out, err := MarshalEnv(&cfg{
		Provider: "openai",
		Model:    "gpt-4.1-mini",
		Enabled:  true,
		Ratio:    50,
	})
	require.NoError(t, err)

	assert.Contains(t, out, "LLM_PROVIDER=openai\n")
	assert.Contains(t, out, "LLM_MODEL=gpt-4.1-mini\n")
	assert.Contains(t, out, "AB_TEST_ENABLED=true\n")
	assert.Contains(t, out, "AB_TEST_VARIANT_A_RATIO=50\n")
	assert.NotContains(t, out, "EMPTY_VALUE", "zero values are omitted")
	assert.NotContains(t, out, "NoTag")
}

func TestMarshalEnvStripsTagOptions(t *testing.T) {
	type cfg struct {
		Token string `env:"TELEGRAM_TOKEN,required,notEmpty"`
	}

	out, err := MarshalEnv(&cfg{Token: "123:abc"})
	require.NoError(t, err)
	assert.Equal(t, "TELEGRAM_TOKEN=123:abc\n", out)
}
