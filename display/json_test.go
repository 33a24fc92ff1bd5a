package display

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
}

func TestOutputJSON(t *testing.T) {
	v := sample{Name: "IDS_OK", ID: 500}

	t.Run("indented", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, OutputJSON(&buf, v, false))
		assert.Equal(t, "{\n  \"name\": \"IDS_OK\",\n  \"id\": 500\n}\n", buf.String())
	})

	t.Run("compact", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, OutputJSON(&buf, v, true))
		assert.Equal(t, "{\"name\":\"IDS_OK\",\"id\":500}\n", buf.String())
	})

	t.Run("unsupported value", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, OutputJSON(&buf, make(chan int), false))
		assert.Empty(t, buf.String())
	})
}

func TestShouldOutputJSON(t *testing.T) {
	assert.False(t, ShouldOutputJSON(nil))

	plain := &cobra.Command{Use: "plain"}
	assert.False(t, ShouldOutputJSON(plain))

	withFlag := &cobra.Command{Use: "with"}
	withFlag.Flags().Bool("json", false, "")
	assert.False(t, ShouldOutputJSON(withFlag))
	require.NoError(t, withFlag.Flags().Set("json", "true"))
	assert.True(t, ShouldOutputJSON(withFlag))
}
