// Package display renders command results for terminals and scripts.
package display

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/grit/errors"
)

// MarshalJSON marshals v with two-space indentation, or on one line when compact is set
func MarshalJSON(v interface{}, compact bool) ([]byte, error) {
	if compact {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}

// ShouldOutputJSON reports whether cmd was asked for JSON through its --json flag
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}
	jsonFlag, err := cmd.Flags().GetBool("json")
	return err == nil && jsonFlag
}

// OutputJSON writes v as JSON followed by a newline
func OutputJSON(w io.Writer, v interface{}, compact bool) error {
	data, err := MarshalJSON(v, compact)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
