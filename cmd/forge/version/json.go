package version

import (
	"encoding/json"
	"io"
)

// encodeJSON writes v to w as indented JSON, used by VersionCmd's --json
// output.
func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
