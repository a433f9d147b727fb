package files

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/pluqqy/tpmedit/pkg/formmap"
	"github.com/pluqqy/tpmedit/pkg/jsondoc"
)

// LookupRaw returns the raw JSON found at path in data.
func LookupRaw(data []byte, path formmap.FieldPath) (string, bool) {
	r := gjson.GetBytes(data, path.GJSON())
	return r.Raw, r.Exists()
}

// PrettyRaw indents a raw JSON fragment for display.
func PrettyRaw(raw string, indent int) string {
	if indent <= 0 {
		return string(pretty.Ugly([]byte(raw)))
	}
	out := pretty.PrettyOptions([]byte(raw), &pretty.Options{
		Width:  80,
		Indent: fmt.Sprintf("%*s", indent, ""),
	})
	return string(out)
}

// PatchConfig replaces the value at path inside the config file. Only the
// bytes of that value change; the rest of the file keeps its formatting.
func PatchConfig(file string, path formmap.FieldPath, value any) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", file, err)
	}

	out, err := PatchBytes(data, path, value)
	if err != nil {
		return err
	}

	if err := WriteFileAtomic(file, out, 0644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", file, err)
	}
	return nil
}

// PatchBytes returns data with the value at path replaced.
func PatchBytes(data []byte, path formmap.FieldPath, value any) ([]byte, error) {
	if len(path) == 0 {
		return nil, formmap.ErrEmptyPath
	}

	raw, err := jsondoc.Marshal(value, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value for %s: %w", path, err)
	}

	out, err := sjson.SetRawBytes(data, path.SJSON(), raw)
	if err != nil {
		return nil, fmt.Errorf("failed to set %s: %w", path, err)
	}

	if _, err := jsondoc.ParseObject(out); err != nil {
		return nil, fmt.Errorf("patched config for %s is not valid: %w", path, err)
	}
	return out, nil
}
