package markdown

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// SplitMetadata separates a leading YAML metadata block from the markdown
// body. The block opens with a "---" line on the first line of the source
// and closes with a "---" or "..." line. When there is no block, or it does
// not decode to a YAML mapping, the source is returned untouched with empty
// metadata.
func SplitMetadata(src []byte) (map[string]any, []byte) {
	meta := map[string]any{}

	first, rest, ok := cutLine(src)
	if !ok || string(bytes.TrimRight(first, " \t")) != "---" {
		return meta, src
	}

	var block []byte
	for remaining := rest; len(remaining) > 0; {
		line, next, _ := cutLine(remaining)
		trimmed := string(bytes.TrimRight(line, " \t"))
		if trimmed == "---" || trimmed == "..." {
			if len(bytes.TrimSpace(block)) == 0 {
				// "---\n---" is a thematic break pair, not metadata.
				return meta, src
			}
			var parsed map[string]any
			if err := yaml.Unmarshal(block, &parsed); err != nil || parsed == nil {
				return meta, src
			}
			return parsed, next
		}
		block = append(block, line...)
		block = append(block, '\n')
		remaining = next
	}

	return meta, src
}

// cutLine splits off the first line, dropping its terminator.
// ok is false when src is empty.
func cutLine(src []byte) (line, rest []byte, ok bool) {
	if len(src) == 0 {
		return nil, nil, false
	}
	line, rest, found := bytes.Cut(src, []byte{'\n'})
	if !found {
		rest = nil
	}
	return bytes.TrimSuffix(line, []byte{'\r'}), rest, true
}

// MetaString returns a string metadata value, or "" when absent or not a string.
func (r *Result) MetaString(key string) string {
	if r == nil {
		return ""
	}
	s, _ := r.Metadata[key].(string)
	return s
}
