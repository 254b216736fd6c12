// Package record decodes plain field maps into closed record structs.
package record

import (
	"sort"

	"codeberg.org/mutker/errschema/internal/errors"
	"github.com/mitchellh/mapstructure"
)

const tagName = "mapstructure"

var errFactory = errors.For("record")

// Decoder decodes field maps into structs tagged with `mapstructure`.
type Decoder struct {
	// Strict rejects keys that have no matching struct field.
	Strict bool
}

// Decode copies fields into out. Every name in required must be present in
// fields. When d.Strict is set, unknown keys fail with ErrUnknownField; out
// may then be partially filled and must be discarded.
func (d Decoder) Decode(fields map[string]any, out any, required ...string) error {
	var missing []string
	for _, name := range required {
		if _, ok := fields[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errFactory.WithDetail(errors.ErrMissingField, missing)
	}

	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata: &md,
		Result:   out,
		TagName:  tagName,
	})
	if err != nil {
		return errFactory.Wrap(errors.ErrInvalidField, err)
	}

	if err := dec.Decode(fields); err != nil {
		return errFactory.Wrap(errors.ErrInvalidField, err)
	}

	if d.Strict && len(md.Unused) > 0 {
		sort.Strings(md.Unused)
		return errFactory.WithDetail(errors.ErrUnknownField, md.Unused)
	}

	return nil
}
