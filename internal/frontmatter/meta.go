package frontmatter

import (
	"fmt"
	"strings"
	"time"
)

// Meta is the typed view of a page's frontmatter. Recognized keys are lifted
// into fields; everything else lands in Extra so templates can still reach it.
type Meta struct {
	Title   string
	Date    time.Time
	HasDate bool
	Author  string
	Tags    []string
	Draft   bool
	Summary string
	Extra   map[string]any
}

// Date layouts accepted in frontmatter, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseMeta converts an untyped frontmatter map into a Meta record.
// Unparseable values for recognized keys are reported through the returned
// error but never discard the rest of the metadata.
func ParseMeta(fields map[string]any) (Meta, error) {
	meta := Meta{Extra: map[string]any{}}
	var firstErr error

	for key, value := range fields {
		switch strings.ToLower(key) {
		case "title":
			meta.Title = strings.TrimSpace(asString(value))
		case "date":
			t, err := parseDate(value)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			meta.Date = t
			meta.HasDate = true
		case "author":
			meta.Author = strings.TrimSpace(asString(value))
		case "tags":
			meta.Tags = parseTags(value)
		case "draft":
			meta.Draft = asBool(value)
		case "summary":
			meta.Summary = strings.TrimSpace(asString(value))
		default:
			meta.Extra[key] = value
		}
	}
	return meta, firstErr
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}

func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(strings.TrimSpace(b), "true")
	default:
		return false
	}
}

func parseDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
	default:
		return time.Time{}, fmt.Errorf("unsupported date value: %v", v)
	}
}

// parseTags accepts either a YAML sequence or a comma-separated string.
func parseTags(v any) []string {
	var tags []string
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s := strings.TrimSpace(asString(item)); s != "" {
				tags = append(tags, s)
			}
		}
	case string:
		for _, part := range strings.Split(t, ",") {
			if s := strings.TrimSpace(part); s != "" {
				tags = append(tags, s)
			}
		}
	}
	return tags
}
