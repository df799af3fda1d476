package frontmatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// YAML decodes the metadata block with a full YAML (or TOML/JSON) decoder and
// folds the result into the same record shape as Compat. Nested mappings are
// flattened with dotted keys.
type YAML struct {
	Now func() time.Time
}

func (y YAML) Parse(raw string) Document {
	now := time.Now
	if y.Now != nil {
		now = y.Now
	}
	fm := defaults(now())

	var meta map[string]interface{}
	body, err := frontmatter.Parse(strings.NewReader(raw), &meta)
	if err != nil {
		return Document{Frontmatter: fm, Body: raw}
	}

	for key, value := range meta {
		foldValue(fm, key, value)
	}
	return Document{Frontmatter: fm, Body: strings.TrimLeft(string(body), "\r\n")}
}

func foldValue(fm Frontmatter, key string, value interface{}) {
	switch v := value.(type) {
	case nil:
	case string:
		if v != "" {
			fm[key] = String(v)
		}
	case time.Time:
		fm[key] = String(v.Format(DateLayout))
	case []interface{}:
		items := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			items = append(items, scalarString(item))
		}
		fm[key] = List(items...)
	case map[interface{}]interface{}:
		for k, nested := range v {
			foldValue(fm, key+"."+fmt.Sprint(k), nested)
		}
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			foldValue(fm, key+"."+k, v[k])
		}
	default:
		fm[key] = String(scalarString(v))
	}
}

func scalarString(v interface{}) string {
	if t, ok := v.(time.Time); ok {
		return t.Format(DateLayout)
	}
	return fmt.Sprint(v)
}
