package site

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alyraffauf/alycodes/internal/model"
)

// statsAttrs renders stats as a Nix attribute set, e.g. for `cat stats.nix`.
// Numeric values stay bare, everything else is quoted.
func statsAttrs(stats []model.Stat) string {
	var b strings.Builder
	b.WriteString("{\n")
	for _, s := range stats {
		value := strconv.Quote(s.Value)
		if _, err := strconv.Atoi(s.Value); err == nil {
			value = s.Value
		}
		fmt.Fprintf(&b, "  %s = %s;\n", s.Key, value)
	}
	b.WriteString("}")
	return b.String()
}

func identityAttrs(fields []model.Field) string {
	var b strings.Builder
	b.WriteString("{\n")
	for _, f := range fields {
		fmt.Fprintf(&b, "  %s = %s;\n", f.Key, strconv.Quote(f.Value))
	}
	b.WriteString("}")
	return b.String()
}

func identityFields(name, location, status string) []model.Field {
	var fields []model.Field
	if name != "" {
		fields = append(fields, model.Field{Key: "name", Value: name})
	}
	if location != "" {
		fields = append(fields, model.Field{Key: "location", Value: location})
	}
	if status != "" {
		fields = append(fields, model.Field{Key: "status", Value: status, IsStatus: true})
	}
	return fields
}
