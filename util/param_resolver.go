package util

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oliveagle/jsonpath"
)

var tokenPattern = regexp.MustCompile("{(.*?)}")

// ResolveTemplate substitutes `{$.path}` tokens in a template against the
// given data map. Engagement scripts are written with jsonpath tokens over
// the workflow's data, e.g. "your {$.diagnosis.component} needs attention".
func ResolveTemplate(template string, data map[string]any) string {
	tokens := tokenPattern.FindAllString(template, -1)
	out := template
	for _, token := range tokens {
		path := strings.TrimSuffix(strings.TrimPrefix(token, "{"), "}")
		if !strings.HasPrefix(path, "$") {
			continue
		}
		value, err := jsonpath.JsonPathLookup(data, path)
		if err != nil {
			continue
		}
		out = strings.ReplaceAll(out, token, fmt.Sprintf("%v", value))
	}
	return out
}

// ResolveParams applies ResolveTemplate to every string value of the params
// map, recursing into nested maps.
func ResolveParams(params map[string]any, data map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		switch val := v.(type) {
		case string:
			out[k] = ResolveTemplate(val, data)
		case map[string]any:
			out[k] = ResolveParams(val, data)
		default:
			out[k] = v
		}
	}
	return out
}
