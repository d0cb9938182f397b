package target

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// htmlEscaper escapes the five characters that matter inside markup.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// allowedTags is the fixed allow-list for tag-permissive escaping.
var allowedTags = map[string]bool{
	"b": true, "i": true, "u": true, "s": true, "a": true,
	"code": true, "pre": true, "blockquote": true,
	"ul": true, "ol": true, "li": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "br": true, "hr": true,
	"table": true, "thead": true, "tbody": true, "tfoot": true,
	"tr": true, "th": true, "td": true, "caption": true,
	"div": true, "span": true,
}

// allowedAttrs maps tag name to the attributes that survive escaping.
// Everything not listed is dropped.
var allowedAttrs = map[string]map[string]bool{
	"a": {"href": true, "title": true},
}

var (
	tagRe         = regexp.MustCompile(`<\s*(/?)\s*([a-zA-Z][a-zA-Z0-9]*)([^<>]*)>`)
	attrRe        = regexp.MustCompile(`([a-zA-Z][a-zA-Z0-9-]*)\s*=\s*(?:"([^"]*)"|'([^']*)')`)
	placeholderRe = regexp.MustCompile(`\{\{([A-Za-z_][A-Za-z0-9_-]*)\}\}`)
	classAttrRe   = regexp.MustCompile(`class="([^"]*)"`)
)

// Escape converts a value into markup-safe text.
//
// Strings and numbers are accepted; anything else is reported as an
// invalid-input error through the package logger and degraded to the empty
// string, never an error return.
//
// With allowTags false, the characters & < > " ' are escaped. With allowTags
// true, tags from the fixed allow-list are kept (attributes filtered per
// allowedAttrs, attribute values escaped), and every other tag has its angle
// brackets escaped so the text stays visible but inert.
func Escape(value any, allowTags bool) string {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		s = fmt.Sprint(v)
	default:
		Logger().Warn("escape: invalid input value",
			zap.String("type", fmt.Sprintf("%T", value)),
			zap.Error(ErrInvalidInput))
		return ""
	}

	if !allowTags {
		return htmlEscaper.Replace(s)
	}
	return escapeAllowingTags(s)
}

// escapeAllowingTags walks the string tag by tag. Text between tags is
// fully escaped; tag tokens are rebuilt or neutralized.
func escapeAllowingTags(s string) string {
	matches := tagRe.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return htmlEscaper.Replace(s)
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		sb.WriteString(htmlEscaper.Replace(s[last:start]))
		last = end

		closing := s[m[2]:m[3]] == "/"
		name := strings.ToLower(s[m[4]:m[5]])
		attrs := s[m[6]:m[7]]

		if !allowedTags[name] {
			// Neutralize only the angle brackets; the tag text stays
			// visible but inert.
			sb.WriteString("&lt;")
			sb.WriteString(s[start+1 : end-1])
			sb.WriteString("&gt;")
			continue
		}

		sb.WriteByte('<')
		if closing {
			sb.WriteByte('/')
		}
		sb.WriteString(name)
		if !closing {
			sb.WriteString(filterAttrs(name, attrs))
		}
		sb.WriteByte('>')
	}
	sb.WriteString(htmlEscaper.Replace(s[last:]))
	return sb.String()
}

// filterAttrs keeps only the allow-listed attributes for the tag, with
// their values recursively escaped.
func filterAttrs(tag, attrs string) string {
	allowed := allowedAttrs[tag]
	if len(allowed) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, m := range attrRe.FindAllStringSubmatch(attrs, -1) {
		name := strings.ToLower(m[1])
		if !allowed[name] {
			continue
		}
		value := m[2]
		if value == "" {
			value = m[3]
		}
		sb.WriteByte(' ')
		sb.WriteString(name)
		sb.WriteString(`="`)
		sb.WriteString(htmlEscaper.Replace(value))
		sb.WriteByte('"')
	}
	return sb.String()
}

// RenderTemplate substitutes {{identifier}} tokens in a single linear pass.
//
// Known identifiers are replaced with their escaped value; the "content"
// key uses tag-permissive escaping, every other key the full escape.
// Unknown tokens are left literally in place, which allows multi-pass and
// partial templates. Substituted values are not rescanned.
func RenderTemplate(tmpl string, placeholders map[string]any) string {
	return placeholderRe.ReplaceAllStringFunc(tmpl, func(token string) string {
		key := token[2 : len(token)-2]
		value, ok := placeholders[key]
		if !ok {
			return token
		}
		return Escape(value, key == "content")
	})
}

// ScopeClassNames rewrites every class="a b" attribute in html so that each
// class gains a -suffix, namespacing selectors to a component instance.
func ScopeClassNames(html, suffix string) string {
	return classAttrRe.ReplaceAllStringFunc(html, func(m string) string {
		classes := strings.Fields(m[len(`class="`) : len(m)-1])
		for i, class := range classes {
			classes[i] = class + "-" + suffix
		}
		return `class="` + strings.Join(classes, " ") + `"`
	})
}

// CoerceDataset converts raw data-* attribute strings into typed values:
// "true"/"false" become bools, fully numeric strings become int or float64,
// brace-wrapped strings are parsed as JSON, and everything else stays a
// string. Total: a JSON parse failure keeps the raw string.
func CoerceDataset(raw map[string]string) map[string]any {
	out := make(map[string]any, len(raw))
	for key, value := range raw {
		out[key] = coerceValue(value)
	}
	return out
}

func coerceValue(v string) any {
	switch v {
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	trimmed := strings.TrimSpace(v)
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		var parsed any
		if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
			return parsed
		}
	}
	return v
}
