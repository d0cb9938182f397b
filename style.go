package target

import (
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/MarJC5/target/lib/surface"
)

// StyleKeyAttr marks injected style nodes with their derived registry key.
const StyleKeyAttr = "data-style-id"

// LinkKeyAttr marks injected link nodes with their resolved href.
const LinkKeyAttr = "data-style-href"

// Rules maps selectors to declaration strings. An "@media ..." key maps to
// a nested Rules value whose rules are expanded inside the media block.
type Rules map[string]any

// cssCompactRe strips whitespace around : ; , and { when serializing rules.
var cssCompactRe = regexp.MustCompile(`\s*([:;,{])\s*`)

// StyleManager mediates all style and stylesheet insertion into the
// document head for one component. Each manager owns the nodes it injects
// and can tear them all down on unmount.
//
// Dedup is two-layered: an in-memory registry (fast path) and a head query
// fallback that defends against nodes injected by a previous, discarded
// instance when the head outlives the component.
type StyleManager struct {
	doc     surface.Document
	hash    string
	baseURL string

	styles map[string]surface.Element
	linked map[string]struct{}
}

// NewStyleManager returns a manager for the given document head. hash is
// the owning component's instance hash, used to derive node keys and scoped
// selectors; baseURL resolves relative stylesheet filenames.
func NewStyleManager(doc surface.Document, hash, baseURL string) *StyleManager {
	return &StyleManager{
		doc:     doc,
		hash:    hash,
		baseURL: baseURL,
		styles:  make(map[string]surface.Element),
		linked:  make(map[string]struct{}),
	}
}

// AddStyle serializes rules into a style node tagged key-hash and appends
// it to the head. Idempotent: a registry hit or an equivalent node already
// in the head makes the call a no-op, so re-mounts never duplicate styles.
//
// When scoped is true, every comma-separated branch of each top-level
// selector gets -hash appended, matching the class names produced by
// ScopeClassNames.
func (m *StyleManager) AddStyle(key string, rules Rules, scoped bool) {
	if _, ok := m.styles[key]; ok {
		return
	}
	derived := key + "-" + m.hash
	if m.headElement("style", StyleKeyAttr, derived) != nil {
		return
	}

	el := m.doc.CreateElement("style")
	el.SetAttribute(StyleKeyAttr, derived)
	el.SetHTML(serializeRules(rules, scoped, m.hash))
	m.doc.Head().AppendChild(el)
	m.styles[key] = el

	Logger().Debug("style added",
		zap.String("key", key),
		zap.String("hash", m.hash),
		zap.Bool("scoped", scoped))
}

// RemoveStyle removes and deregisters one style node. Unknown keys are a
// no-op.
func (m *StyleManager) RemoveStyle(key string) {
	el, ok := m.styles[key]
	if !ok {
		return
	}
	el.Remove()
	delete(m.styles, key)
}

// RemoveAllStyles removes every style node this manager injected. Safe to
// call when nothing is registered.
func (m *StyleManager) RemoveAllStyles() {
	for key := range m.styles {
		m.RemoveStyle(key)
	}
}

// StyleCount returns the number of registered style nodes.
func (m *StyleManager) StyleCount() int {
	return len(m.styles)
}

// LoadLinkedStyle injects a stylesheet link for a CSS file. Relative
// filenames are resolved against the manager's base URL.
func (m *StyleManager) LoadLinkedStyle(filename string) {
	m.InjectLinkedStyle(m.resolve(filename), "stylesheet", "")
}

// InjectLinkedStyle appends a link node to the head. rel defaults to
// "stylesheet"; crossorigin is set when non-empty. Hrefs already injected,
// by this manager or a previous instance, are skipped.
func (m *StyleManager) InjectLinkedStyle(href, rel, crossorigin string) {
	if _, ok := m.linked[href]; ok {
		return
	}
	if m.headElement("link", LinkKeyAttr, href) != nil {
		return
	}
	if rel == "" {
		rel = "stylesheet"
	}

	el := m.doc.CreateElement("link")
	el.SetAttribute("rel", rel)
	el.SetAttribute("href", href)
	if crossorigin != "" {
		el.SetAttribute("crossorigin", crossorigin)
	}
	el.SetAttribute(LinkKeyAttr, href)
	m.doc.Head().AppendChild(el)
	m.linked[href] = struct{}{}

	Logger().Debug("linked style injected", zap.String("href", href))
}

// RemoveLinkedStyle removes the link injected for a CSS file.
func (m *StyleManager) RemoveLinkedStyle(filename string) {
	m.RemoveInjectedLinkedStyle(m.resolve(filename))
}

// RemoveInjectedLinkedStyle removes the link node for href and forgets it.
// Idempotent on missing entries.
func (m *StyleManager) RemoveInjectedLinkedStyle(href string) {
	delete(m.linked, href)
	if el := m.headElement("link", LinkKeyAttr, href); el != nil {
		el.Remove()
	}
}

// resolve joins a relative filename onto the base URL. Absolute URLs and
// rooted paths pass through untouched.
func (m *StyleManager) resolve(filename string) string {
	if strings.Contains(filename, "://") || strings.HasPrefix(filename, "/") {
		return filename
	}
	if m.baseURL == "" {
		return filename
	}
	return strings.TrimSuffix(m.baseURL, "/") + "/" + filename
}

// headElement scans the head for a node with the given tag and key
// attribute value. This is the DOM-side dedup fallback.
func (m *StyleManager) headElement(tag, attr, value string) surface.Element {
	for _, child := range m.doc.Head().Children() {
		if child.Tag() != tag {
			continue
		}
		if got, ok := child.Attribute(attr); ok && got == value {
			return child
		}
	}
	return nil
}

// serializeRules flattens a rule map into compacted CSS text. Keys are
// visited in sorted order so output is deterministic.
func serializeRules(rules Rules, scoped bool, hash string) string {
	var sb strings.Builder
	for _, selector := range sortedKeys(rules) {
		value := rules[selector]
		if nested, ok := nestedRules(value); ok && strings.HasPrefix(selector, "@media") {
			sb.WriteString(compactCSS(selector))
			sb.WriteByte('{')
			sb.WriteString(serializeRules(nested, scoped, hash))
			sb.WriteByte('}')
			continue
		}
		decl, _ := value.(string)
		sb.WriteString(scopeSelector(selector, scoped, hash))
		sb.WriteByte('{')
		sb.WriteString(compactCSS(decl))
		sb.WriteByte('}')
	}
	return sb.String()
}

// nestedRules normalizes the map shapes a nested @media block may carry.
func nestedRules(value any) (Rules, bool) {
	switch v := value.(type) {
	case Rules:
		return v, true
	case map[string]any:
		return Rules(v), true
	case map[string]string:
		nested := make(Rules, len(v))
		for k, decl := range v {
			nested[k] = decl
		}
		return nested, true
	}
	return nil, false
}

// scopeSelector appends -hash to every comma-separated selector branch.
func scopeSelector(selector string, scoped bool, hash string) string {
	compact := compactCSS(selector)
	if !scoped || strings.HasPrefix(compact, "@") {
		return compact
	}
	branches := strings.Split(compact, ",")
	for i, branch := range branches {
		branches[i] = strings.TrimSpace(branch) + "-" + hash
	}
	return strings.Join(branches, ",")
}

func compactCSS(s string) string {
	return strings.TrimSpace(cssCompactRe.ReplaceAllString(s, "$1"))
}

func sortedKeys(rules Rules) []string {
	keys := make([]string, 0, len(rules))
	for key := range rules {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
