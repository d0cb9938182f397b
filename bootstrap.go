package target

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/MarJC5/target/lib/encoding"
	"github.com/MarJC5/target/lib/surface"
)

// PropsAttr carries packed (typed, signed) props on a container, alongside
// the plain data-* attributes.
const PropsAttr = "data-props"

// maxNestedDepth bounds descriptor expansion. A component whose markup
// yields a descriptor for itself would otherwise recurse forever.
const maxNestedDepth = 16

var descriptorAttrRe = regexp.MustCompile(
	regexp.QuoteMeta(encoding.DescriptorAttr) + `="([^"]*)"`)

// Factory builds a concrete component around a prepared lifecycle driver.
// The returned Renderer is bound to the driver by the registry.
type Factory func(base *Target) Renderer

// Registry maps component names to factories and performs the bootstrap:
// initializing containers, driving first mounts, and expanding nested
// component descriptors discovered in rendered markup.
type Registry struct {
	mu        sync.RWMutex
	doc       surface.Document
	cfg       *Config
	encoder   *encoding.Encoder
	factories map[string]Factory
	mounted   []*Target
}

// NewRegistry creates a registry for the given document. signingKey is
// used for packed props; pass nil to disable the packed-props path.
func NewRegistry(doc surface.Document, cfg *Config, signingKey []byte) *Registry {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	reg := &Registry{
		doc:       doc,
		cfg:       cfg,
		factories: make(map[string]Factory),
	}
	if signingKey != nil {
		reg.encoder = encoding.NewEncoder(signingKey)
	}
	return reg
}

// Register adds a named component factory. Registering the same name twice
// is an error.
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateComponent, name)
	}
	r.factories[name] = factory
	return nil
}

// PackProps encodes typed props into a signed string suitable for the
// data-props attribute of a container or nested descriptor.
func (r *Registry) PackProps(props map[string]any) (string, error) {
	if r.encoder == nil {
		return "", fmt.Errorf("%w: registry has no signing key", encoding.ErrInvalidFormat)
	}
	return r.encoder.Pack(props)
}

// Mount initializes a container element and performs the initial mount of
// the component it names: data-* attributes are read into props and
// stripped, the component is constructed and bound, the first update cycle
// runs, and nested descriptors in the rendered markup are expanded.
//
// Returns the component's lifecycle driver so the caller owns teardown.
func (r *Registry) Mount(el surface.Element) (*Target, error) {
	return r.mount(el, 0)
}

// MountAll mounts every container under the document body that carries the
// identifying attribute. Containers created by nested expansion are
// mounted by their parent and skipped here.
func (r *Registry) MountAll() ([]*Target, error) {
	var mounted []*Target
	for _, el := range collectContainers(r.doc.Body()) {
		t, err := r.mount(el, 0)
		if err != nil {
			return mounted, err
		}
		mounted = append(mounted, t)
	}
	return mounted, nil
}

func (r *Registry) mount(el surface.Element, depth int) (*Target, error) {
	name := el.Key()
	if name == "" {
		return nil, fmt.Errorf("%w: missing %s attribute", ErrNoContainer, surface.NameAttr)
	}

	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}

	// Initialize: read the container's attributes into props, then strip
	// them so the output markup is inspection-safe. The driver is built
	// first; its style identity reads the identifying attribute, which the
	// strip removes along with the rest of the dataset.
	dataset := el.Dataset()
	props := CoerceDataset(dataset)
	delete(props, "target") // the identifying attribute, not a prop
	delete(props, "props")
	r.unpackProps(name, dataset, props)

	base := NewTarget(name, r.doc, el, r.cfg)
	base.Props = props

	for key := range dataset {
		el.RemoveAttribute("data-" + key)
	}
	base.Bind(factory(base))

	if r.cfg.Logger {
		Logger().Debug("mounting component",
			zap.String("name", name),
			zap.String("hash", base.Hash()),
			zap.Int("depth", depth))
	}

	base.Update()
	r.expandNested(el, depth)

	r.mu.Lock()
	r.mounted = append(r.mounted, base)
	r.mu.Unlock()
	return base, nil
}

// Mounted returns every component mounted through this registry, nested
// expansions included. Children precede their parent: a child's mount
// completes inside the parent's expansion.
func (r *Registry) Mounted() []*Target {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Target, len(r.mounted))
	copy(out, r.mounted)
	return out
}

// Teardown destroys every mounted component and forgets them. The registry
// itself stays usable for further mounts.
func (r *Registry) Teardown() {
	r.mu.Lock()
	mounted := r.mounted
	r.mounted = nil
	r.mu.Unlock()
	for _, t := range mounted {
		t.Destroy()
	}
}

// unpackProps merges the packed-props attribute, when present and intact,
// over the coerced dataset values. A bad signature or format is logged and
// ignored; the component still mounts with its plain props.
func (r *Registry) unpackProps(name string, dataset map[string]string, props map[string]any) {
	blob, ok := dataset["props"]
	if !ok || r.encoder == nil {
		return
	}
	unpacked, err := r.encoder.Unpack(blob)
	if err != nil {
		Logger().Warn("discarding packed props",
			zap.String("name", name),
			zap.Error(err))
		return
	}
	for key, value := range unpacked {
		props[key] = value
	}
}

// expandNested scans the container's rendered markup for descriptor
// attributes, creates a child container per descriptor, and mounts the
// named child component into it. This is a one-shot expansion: children do
// not re-render when the parent updates unless re-expanded.
func (r *Registry) expandNested(parent surface.Element, depth int) {
	if depth >= maxNestedDepth {
		Logger().Warn("nested expansion depth exceeded",
			zap.String("container", parent.Tag()),
			zap.Int("depth", depth))
		return
	}

	for _, match := range descriptorAttrRe.FindAllStringSubmatch(parent.HTML(), -1) {
		targets, err := encoding.DecodeDescriptors(match[1])
		if err != nil {
			Logger().Warn("skipping nested descriptors",
				zap.Error(fmt.Errorf("%w: %v", ErrDescriptorFormat, err)))
			continue
		}

		for _, name := range sortedDescriptorNames(targets) {
			desc := targets[name]
			tag := desc.Container
			if tag == "" {
				tag = "div"
			}
			child := r.doc.CreateElement(tag)
			child.SetAttribute(surface.NameAttr, name)
			if len(desc.ContainerClass) > 0 {
				child.SetAttribute("class", strings.Join(desc.ContainerClass, " "))
			}
			for _, key := range sortedDataKeys(desc.Data) {
				child.SetAttribute("data-"+key, desc.Data[key])
			}
			parent.AppendChild(child)

			if _, err := r.mount(child, depth+1); err != nil {
				Logger().Warn("nested mount failed",
					zap.String("name", name),
					zap.Error(err))
			}
		}
	}
}

// collectContainers walks the element tree for mountable containers. The
// walk snapshots children first so mounting cannot disturb iteration.
func collectContainers(root surface.Element) []surface.Element {
	var found []surface.Element
	var walk func(el surface.Element)
	walk = func(el surface.Element) {
		if el.Key() != "" {
			found = append(found, el)
			return
		}
		for _, child := range el.Children() {
			walk(child)
		}
	}
	for _, child := range root.Children() {
		walk(child)
	}
	return found
}

func sortedDescriptorNames(targets map[string]encoding.Descriptor) []string {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedDataKeys(data map[string]string) []string {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
