package components

import (
	"fmt"

	"github.com/MarJC5/target"
	"github.com/MarJC5/target/lib/encoding"
)

// FluidContainer is a layout component: it renders a shell and declares
// its children as nested component descriptors, which the registry expands
// and mounts after the shell is written.
type FluidContainer struct {
	*target.Target
}

func NewFluidContainer(base *target.Target) target.Renderer {
	return &FluidContainer{Target: base}
}

func (c *FluidContainer) TargetWillMount() {
	c.Styles().AddStyle("fluid", target.Rules{
		".fluid": "display: flex; flex-direction: column; gap: 1rem;",
	}, true)
}

func (c *FluidContainer) Render() string {
	post := 1
	if id, ok := c.Props["post"].(int); ok {
		post = id
	}

	nested, err := encoding.EncodeDescriptors(map[string]encoding.Descriptor{
		"index-page": {
			Container:      "main",
			ContainerClass: []string{"fluid-slot"},
			Data:           map[string]string{"post": fmt.Sprintf("%d", post)},
		},
	})
	if err != nil {
		return target.ScopeClassNames(`<div class="fluid"></div>`, c.Hash())
	}

	html := fmt.Sprintf(`<div class="fluid" %s="%s"></div>`, encoding.DescriptorAttr, nested)
	return target.ScopeClassNames(html, c.Hash())
}
