package components

import (
	"fmt"

	"github.com/MarJC5/target"
)

const (
	indexLoadingTemplate = `<div class="index"><p class="hint">Loading latest post…</p></div>`

	indexErrorTemplate = `<div class="index"><p class="hint">Could not load the post: {{error}}</p></div>`

	indexTemplate = `<div class="index">
	<h1 class="title">{{title}}</h1>
	<div class="body">{{content}}</div>
	<p class="hint">Post #{{id}} for user {{userId}}</p>
</div>`
)

// IndexPage fetches a post from the configured API on mount and renders
// its loading, error, or success branch depending on fetch state.
type IndexPage struct {
	*target.Target
}

// NewIndexPage builds an IndexPage around its lifecycle driver. The post
// ID comes from the container's data-post attribute, defaulting to 1.
func NewIndexPage(base *target.Target) target.Renderer {
	p := &IndexPage{Target: base}

	post := 1
	if id, ok := p.Props["post"].(int); ok {
		post = id
	}
	p.UseAPI(target.APIDescriptor{
		URL:      p.Config().API.BaseURL,
		Endpoint: fmt.Sprintf("/posts/%d", post),
	})
	return p
}

func (p *IndexPage) TargetWillMount() {
	p.Styles().AddStyle("index", target.Rules{
		".index": "max-width: 640px; margin: 0 auto;",
		".title": "font-size: 1.5rem; margin-bottom: 0.5rem;",
		".hint":  "color: #667;",
		"@media (max-width: 640px)": target.Rules{
			".index": "padding: 0 1rem;",
		},
	}, true)
}

func (p *IndexPage) TargetDidUpdate() {
	if p.StateBool("fetched") && !p.StateBool("loading") {
		if post, ok := p.post(); ok {
			if title, ok := post["title"].(string); ok {
				p.SetTitle(title)
			}
		}
	}
}

func (p *IndexPage) Render() string {
	if p.StateBool("loading") {
		return p.scoped(target.RenderTemplate(indexLoadingTemplate, nil))
	}
	if msg, ok := p.StateValue("error"); ok && msg != nil {
		return p.scoped(target.RenderTemplate(indexErrorTemplate, map[string]any{
			"error": msg,
		}))
	}

	placeholders := p.Placeholders()
	if post, ok := p.post(); ok {
		for key, value := range post {
			if key == "body" {
				placeholders["content"] = value
				continue
			}
			placeholders[key] = value
		}
	}
	return p.scoped(target.RenderTemplate(indexTemplate, placeholders))
}

// post returns the fetched payload as an object, when it is one.
func (p *IndexPage) post() (map[string]any, bool) {
	value, _ := p.StateValue("data")
	post, ok := value.(map[string]any)
	return post, ok
}

func (p *IndexPage) scoped(html string) string {
	return target.ScopeClassNames(html, p.Hash())
}
