package components

import "github.com/MarJC5/target"

const errorTemplate = `<div class="error">
	<h1 class="code">{{code}}</h1>
	<p class="message">{{message}}</p>
</div>`

// ErrorPage is a static page rendered from props alone; no state, no
// fetch, no hooks beyond styling.
type ErrorPage struct {
	*target.Target
}

func NewErrorPage(base *target.Target) target.Renderer {
	p := &ErrorPage{Target: base}
	if _, ok := p.Props["code"]; !ok {
		p.Props["code"] = 404
	}
	if _, ok := p.Props["message"]; !ok {
		p.Props["message"] = "Page not found"
	}
	return p
}

func (p *ErrorPage) TargetWillMount() {
	p.Styles().AddStyle("error", target.Rules{
		".error":   "text-align: center; padding: 4rem 0;",
		".code":    "font-size: 3rem; margin: 0;",
		".message": "color: #667;",
	}, true)
}

func (p *ErrorPage) Render() string {
	html := target.RenderTemplate(errorTemplate, p.Placeholders())
	return target.ScopeClassNames(html, p.Hash())
}
