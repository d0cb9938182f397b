package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/MarJC5/target"
	"github.com/MarJC5/target/example/components"
	"github.com/MarJC5/target/lib/surface"
)

// signingKey protects packed props. Use a real secret in production.
var signingKey = []byte("example-key-must-be-32-bytes!!")

type app struct {
	cfg *target.Config
}

func main() {
	cfg, err := target.LoadConfig("config.yaml")
	if err != nil {
		log.Fatal(err)
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://jsonplaceholder.typicode.com"
	}

	if cfg.Logger {
		zl, err := zap.NewDevelopment()
		if err != nil {
			log.Fatal(err)
		}
		target.SetLogger(zl)
	}

	a := &app{cfg: cfg}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", a.handleIndex)
	r.Get("/posts/{id}", a.handlePost)
	r.NotFound(a.handleNotFound)

	addr := ":8080"
	fmt.Printf("Listening on http://localhost%s\n", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal(err)
	}
}

// handleIndex mounts the fluid container, which declares the index page as
// a nested descriptor.
func (a *app) handleIndex(w http.ResponseWriter, r *http.Request) {
	a.serve(w, "fluid-container", nil)
}

// handlePost mounts the index page directly with the post ID as a prop.
func (a *app) handlePost(w http.ResponseWriter, r *http.Request) {
	a.serve(w, "index-page", map[string]string{
		"data-post": chi.URLParam(r, "id"),
	})
}

func (a *app) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	a.serve(w, "error-page", nil)
}

// serve runs one full bootstrap cycle on a fresh document: build the
// container, register and mount everything, wait for mount fetches to
// settle, and write the rendered document.
func (a *app) serve(w http.ResponseWriter, name string, attrs map[string]string) {
	doc := surface.New()
	container := doc.CreateElement("div")
	container.SetAttribute(surface.NameAttr, name)
	for key, value := range attrs {
		container.SetAttribute(key, value)
	}
	doc.Body().AppendChild(container)

	reg := target.NewRegistry(doc, a.cfg, signingKey)
	if err := components.Register(reg); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	defer reg.Teardown()
	if _, err := reg.MountAll(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	for _, t := range reg.Mounted() {
		if s := t.Session(); s != nil {
			s.Wait()
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, doc.HTML())
}
