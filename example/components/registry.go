package components

import "github.com/MarJC5/target"

// Register wires every component factory into the registry. Call once per
// registry before mounting.
func Register(reg *target.Registry) error {
	factories := map[string]target.Factory{
		"index-page":      NewIndexPage,
		"fluid-container": NewFluidContainer,
		"error-page":      NewErrorPage,
	}
	for name, factory := range factories {
		if err := reg.Register(name, factory); err != nil {
			return err
		}
	}
	return nil
}
