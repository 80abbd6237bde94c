package pkg

import (
	"testing"

	"github.com/kcmvp/archunit"
)

func TestCoreDoesNotReferBackends(t *testing.T) {
	core := archunit.Packages("core", []string{
		".../pkg/color/...",
		".../pkg/effect/...",
		".../pkg/light/...",
	})

	outer := map[string][]string{
		"backends": {".../pkg/serialled/...", ".../pkg/hexled/...", ".../pkg/magichome/..."},
		"fleet":    {".../pkg/fleet/..."},
		"surfaces": {".../pkg/api/...", ".../pkg/mcp/..."},
		"storage":  {".../pkg/db/...", ".../pkg/keyval/..."},
	}
	for name, paths := range outer {
		if err := core.ShouldNotReferLayers(archunit.Packages(name, paths)); err != nil {
			t.Errorf("core depends on %s: %v", name, err)
		}
	}
}

func TestBackendsDoNotReferEachOther(t *testing.T) {
	backends := map[string]string{
		"serialled": ".../pkg/serialled/...",
		"hexled":    ".../pkg/hexled/...",
		"magichome": ".../pkg/magichome/...",
	}
	for name, path := range backends {
		layer := archunit.Packages(name, []string{path})
		for other, otherPath := range backends {
			if other == name {
				continue
			}
			if err := layer.ShouldNotReferLayers(archunit.Packages(other, []string{otherPath})); err != nil {
				t.Errorf("%s depends on %s: %v", name, other, err)
			}
		}
	}
}

func TestSurfacesUseFleet(t *testing.T) {
	fleet := archunit.Packages("fleet", []string{".../pkg/fleet"})
	if len(fleet.Packages()) == 0 {
		t.Error("No fleet package found")
	}

	// The fleet is the only layer that knows concrete backends besides the
	// startup wiring.
	surfaces := archunit.Packages("surfaces", []string{".../pkg/api/...", ".../pkg/mcp/..."})
	backends := archunit.Packages("backends", []string{".../pkg/serialled/...", ".../pkg/hexled/...", ".../pkg/magichome/..."})
	if err := surfaces.ShouldNotReferLayers(backends); err != nil {
		t.Errorf("surfaces depend on backends: %v", err)
	}
}
