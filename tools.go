//go:build tools

package tools

// mockery v2 (v2.53.5) is used as an installed binary (not via go run), so
// no blank import is needed. Run: mockery (from the module root) to
// regenerate pkg/button/mocks from .mockery.yaml.
