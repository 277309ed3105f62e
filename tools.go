//go:build tools

package tools

// Tool dependencies, tracked as blank imports so `go mod tidy` keeps them.
// Regenerate mocks with: go run github.com/vektra/mockery/v2 (from hygro-go/).
import (
	_ "github.com/vektra/mockery/v2"
)
