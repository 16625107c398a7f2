package assets

import (
	"fmt"
	"strings"
)

// AssetLoadError wraps a failure to read, decode, or upload one asset.
type AssetLoadError struct {
	Kind   Kind
	Source string
	Err    error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("load %s %s: %v", e.Kind, e.Source, e.Err)
}

func (e *AssetLoadError) Unwrap() error { return e.Err }

// ManifestError lists every malformed entry of a manifest.
type ManifestError struct {
	Path     string
	Problems []string
	Err      error
}

func (e *ManifestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("manifest %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("manifest %s: %s", e.Path, strings.Join(e.Problems, "; "))
}

func (e *ManifestError) Unwrap() error { return e.Err }
