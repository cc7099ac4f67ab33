package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one store without seeing each other's entries.
//
// Example usage:
//
//	// Keys for the staging server
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "backdrop:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(sceneHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(sceneHash, opts)
}

// AssetKey generates a prefixed key for derived asset values.
func (k *ScopedKeyer) AssetKey(contentHash string, opts AssetKeyOpts) string {
	return k.prefix + k.inner.AssetKey(contentHash, opts)
}
