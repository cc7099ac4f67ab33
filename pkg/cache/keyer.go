package cache

// Keyer builds cache keys. Every key starts with a short kind prefix
// followed by a SHA-256 of its inputs.
type Keyer interface {
	// LayoutKey identifies the result of laying out one scene.
	LayoutKey(sceneHash string, opts LayoutKeyOpts) string

	// AssetKey identifies a value derived from image content.
	AssetKey(contentHash string, opts AssetKeyOpts) string
}

// LayoutKeyOpts holds every input besides the scene that changes a layout.
type LayoutKeyOpts struct {
	ProfileID string `json:"profile_id,omitempty"`
	Width     int    `json:"width"`
	Fades     bool   `json:"fades"`
	// Settings is the engine configuration. It is hashed through its JSON
	// encoding, so any serialisable value works.
	Settings any `json:"settings,omitempty"`
	// Permissive is set when unsized images were allowed through.
	Permissive bool `json:"permissive,omitempty"`
}

// AssetKeyOpts names the derived value and the parameters it was sampled with.
type AssetKeyOpts struct {
	Kind   string `json:"kind"`
	Sample int    `json:"sample,omitempty"`
	Border int    `json:"border,omitempty"`
}

// DefaultKeyer is the Keyer used unless a caller needs scoping.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(sceneHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", sceneHash, opts)
}

// AssetKey implements Keyer.
func (DefaultKeyer) AssetKey(contentHash string, opts AssetKeyOpts) string {
	return hashKey("asset", contentHash, opts)
}
