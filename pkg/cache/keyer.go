package cache

// KeyPrefix starts every key produced by DefaultKeyer.
const KeyPrefix = "tmdlayout"

// LayoutKeyOpts holds the options that change a layout.
type LayoutKeyOpts struct {
	ProfileHash  string
	CanvasWidth  int
	CanvasHeight int
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey addresses the layout of the model with the given digest.
	LayoutKey(modelDigest string, opts LayoutKeyOpts) string
}

// DefaultKeyer produces tmdlayout:layout:<hash> keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(modelDigest string, opts LayoutKeyOpts) string {
	return hashKey(KeyPrefix+":layout", modelDigest, opts)
}

// ScopedKeyer prefixes the keys of another Keyer. The server scopes its
// keys so that API requests and CLI runs sharing one redis do not collide.
//
//	apiKeyer := cache.NewScopedKeyer(nil, "api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer returns a keyer prepending prefix to inner's keys. A nil
// inner means DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey implements Keyer.
func (k *ScopedKeyer) LayoutKey(modelDigest string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(modelDigest, opts)
}
