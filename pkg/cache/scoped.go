package cache

// ScopedKeyer prefixes every key produced by an inner Keyer, so entries
// written under an older payload layout are never read back.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(max), "v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer falls back
// to a DefaultKeyer without a byte cap.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer(0)
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ImageKey implements Keyer.
func (k *ScopedKeyer) ImageKey(url string) string {
	return k.prefix + k.inner.ImageKey(url)
}
