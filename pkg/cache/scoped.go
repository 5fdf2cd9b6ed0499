package cache

// ScopedKeyer prefixes every key of an inner Keyer, so several deployments
// can share one Redis database:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "xbar:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, which defaults to DefaultKeyer when nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// PlanKey implements Keyer.
func (k *ScopedKeyer) PlanKey(terminals int, format string) string {
	return k.prefix + k.inner.PlanKey(terminals, format)
}
