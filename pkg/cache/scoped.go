package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one store without seeing each other's entries.
//
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// DefaultKeyer; an empty prefix returns inner unchanged.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	if prefix == "" {
		return inner
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(notationHash string, opts ArtifactKeyOpts) (string, error) {
	key, err := k.inner.ArtifactKey(notationHash, opts)
	if err != nil {
		return "", err
	}
	return k.prefix + key, nil
}
