package schema

import (
	"github.com/authzed/graphplanner/internal/logging"
	"github.com/authzed/graphplanner/pkg/cache"
)

// CachingReader memoizes property listings of an underlying Reader. Not-found results are never
// cached, so a type created after a miss becomes visible on the next lookup.
type CachingReader struct {
	delegate Reader
	props    cache.Cache[cache.StringKey, []PropDef]
}

var _ Reader = (*CachingReader)(nil)

// NewCachingReader wraps delegate with a properties cache. A nil props cache disables caching.
func NewCachingReader(delegate Reader, props cache.Cache[cache.StringKey, []PropDef]) *CachingReader {
	if props == nil {
		props = cache.NoopCache[cache.StringKey, []PropDef]()
	}
	return &CachingReader{delegate: delegate, props: props}
}

func (cr *CachingReader) LookupSpace(space string) (SpaceInfo, error) {
	return cr.delegate.LookupSpace(space)
}

func (cr *CachingReader) ListTags(space string) ([]string, error) {
	return cr.delegate.ListTags(space)
}

func (cr *CachingReader) ListEdges(space string) ([]string, error) {
	return cr.delegate.ListEdges(space)
}

func (cr *CachingReader) TagProps(space, tag string) ([]PropDef, error) {
	return cr.cached(kindTag, space, tag, cr.delegate.TagProps)
}

func (cr *CachingReader) EdgeProps(space, edge string) ([]PropDef, error) {
	return cr.cached(kindEdge, space, edge, cr.delegate.EdgeProps)
}

func (cr *CachingReader) cached(kind typeKind, space, name string, load func(string, string) ([]PropDef, error)) ([]PropDef, error) {
	key := cache.StringKey(string(kind) + "/" + space + "/" + name)
	if found, ok := cr.props.Get(key); ok {
		return append([]PropDef(nil), found...), nil
	}

	logging.Trace().Str("kind", string(kind)).Str("space", space).Str("name", name).Msg("schema properties cache miss")
	loaded, err := load(space, name)
	if err != nil {
		return nil, err
	}
	cr.props.Set(key, loaded, int64(len(loaded)+1))
	return append([]PropDef(nil), loaded...), nil
}
