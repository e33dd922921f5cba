package numtext

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of phrase results a Converter keeps
// unless WithCacheSize says otherwise.
const DefaultCacheSize = 1024

// phraseResult is a memoized parsePhrase outcome.
type phraseResult struct {
	value int64
	ok    bool
}

// phraseCache memoizes phrase → value lookups made while growing scan
// windows. A nil *phraseCache is valid and caches nothing. Entries are pure
// functions of their key, so concurrent population can at worst recompute.
type phraseCache struct {
	lru *lru.Cache[string, phraseResult]
}

// newPhraseCache returns a cache bounded to size entries, or nil when
// size <= 0.
func newPhraseCache(size int) *phraseCache {
	if size <= 0 {
		return nil
	}
	c, err := lru.New[string, phraseResult](size)
	if err != nil {
		return nil
	}
	return &phraseCache{lru: c}
}

// parse returns the memoized parsePhrase result for phrase.
func (pc *phraseCache) parse(phrase string) (int64, bool) {
	if pc == nil {
		return parsePhrase(phrase)
	}
	if r, ok := pc.lru.Get(phrase); ok {
		return r.value, r.ok
	}
	v, ok := parsePhrase(phrase)
	pc.lru.Add(phrase, phraseResult{value: v, ok: ok})
	return v, ok
}

// len reports the number of cached phrases.
func (pc *phraseCache) len() int {
	if pc == nil {
		return 0
	}
	return pc.lru.Len()
}
