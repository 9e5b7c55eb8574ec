package redis

import "testing"

type testView struct {
	Code string `json:"code"`
}

func TestViewCacheKeyUsesBoundPrefix(t *testing.T) {
	cache := NewViewCache[testView](nil, "market:view:", 0)
	if got := cache.key("M-EUR"); got != "market:view:M-EUR" {
		t.Errorf("unexpected key: %s", got)
	}
}
