package service

import (
	"net/url"
	"tarkovapi/repository"
	"testing"

	"github.com/stretchr/testify/assert"
)

func query(raw string) url.Values {
	values, _ := url.ParseQuery(raw)
	return values
}

func TestParseItemQueryParamsDefaults(t *testing.T) {
	params := ParseItemQueryParams(url.Values{}, 100)
	assert.Equal(t, ItemQueryParams{
		SortBy:    repository.SortBestFleaPrice,
		Ascending: false,
		Limit:     DefaultLimit,
	}, params)
}

func TestParseItemQueryParamsIsPermissive(t *testing.T) {
	params := ParseItemQueryParams(query("sortBy=nonsense&limit=abc&offset=-4&type=ANY&asc="), 100)
	assert.Equal(t, repository.SortBestFleaPrice, params.SortBy)
	assert.Equal(t, DefaultLimit, params.Limit)
	assert.Equal(t, 0, params.Offset)
	assert.Equal(t, "", params.Type)
	assert.True(t, params.Ascending)

	params = ParseItemQueryParams(query("sortBy=basePrice&asc=-&type=Meds&limit=100000&offset=40"), 100)
	assert.Equal(t, repository.SortBasePrice, params.SortBy)
	assert.False(t, params.Ascending)
	assert.Equal(t, "meds", params.Type)
	assert.Equal(t, 100, params.Limit, "limit is clamped to the configured maximum")
	assert.Equal(t, 40, params.Offset)
}

func TestEquivalentItemQueriesShareACacheKey(t *testing.T) {
	a := ParseItemQueryParams(query("type=any&limit=abc&sortBy=unknown"), 100)
	b := ParseItemQueryParams(query("sortBy=fleaMarket&limit=30&offset=0"), 100)
	assert.Equal(t, a.CacheKey(), b.CacheKey())

	c := ParseItemQueryParams(query("sortBy=fleaMarket&limit=31"), 100)
	assert.NotEqual(t, a.CacheKey(), c.CacheKey())
}

func TestParseTaskQueryParams(t *testing.T) {
	params := ParseTaskQueryParams(query("isKappa=true&isLightKeeper=yes&playerLvl=x&objType=Shoot&trader=any&ids=b&ids=a&ids=b&limit=500"), 150)
	assert.True(t, params.KappaRequired)
	assert.False(t, params.LightkeeperRequired)
	assert.Equal(t, DefaultPlayerLevel, params.PlayerLevel)
	assert.Equal(t, "shoot", params.ObjectiveType)
	assert.Equal(t, "", params.Trader)
	assert.Equal(t, []string{"a", "b"}, params.ExcludedIds)
	assert.Equal(t, 150, params.Limit)

	reordered := ParseTaskQueryParams(query("ids=a&ids=b&isKappa=TRUE&objType=shoot&limit=500&playerLvl=99"), 150)
	assert.Equal(t, params.CacheKey(), reordered.CacheKey())
}

func TestParseRecordCount(t *testing.T) {
	assert.Equal(t, DefaultRecordCount, ParseRecordCount(""))
	assert.Equal(t, DefaultRecordCount, ParseRecordCount("many"))
	assert.Equal(t, 1, ParseRecordCount("0"))
	assert.Equal(t, MaxRecordCount, ParseRecordCount("5000"))
}

func TestExcludedIdsWithSeparatorGetTheirOwnCacheKey(t *testing.T) {
	literal := ParseTaskQueryParams(query("ids=a,b"), 100)
	split := ParseTaskQueryParams(query("ids=a&ids=b"), 100)
	assert.Equal(t, []string{"a,b"}, literal.ExcludedIds)
	assert.NotEqual(t, literal.CacheKey(), split.CacheKey())

	trader := ParseTaskQueryParams(query("trader=a|obj=b"), 100)
	objType := ParseTaskQueryParams(query("trader=a&objType=b"), 100)
	assert.NotEqual(t, trader.CacheKey(), objType.CacheKey())
}
