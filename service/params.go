package service

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"tarkovapi/repository"
	"tarkovapi/utils"
)

const (
	DefaultLimit       = 30
	DefaultPlayerLevel = 99
	AnyFilter          = "any"
	DescendingMarker   = "-"
)

// ItemQueryParams are the effective item query parameters. Two requests that
// resolve to the same params share a cache entry.
type ItemQueryParams struct {
	Search    string
	SortBy    repository.ItemSortField
	Ascending bool
	Type      string
	Limit     int
	Offset    int
}

type TaskQueryParams struct {
	Search              string
	KappaRequired       bool
	LightkeeperRequired bool
	PlayerLevel         int
	ObjectiveType       string
	Trader              string
	ExcludedIds         []string
	Limit               int
	Offset              int
}

// nonNegative parses a non-negative integer and falls back to def for
// anything else.
func nonNegative(value string, def int) int {
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func filterValue(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, AnyFilter) {
		return ""
	}
	return value
}

func clampLimit(limit int, maxLimit int) int {
	if limit == 0 {
		return DefaultLimit
	}
	return utils.Clamp(limit, 1, maxLimit)
}

// ParseItemQueryParams never fails: unusable values are replaced by their
// defaults. An absent asc means descending, an empty one ascending.
func ParseItemQueryParams(query url.Values, maxLimit int) ItemQueryParams {
	sortBy := repository.ItemSortField(query.Get("sortBy"))
	if !repository.IsItemSortField(string(sortBy)) {
		sortBy = repository.SortBestFleaPrice
	}
	ascending := false
	if values, ok := query["asc"]; ok && len(values) > 0 {
		ascending = values[0] != DescendingMarker
	}
	return ItemQueryParams{
		Search:    strings.TrimSpace(query.Get("search")),
		SortBy:    sortBy,
		Ascending: ascending,
		Type:      strings.ToLower(filterValue(query.Get("type"))),
		Limit:     clampLimit(nonNegative(query.Get("limit"), DefaultLimit), maxLimit),
		Offset:    nonNegative(query.Get("offset"), 0),
	}
}

func (p ItemQueryParams) CacheKey() string {
	return fmt.Sprintf("search=%q|sort=%q|asc=%t|type=%q|limit=%d|offset=%d",
		strings.ToLower(p.Search), p.SortBy, p.Ascending, p.Type, p.Limit, p.Offset)
}

func (p ItemQueryParams) toQuery() repository.ItemQuery {
	return repository.ItemQuery{
		Search:    p.Search,
		SortBy:    p.SortBy,
		Ascending: p.Ascending,
		Type:      p.Type,
		Limit:     p.Limit,
		Offset:    p.Offset,
	}
}

func parseBool(value string) bool {
	b, err := strconv.ParseBool(value)
	return err == nil && b
}

func ParseTaskQueryParams(query url.Values, maxLimit int) TaskQueryParams {
	return TaskQueryParams{
		Search:              strings.TrimSpace(query.Get("search")),
		KappaRequired:       parseBool(query.Get("isKappa")),
		LightkeeperRequired: parseBool(query.Get("isLightKeeper")),
		PlayerLevel:         nonNegative(query.Get("playerLvl"), DefaultPlayerLevel),
		ObjectiveType:       strings.ToLower(filterValue(query.Get("objType"))),
		Trader:              strings.ToLower(filterValue(query.Get("trader"))),
		ExcludedIds:         utils.SortedUniques(query["ids"]),
		Limit:               clampLimit(nonNegative(query.Get("limit"), DefaultLimit), maxLimit),
		Offset:              nonNegative(query.Get("offset"), 0),
	}
}

// CacheKey quotes every free-form value, so ids containing the separator
// cannot collide with a longer id list.
func (p TaskQueryParams) CacheKey() string {
	return fmt.Sprintf("search=%q|kappa=%t|lk=%t|lvl=%d|obj=%q|trader=%q|limit=%d|offset=%d|ids=%q",
		strings.ToLower(p.Search), p.KappaRequired, p.LightkeeperRequired, p.PlayerLevel,
		p.ObjectiveType, p.Trader, p.Limit, p.Offset, p.ExcludedIds)
}

func (p TaskQueryParams) toQuery() repository.TaskQuery {
	return repository.TaskQuery{
		Search:              p.Search,
		KappaRequired:       p.KappaRequired,
		LightkeeperRequired: p.LightkeeperRequired,
		MaxPlayerLevel:      p.PlayerLevel,
		ObjectiveType:       p.ObjectiveType,
		Trader:              p.Trader,
		ExcludedIds:         p.ExcludedIds,
		Limit:               p.Limit,
		Offset:              p.Offset,
	}
}
