package cachestore

// Cache key namespaces. Prefixed rows map one-to-one onto outputs on
// disk; scalar keys hold run-level digests.
const (
	// PostHashPrefix keys per-post digests by permalink.
	PostHashPrefix = "post:"

	// TagIndexPrefix keys tag-page payload digests by tag slug.
	TagIndexPrefix = "tag_index:"

	// ArchiveYearPrefix keys year archive payload digests by YYYY.
	ArchiveYearPrefix = "archive_year:"

	// ArchiveMonthPrefix keys month archive payload digests by YYYY-MM.
	ArchiveMonthPrefix = "archive_month:"

	// HomePagesKey holds the JSON-encoded StoredPage records.
	HomePagesKey = "home_pages"

	// SiteInputsKey holds the combined config+templates digest.
	SiteInputsKey = "site_inputs_hash"

	// StaticHashKey holds the skel/ tree digest.
	StaticHashKey = "static_hash"

	// ThemeAssetHashKey holds the active theme's asset tree digest.
	ThemeAssetHashKey = "theme_asset_hash"

	// SearchIndexKey holds the search artifact digest.
	SearchIndexKey = "search_index_hash"
)
