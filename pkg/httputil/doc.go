// Package httputil downloads remote images for layout and colour sampling.
//
// # Overview
//
//   - [Fetcher]: GET with retries, relative-URL resolution and a disk cache
//   - [Cache]: file-based cache of response bodies with a TTL
//   - [Retry]: retry with exponential backoff
//
// Scene sources are often relative paths served by the media server
// ("/Items/123/Images/Backdrop"). A Fetcher with a BaseURL resolves them
// before requesting.
//
//	f := httputil.NewFetcher(httputil.WithBaseURL("http://jellyfin:8096"))
//	data, err := f.Fetch(ctx, "/Items/123/Images/Backdrop")
//
// # Retry
//
// Network errors, 5xx responses and 429 rate limits are retried three times
// with a delay starting at one second and doubling each attempt. Other
// status codes fail at once.
//
// # Caching
//
// Bodies are stored under ~/.cache/backdrop/http/ keyed by SHA-256 of the
// absolute URL. Expired entries are refetched; the cache can be cleared with
// `backdrop cache clear`.
package httputil
