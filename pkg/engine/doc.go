// Package engine makes the vis-network rendering engine available to widgets,
// loading its standalone bundle at most once per process.
//
// A [Loader] moves through three states:
//
//	NotRequested ──first call──▶ Loading ──fetch ok──▶ Ready
//	      ▲                         │
//	      └──────fetch failed───────┘
//
// Callers arriving while a load is in flight attach to it instead of
// starting their own (single-flight). Once Ready, callers proceed
// immediately. A failed load is reported to every attached caller and the
// next call starts a fresh attempt.
//
// Where the bundle comes from is a [Fetcher]: [HTTPFetcher] downloads it
// from unpkg through a [cache.Cache], [FileFetcher] reads a local copy, and
// tests supply a [FetcherFunc].
package engine
