// Package images turns image URLs found in chat lines into embeddable
// images.
//
// A [Resolver] filters URLs by path extension, downloads them through a
// [Fetcher] under a byte cap and timeout, sniffs the payload type from its
// bytes, reads the pixel dimensions and transcodes formats a PDF cannot hold
// natively (WebP, BMP, TIFF) to PNG. Every failure is reported as "no image"
// so the caller can print the URL as text instead.
//
// Fetching is an interface so tests and the optional response cache
// ([CachedFetcher]) can stand in for the network.
package images
