// Package utils provides shared low-level helpers for the provider clients.
//
// [DoPostSync] performs one JSON round-trip and classifies every failure into
// the [ai.ProviderError] taxonomy; [VendorErrorMessage] turns a vendor error
// body (JSON envelope or HTML page) into a short readable description.
// [TruncateString] and [TruncateRunes] are rune-safe string shorteners.
package utils
