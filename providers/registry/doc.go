// Package registry builds the vendor client for every provider in the
// [ai] catalog and hands them out by identifier.
//
//	reg := registry.New(registry.WithBaseURL(ai.ProviderGemini, server.URL))
//	resp, err := reg.Client(ai.ProviderGemini).SendMessage(ctx, req)
package registry
