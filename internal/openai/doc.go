// Package openai generates poster artwork through the OpenAI HTTP API.
//
// Two endpoints are used:
//
//   - /v1/chat/completions to look up an artist's genre and mood
//   - /v1/images/generations to render the poster background
//
// Requests go through the shared internal/http client. Wire types live in
// the dto subpackage.
//
// # Flow
//
//	profile, err := client.QueryArtist(ctx, event.Artist)
//	url, err := client.GenerateImage(ctx, openai.Prompt(profile, event))
//
// A missing API key fails every call with ErrMissingAPIKey before any
// request is sent.
package openai
