// Package nexus talks to the Nexus Mods v1 API.
//
// The package handles two concerns:
//
//  1. Normalizing game names from Wabbajack manifests or user input into
//     the game domain slugs the API expects
//  2. Resolving a (game, mod, file) triple into a temporary signed
//     download URI
//
// # Domain normalization
//
//	nexus.NormalizeDomain("SkyrimSE")     // "skyrimspecialedition"
//	nexus.NormalizeDomain("unknown_game") // "unknown_game"
//
// # Link resolution
//
//	client := nexus.NewClient("https://api.nexusmods.com", apiKey, 60*time.Second, logger)
//	uri, err := client.ResolveLink(ctx, req)
//	if errors.Is(err, model.ErrNoLinks) {
//	    // API responded but offered nothing to download
//	}
//
// The API returns a JSON array of mirror candidates; the client prefers
// the Nexus CDN, then explicitly "direct" mirrors, then anything with a
// URI. All failures come back wrapped in the model error kinds so the
// orchestrator can skip the item and continue the batch.
package nexus
