// Package proxydetect discovers the effective proxy configuration for the
// current machine and user by querying several independent configuration
// sources and selecting exactly one according to a fixed precedence.
//
// Sources are probed in order: administrative registry override, update-dev
// override, device-management policy, group policy, the OS network-stack
// default, the per-user proxy store (WPAD, PAC URL, named proxy), and
// optionally the browser configuration file and process environment.
//
// Key features:
//   - Fixed-precedence detector chain; first applicable source wins
//   - Policy detection shared between group-policy and device-management
//     backends (one algorithm, two data sources)
//   - Firefox prefs.js parsing with a modification-time staleness cache
//   - No network access: the package only discovers configuration, it never
//     evaluates PAC scripts or connects through the discovered proxy
//
// Basic usage:
//
//	chain, err := proxydetect.NewSystemChain()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg, err := chain.Resolve()
//	if err != nil {
//	    // no source is configured; use a direct connection
//	}
package proxydetect
