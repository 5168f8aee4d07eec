// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for mediagrab: the extraction
// request and result model, the user's selection, and component configuration.
package types
