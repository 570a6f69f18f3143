// Package domain contains the core concepts of the render gateway.
// Keep this package free of transport (HTTP) and infrastructure (Chrome) concerns.
package domain

// RenderRequest is a single HTML to PDF job. It is never mutated after decoding.
type RenderRequest struct {
	HTML             string `json:"html"`
	CSS              string `json:"css"`
	Format           string `json:"format"`
	PageMarginTop    string `json:"pageMarginTop"`
	PageMarginBottom string `json:"pageMarginBottom"`
	PageMarginLeft   string `json:"pageMarginLeft"`
	PageMarginRight  string `json:"pageMarginRight"`
}
