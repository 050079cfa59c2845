// Package shaders embeds the default WGSL sources.
package shaders

import (
	_ "embed"
)

// Triangle is the default triangle shader. Its vertex entry point is
// "main_vs" and its fragment entry point is "main_fs".
//
//go:embed triangle.wgsl
var Triangle string
