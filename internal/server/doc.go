// Package server implements the MCP (Model Context Protocol) server for the
// coin counting tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - coin_load: Load image and get metadata
//   - coin_count: Run the whole pipeline and report the total value
//   - coin_segment_marker: Normalized reference marker mask
//   - coin_segment_coins: Normalized coin mask, marker removed
//   - coin_label_regions: Coin regions in display colors, optionally over the photo
//   - coin_sample_color: RGB and HSB at a pixel
//   - coin_catalog: Coin catalogs and the gold hue cutoff
//
// # Image Caching
//
// Decoded photos and their pixel grids are cached by path for the lifetime
// of the process. Every tool call runs the pipeline stages afresh; only the
// decoding is shared.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with code
// -32000 and the Go error string as data. Malformed tools/call params get
// -32602; unknown methods get -32601.
//
// # Usage
//
//	p, err := pipeline.New(pipeline.DefaultConfig(), nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := server.New(p).Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
