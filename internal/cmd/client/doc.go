// Package client provides the `snowflake` command-line client.
//
// The CLI talks to the snowflake HTTP endpoint to mint IDs from a terminal,
// and can also mint and decode IDs locally.
//
// # Address configuration
//
// The HTTP base URL is discovered by the application that embeds the
// commands via a BaseURLFunc. When using the standalone binary, it reads
// SNOWFLAKE_HTTP and defaults to http://127.0.0.1:8080.
//
// Usage
//
//	snowflake id next
//	snowflake id next --count 100
//
//	# Local minting; node uniqueness is on you
//	snowflake id mint --node 3 --count 5
//
//	# Decode an ID (timestamp is epoch-relative; pass --epoch-ms to resolve)
//	snowflake id parse 146124973860659200
package client
