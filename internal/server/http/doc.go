// Package httpserver provides a minimal REST surface over the snowflake
// generator: minting single IDs or batches, parsing IDs, and health.
//
// Example:
//
//	gen, _ := snowflake.New(1)
//	s := httpserver.New(gen, logger)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":8080")
package httpserver
