// Package client contains Cobra CLI commands for the snowflake service.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/rzbill/snowflake/pkg/snowflake"
)

// BaseURLFunc provides the base HTTP API URL (e.g., from env or flag).
type BaseURLFunc func() string

// NewIDCommand constructs the `id` command group and subcommands.
func NewIDCommand(baseURL BaseURLFunc) *cobra.Command {
	idCmd := &cobra.Command{Use: "id", Short: "ID operations"}

	idCmd.AddCommand(
		newIDNextCommand(baseURL),
		newIDMintCommand(),
		newIDParseCommand(),
	)

	return idCmd
}

// newIDNextCommand constructs `id next`, which mints IDs via the server's
// HTTP API.
func newIDNextCommand(baseURL BaseURLFunc) *cobra.Command {
	nextCmd := &cobra.Command{
		Use:   "next",
		Short: "Mint IDs from a running snowflake server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			count, _ := cmd.Flags().GetInt("count")
			client := &http.Client{Timeout: 10 * time.Second}

			if count <= 1 {
				resp, err := client.Get(baseURL() + "/v1/ids/next")
				if err != nil {
					return err
				}
				defer resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					return fmt.Errorf("server returned %s", resp.Status)
				}
				var out struct {
					ID string `json:"id"`
				}
				if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
					return err
				}
				fmt.Println(out.ID)
				return nil
			}

			body, _ := json.Marshal(map[string]int{"count": count})
			resp, err := client.Post(baseURL()+"/v1/ids", "application/json", bytes.NewReader(body))
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("server returned %s", resp.Status)
			}
			var out struct {
				IDs []string `json:"ids"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				return err
			}
			for _, id := range out.IDs {
				fmt.Println(id)
			}
			return nil
		},
	}
	nextCmd.Flags().Int("count", 1, "Number of IDs to mint (1-4096)")
	return nextCmd
}

// newIDMintCommand constructs `id mint`, which mints locally with a
// throwaway generator. Node uniqueness is the caller's problem here.
func newIDMintCommand() *cobra.Command {
	mintCmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint IDs locally without a server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			node, _ := cmd.Flags().GetUint16("node")
			epochMs, _ := cmd.Flags().GetInt64("epoch-ms")
			count, _ := cmd.Flags().GetInt("count")

			gen, err := snowflake.NewWithEpoch(node, epochMs)
			if err != nil {
				return err
			}
			for i := 0; i < count; i++ {
				id, err := gen.Next()
				if err != nil {
					return err
				}
				fmt.Println(id)
			}
			return nil
		},
	}
	mintCmd.Flags().Uint16("node", 0, "Node id (0-1023)")
	mintCmd.Flags().Int64("epoch-ms", snowflake.DefaultEpoch, "Epoch in ms since the Unix epoch")
	mintCmd.Flags().Int("count", 1, "Number of IDs to mint")
	return mintCmd
}

// newIDParseCommand constructs `id parse`, a purely local decode.
func newIDParseCommand() *cobra.Command {
	parseCmd := &cobra.Command{
		Use:   "parse <id>",
		Short: "Decode a snowflake ID into its fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			epochMs, _ := cmd.Flags().GetInt64("epoch-ms")
			id, err := snowflake.ParseString(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}
			ts, node, seq := snowflake.Parse(uint64(id))
			fmt.Printf("timestamp: %d\n", ts)
			fmt.Printf("node:      %d\n", node)
			fmt.Printf("sequence:  %d\n", seq)
			fmt.Printf("time:      %s\n", id.Time(epochMs).UTC().Format(time.RFC3339Nano))
			return nil
		},
	}
	parseCmd.Flags().Int64("epoch-ms", snowflake.DefaultEpoch, "Epoch the ID was minted against")
	return parseCmd
}
