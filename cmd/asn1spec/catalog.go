// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/asn1spec/internal/catalog"
	"github.com/pdiddy/asn1spec/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the block catalog (index, retrieve, export)",
	Long: `Catalog manages a local SQLite index of split ASN.1 definitions.
Use subcommands to ingest block files, query them by full-text search or
name, or export the catalog.`,
}

// --- index subcommand ---

var catalogIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Ingest split block files into the catalog",
	Long: `Index reads block files from the blocks directory, ingests them into
a SQLite database with FTS5 indexing, and writes an export file. Unchanged
blocks are skipped on subsequent runs.`,
	RunE: runCatalogIndex,
}

func runCatalogIndex(cmd *cobra.Command, args []string) error {
	store, err := catalog.NewStore(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d block(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- retrieve subcommand ---

var catalogRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Query the catalog with full-text search and filters",
	Long: `Retrieve searches the catalog using FTS5 full-text search over block
names and content, structured filters (name prefix, source), or a
combination of both.

Use --id with a block ID to print that block's full content.`,
	RunE: runCatalogRetrieve,
}

func runCatalogRetrieve(cmd *cobra.Command, args []string) error {
	blockID, _ := cmd.Flags().GetString("id")

	store, err := catalog.NewStore(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	// ID mode: print the block content verbatim.
	if blockID != "" {
		blk, err := store.Get(context.Background(), blockID)
		if err != nil {
			return err
		}
		fmt.Print(blk.Content)
		return nil
	}

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --name, or --source")
	}

	results, err := store.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRetrieveOutput(os.Stdout, results, jsonOutput, opts.Query != "")
}

// formatRetrieveOutput renders results as JSON or a table. The rank column
// only appears for full-text queries, where row order reflects relevance;
// structured queries are sorted by name and a rank would be meaningless.
func formatRetrieveOutput(w io.Writer, results []types.Block, jsonOutput, ranked bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	if ranked {
		fmt.Fprintf(w, "%-4s  %-12s  %-50s  %-12s  %s\n",
			"Rank", "ID", "Name", "Source", "Lines")
		fmt.Fprintln(w, strings.Repeat("-", 92))
	} else {
		fmt.Fprintf(w, "%-12s  %-50s  %-12s  %s\n",
			"ID", "Name", "Source", "Lines")
		fmt.Fprintln(w, strings.Repeat("-", 86))
	}

	for i, blk := range results {
		name := blk.Name
		if len(name) > 50 {
			name = name[:47] + "..."
		}
		if ranked {
			fmt.Fprintf(w, "%-4d  %-12s  %-50s  %-12s  %d\n",
				i+1, blk.ID, name, blk.Source, blk.LineCount)
		} else {
			fmt.Fprintf(w, "%-12s  %-50s  %-12s  %d\n",
				blk.ID, name, blk.Source, blk.LineCount)
		}
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML or JSON",
	Long: `Export writes the full catalog (or a filtered subset) to export.yaml
or export.json in the catalog directory. Supports the same filter flags
as retrieve for partial exports.`,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	cfg := catalogConfig(cmd)
	store, err := catalog.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background(), opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/export.yaml\n", cfg.CatalogDir)
	case "json":
		if err := store.ExportJSON(context.Background(), opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/export.json\n", cfg.CatalogDir)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

// --- shared helpers ---

func catalogConfig(cmd *cobra.Command) types.CatalogConfig {
	catalogDir, _ := cmd.Flags().GetString("catalog-dir")
	if catalogDir == "" {
		catalogDir = "catalog"
	}
	blocksDir, _ := cmd.Flags().GetString("blocks-dir")
	if blocksDir == "" {
		blocksDir = "blocks"
	}
	source, _ := cmd.Flags().GetString("source")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return types.CatalogConfig{
		CatalogDir: catalogDir,
		BlocksDir:  blocksDir,
		Source:     source,
		MaxResults: maxResults,
	}
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) catalog.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	name, _ := cmd.Flags().GetString("name")
	filterSource, _ := cmd.Flags().GetString("filter-source")
	limit, _ := cmd.Flags().GetInt("limit")

	return catalog.QueryOptions{
		Query:      queryText,
		Name:       name,
		Source:     filterSource,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	catalogCmd.PersistentFlags().String("catalog-dir", "catalog", "directory for catalog.db and export files")
	catalogCmd.PersistentFlags().String("blocks-dir", "blocks", "directory of split block files to ingest")
	catalogCmd.PersistentFlags().String("source", "", "specification version label for ingested blocks (default: blocks dir base name)")
	catalogCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")

	// Retrieve flags.
	catalogRetrieveCmd.Flags().String("query", "", "full-text search query")
	catalogRetrieveCmd.Flags().String("name", "", "filter by block name prefix")
	catalogRetrieveCmd.Flags().String("filter-source", "", "filter by specification version")
	catalogRetrieveCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	catalogRetrieveCmd.Flags().String("id", "", "print the full content of a block ID")
	catalogRetrieveCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	catalogExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	catalogExportCmd.Flags().String("name", "", "filter by block name prefix for partial export")
	catalogExportCmd.Flags().String("filter-source", "", "filter by specification version for partial export")
	catalogExportCmd.Flags().Int("limit", 0, "maximum blocks to export (0 = all)")

	// Wire subcommands.
	catalogCmd.AddCommand(catalogIndexCmd)
	catalogCmd.AddCommand(catalogRetrieveCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
