package cmd

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/jorin/whenfree/internal/server"
)

func newGenerateDocsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate markdown documentation for all available MCP tools.
The tool definitions are introspected from the live registry, so the
output always matches what the server actually exposes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateDocs(outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runGenerateDocs(outputFile string) error {
	// Doc generation never talks to Google, so no credentials are needed.
	sc, err := server.NewServerContext(context.Background())
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		_ = sc.Shutdown()
	}()

	mcpSrv := mcpserver.NewMCPServer("whenfree", version,
		mcpserver.WithToolCapabilities(true),
	)

	// Register with writes enabled so write tools show up in the docs.
	if err := registerAllTools(mcpSrv, sc, false); err != nil {
		return err
	}

	tools := make([]mcp.Tool, 0)
	for _, st := range mcpSrv.ListTools() {
		tools = append(tools, st.Tool)
	}

	markdown := renderToolsMarkdown(tools)

	if outputFile == "" {
		fmt.Print(markdown)
		return nil
	}
	if err := os.WriteFile(outputFile, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Documentation written to: %s\n", outputFile)
	return nil
}

// toolCategory buckets a tool by its name prefix, e.g. calendar_find_slots
// lands under "Calendar Tools".
func toolCategory(name string) string {
	prefix, _, _ := strings.Cut(name, "_")
	switch prefix {
	case "calendar":
		return "Calendar Tools"
	case "google":
		return "Authentication Tools"
	default:
		return "Other"
	}
}

func renderToolsMarkdown(tools []mcp.Tool) string {
	grouped := make(map[string][]mcp.Tool)
	for _, tool := range tools {
		cat := toolCategory(tool.Name)
		grouped[cat] = append(grouped[cat], tool)
	}

	categories := make([]string, 0, len(grouped))
	for cat := range grouped {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	var sb strings.Builder
	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("This document provides a complete reference of all tools available when running whenfree as an MCP server.\n\n")
	sb.WriteString("**Note:** This documentation is automatically generated from the tool definitions.\n\n")

	sb.WriteString("## Table of Contents\n\n")
	for _, cat := range categories {
		anchor := strings.ToLower(strings.ReplaceAll(cat, " ", "-"))
		fmt.Fprintf(&sb, "- [%s](#%s)\n", cat, anchor)
	}
	sb.WriteString("\n")

	sb.WriteString("## Multi-Account Support\n\n")
	sb.WriteString("All tools support an optional `account` parameter to specify which Google account to use:\n\n")
	sb.WriteString("- **Default behavior:** If `account` is not specified, the `default` account is used\n")
	sb.WriteString("- **Multiple accounts:** You can manage multiple Google accounts (e.g., `work`, `personal`)\n")
	sb.WriteString("- **Per-tool specification:** Each tool call can use a different account\n\n")

	for _, cat := range categories {
		catTools := grouped[cat]
		sort.Slice(catTools, func(i, j int) bool {
			return catTools[i].Name < catTools[j].Name
		})

		fmt.Fprintf(&sb, "## %s\n\n", cat)
		for _, tool := range catTools {
			renderTool(&sb, tool)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func renderTool(sb *strings.Builder, tool mcp.Tool) {
	fmt.Fprintf(sb, "### %s\n\n", tool.Name)
	if tool.Description != "" {
		fmt.Fprintf(sb, "%s\n\n", tool.Description)
	}

	if len(tool.InputSchema.Properties) == 0 {
		return
	}

	sb.WriteString("**Arguments:**\n")

	names := make([]string, 0, len(tool.InputSchema.Properties))
	for name := range tool.InputSchema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prop, ok := tool.InputSchema.Properties[name].(map[string]interface{})
		if !ok {
			continue
		}

		req := "optional"
		if slices.Contains(tool.InputSchema.Required, name) {
			req = "required"
		}

		fmt.Fprintf(sb, "- `%s` (%s): ", name, req)
		if desc, ok := prop["description"].(string); ok {
			sb.WriteString(desc)
		} else if typ, ok := prop["type"].(string); ok {
			fmt.Fprintf(sb, "%s parameter", typ)
		} else {
			sb.WriteString("any parameter")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}
