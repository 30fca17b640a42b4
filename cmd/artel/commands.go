package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rvachev/artel/internal/config"
)

// --- chat ---

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the recommendation assistant",
	Long: `Chat with the recommendation assistant in an interactive session.

The transcript is held client-side and resent with every turn; the server
itself is stateless. Type "exit" or press Ctrl-D to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		// Open with the canned greeting.
		if resp, err := client.get("/greeting"); err == nil {
			var greeting map[string]string
			if decodeJSON(resp, &greeting) == nil {
				fmt.Printf("%s %s\n", colorize(colorCyan, "assistant:"), greeting["message"])
			}
		}

		type message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		}
		type artwork struct {
			ID     string `json:"id"`
			Title  string `json:"title"`
			Artist string `json:"artist"`
			Price  int    `json:"price"`
		}
		type chatResult struct {
			Type     string    `json:"type"`
			Message  string    `json:"message"`
			Artworks []artwork `json:"artworks"`
		}

		var transcript []message
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print(colorize(colorBold, "you: "))
			if !scanner.Scan() {
				fmt.Println()
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "exit" || line == "quit" {
				return nil
			}

			transcript = append(transcript, message{Role: "user", Content: line})

			resp, err := client.post("/chat", map[string]any{"messages": transcript})
			if err != nil {
				return err
			}

			var result chatResult
			if err := decodeJSON(resp, &result); err != nil {
				return err
			}

			fmt.Printf("%s %s\n", colorize(colorCyan, "assistant:"), result.Message)
			for _, a := range result.Artworks {
				fmt.Printf("  %s %s — %s (₹%d)\n", colorize(colorBold, a.ID), a.Title, a.Artist, a.Price)
			}

			transcript = append(transcript, message{Role: "assistant", Content: result.Message})
		}
	},
}

// --- filters ---

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "Show the filterable catalog vocabulary",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get("/filters")
		if err != nil {
			return err
		}

		var filters struct {
			Styles     []string `json:"styles"`
			Colors     []string `json:"colors"`
			Moods      []string `json:"moods"`
			PriceRange struct {
				MinLakhs float64 `json:"min_lakhs"`
				MaxLakhs float64 `json:"max_lakhs"`
			} `json:"price_range"`
		}
		if err := decodeJSON(resp, &filters); err != nil {
			return err
		}

		printStatus("Styles", "%s", strings.Join(filters.Styles, ", "))
		printStatus("Colors", "%s", strings.Join(filters.Colors, ", "))
		printStatus("Moods", "%s", strings.Join(filters.Moods, ", "))
		printStatus("Price range", "%.1f–%.1f lakhs", filters.PriceRange.MinLakhs, filters.PriceRange.MaxLakhs)
		return nil
	},
}

var greetingCmd = &cobra.Command{
	Use:   "greeting",
	Short: "Show the assistant's opening message",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get("/greeting")
		if err != nil {
			return err
		}

		var greeting map[string]string
		if err := decodeJSON(resp, &greeting); err != nil {
			return err
		}

		fmt.Println(greeting["message"])
		return nil
	},
}

// --- interactions ---

var interactionsCmd = &cobra.Command{
	Use:   "interactions",
	Short: "Manage the interaction log",
}

var interactionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent interactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(fmt.Sprintf("/admin/interactions?limit=%d", limit))
		if err != nil {
			return err
		}

		var interactions []struct {
			ID           string `json:"id"`
			CreatedAt    string `json:"created_at"`
			UserMessage  string `json:"user_message"`
			ResponseType string `json:"response_type"`
		}
		if err := decodeJSON(resp, &interactions); err != nil {
			return err
		}

		if len(interactions) == 0 {
			fmt.Println("No interactions found.")
			return nil
		}

		for _, ix := range interactions {
			msg := ix.UserMessage
			if len(msg) > 80 {
				msg = msg[:80] + "..."
			}
			fmt.Printf("%s  %s  %-14s  %s\n",
				colorize(colorCyan, ix.ID[:8]),
				ix.CreatedAt,
				ix.ResponseType,
				msg,
			)
		}
		return nil
	},
}

var interactionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single interaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get("/admin/interactions/" + args[0])
		if err != nil {
			return err
		}

		var interaction any
		if err := decodeJSON(resp, &interaction); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(interaction)
	},
}

var interactionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an interaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.delete("/admin/interactions/" + args[0])
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			return fmt.Errorf("server returned %d", resp.StatusCode)
		}

		printSuccess("Deleted interaction %s", args[0])
		return nil
	},
}

func init() {
	interactionsListCmd.Flags().Int("limit", 20, "maximum number of interactions to list")
	interactionsCmd.AddCommand(interactionsListCmd)
	interactionsCmd.AddCommand(interactionsShowCmd)
	interactionsCmd.AddCommand(interactionsDeleteCmd)
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
