package main

import (
	"github.com/spf13/cobra"
)

var uuidCmd = &cobra.Command{
	Use:   "uuid",
	Short: "Generate UUIDs",
	RunE: func(cmd *cobra.Command, args []string) error {
		version, _ := cmd.Flags().GetString("version")
		count, _ := cmd.Flags().GetInt("count")
		upper, _ := cmd.Flags().GetBool("upper")
		noHyphens, _ := cmd.Flags().GetBool("no-hyphens")
		braces, _ := cmd.Flags().GetBool("braces")
		return invoke(cmd, "uuid", map[string]any{
			"version":    version,
			"count":      count,
			"upper":      upper,
			"no_hyphens": noHyphens,
			"braces":     braces,
		})
	},
}

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Generate a random password",
	RunE: func(cmd *cobra.Command, args []string) error {
		length, _ := cmd.Flags().GetInt("length")
		classes, _ := cmd.Flags().GetString("classes")
		ambiguous, _ := cmd.Flags().GetBool("exclude-ambiguous")
		each, _ := cmd.Flags().GetBool("require-each")
		return invoke(cmd, "password", map[string]any{
			"length":            length,
			"classes":           classes,
			"exclude_ambiguous": ambiguous,
			"require_each":      each,
		})
	},
}

var loremCmd = &cobra.Command{
	Use:   "lorem",
	Short: "Generate placeholder text",
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		unit, _ := cmd.Flags().GetString("unit")
		classic, _ := cmd.Flags().GetBool("classic")
		toolArgs := map[string]any{"count": count, "unit": unit, "start_with_lorem": classic}
		if cmd.Flags().Changed("seed") {
			seed, _ := cmd.Flags().GetUint64("seed")
			toolArgs["seed"] = seed
		}
		return invoke(cmd, "lorem", toolArgs)
	},
}

func init() {
	rootCmd.AddCommand(uuidCmd, passwordCmd, loremCmd)

	uuidCmd.Flags().StringP("version", "v", "v4", "UUID version: v1, v4, v7 or nil")
	uuidCmd.Flags().IntP("count", "n", 1, "How many to generate")
	uuidCmd.Flags().Bool("upper", false, "Uppercase hex digits")
	uuidCmd.Flags().Bool("no-hyphens", false, "Omit the hyphens")
	uuidCmd.Flags().Bool("braces", false, "Wrap in curly braces")

	passwordCmd.Flags().IntP("length", "l", 16, "Number of characters")
	passwordCmd.Flags().String("classes", "lowercase,uppercase,digits,symbols", "Comma separated character classes")
	passwordCmd.Flags().Bool("exclude-ambiguous", false, "Drop look-alike characters")
	passwordCmd.Flags().Bool("require-each", true, "Include at least one character of every class")

	loremCmd.Flags().IntP("count", "n", 5, "How many units to generate")
	loremCmd.Flags().StringP("unit", "u", "sentences", "words, sentences or paragraphs")
	loremCmd.Flags().Bool("classic", true, "Open with \"Lorem ipsum dolor sit amet\"")
	loremCmd.Flags().Uint64("seed", 0, "Seed for reproducible output")
}
