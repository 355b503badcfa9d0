package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// NewContextCmd creates the context command group for managing uploaded
// context documents.
func NewContextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Manage context documents fed into proposal prompts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List managed context files",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildComponents()
			if err != nil {
				return err
			}
			defer c.close()

			entries := c.contexts.Entries()
			if len(entries) == 0 {
				fmt.Println(dimStyle.Render("コンテキストファイルなし"))
				return nil
			}
			for _, e := range entries {
				marker := "○"
				if e.Active {
					marker = "●"
				}
				fmt.Printf("%s %s (%s, %s)\n", marker, e.Filename, e.Type, e.UploadedAt)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <file>",
		Short: "Add a file (pdf, txt, md, csv) to the context library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildComponents()
			if err != nil {
				return err
			}
			defer c.close()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			fileType := strings.TrimPrefix(filepath.Ext(args[0]), ".")
			if fileType == "" {
				fileType = "txt"
			}
			if err := c.contexts.Add(filepath.Base(args[0]), data, fileType); err != nil {
				return err
			}
			fmt.Println(successStyle.Render("追加しました: " + filepath.Base(args[0])))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <filename>",
		Short: "Toggle whether a file is included in prompts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildComponents()
			if err != nil {
				return err
			}
			defer c.close()
			return c.contexts.Toggle(args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <filename>",
		Short: "Remove a file from the context library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildComponents()
			if err != nil {
				return err
			}
			defer c.close()
			return c.contexts.Delete(args[0])
		},
	})

	return cmd
}
