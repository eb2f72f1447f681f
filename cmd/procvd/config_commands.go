package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Itexoft/procvd/pkg/template"
)

func newConfigCommand(c *command) *cobra.Command {
	root := &cobra.Command{
		Use:   "config",
		Short: "Work with procvd config files",
	}
	root.AddCommand(newConfigInitCommand(c))
	return root
}

func newConfigInitCommand(c *command) *cobra.Command {
	f := ConfigInitFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file for a named topology",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.ConfigInit(f)
		},
	}

	cmd.Flags().StringVar(&f.Type, "type", "simple", "topology: web, api, worker, database, cron, simple")
	cmd.Flags().StringVar(&f.Name, "name", "app", "leading group name to use in the generated config")
	cmd.Flags().StringVar(&f.Output, "output", "", "output file path (default: <name>.json)")
	cmd.Flags().BoolVar(&f.Force, "force", false, "overwrite the output file if it already exists")

	return cmd
}

// ConfigInit writes a starter config document for f.Type to f.Output (or
// "<name>.json" when unset).
func (c *command) ConfigInit(f ConfigInitFlags) error {
	outputPath := f.Output
	if outputPath == "" {
		outputPath = f.Name + ".json"
	}

	if _, err := os.Stat(outputPath); err == nil && !f.Force {
		return fmt.Errorf("config file %q already exists (use --force to overwrite)", outputPath)
	}

	generator := template.NewGenerator()
	content, err := generator.GenerateJSON(template.TopologyType(f.Type), f.Name)
	if err != nil {
		return fmt.Errorf("generate config: %w", err)
	}

	if err := os.WriteFile(outputPath, content, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	fmt.Printf("Config for topology %q written to %s\n", f.Type, outputPath)
	fmt.Printf("Edit it and run with: procvd run --config %s\n", outputPath)
	return nil
}
