package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shapeeditor",
		Short: "2D shape scene editor and save file tools",
	}

	rootCmd.AddCommand(printCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func printCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print [project-path]",
		Short: "Print the save file as the reader parsed it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrint(cmd.OutOrStdout(), args[0])
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Load the save file and report unreadable lines and records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), args[0])
		},
	}
}

func listCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list [project-path]",
		Short: "List the shapes in the save file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.OutOrStdout(), args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the scene as JSON")
	return cmd
}

func addCmd() *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add [project-path]",
		Short: "Add a shape to the save file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.shapeType, "type", "t", "Pentagon", "shape type from the morph cycle")
	cmd.Flags().Float64VarP(&opts.x, "x", "x", 0, "centre x")
	cmd.Flags().Float64VarP(&opts.y, "y", "y", 0, "centre y")
	cmd.Flags().StringVarP(&opts.colour, "colour", "c", "", "palette colour name")
	cmd.Flags().Float64Var(&opts.rotation, "rotation", 0, "rotation in degrees")
	cmd.Flags().Float64Var(&opts.scale, "scale", 1, "scale factor")
	return cmd
}

func renderCmd() *cobra.Command {
	var (
		output string
		fit    bool
	)

	cmd := &cobra.Command{
		Use:   "render [project-path]",
		Short: "Render the scene as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.OutOrStdout(), args[0], output, fit)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	cmd.Flags().BoolVar(&fit, "fit", false, "frame all shapes instead of the camera view")
	return cmd
}

func serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start the editing API for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runServe(args[0], port)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "HTTP server port (default from config)")
	return cmd
}
