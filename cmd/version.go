// File: cmd/version.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ctxgen/pkg/version"
)

// versionCmd prints the build information baked in at compile time.
// The --short flag prints only the bare version number.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the version of ctxgen",
	RunE: func(cmd *cobra.Command, args []string) error {
		short, err := cmd.Flags().GetBool("short")
		if err != nil {
			return fmt.Errorf("read flags: %w", err)
		}

		v := version.Get()
		if short {
			fmt.Println(v.Version)
		} else {
			fmt.Println(v.String())
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolP("short", "s", false, "print the version number only")
	RootCmd.AddCommand(versionCmd)
}
