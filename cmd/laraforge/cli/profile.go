package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"laraforge/internal/hostinfo"
)

var profileJSON bool

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect the host and print its capacity profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := hostinfo.New().Profile()
		if err != nil {
			return err
		}

		if profileJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(profile)
		}
		fmt.Print(hostinfo.Describe(profile))
		return nil
	},
}

func init() {
	profileCmd.Flags().BoolVar(&profileJSON, "json", false, "machine-readable output")
	rootCmd.AddCommand(profileCmd)
}
