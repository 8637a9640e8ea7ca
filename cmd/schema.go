package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/txn-monthly-report/internal/xmlwriter"
)

// schemaCmd prints the XSD describing report.xml.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the XML Schema of report.xml",
	RunE: func(cmd *cobra.Command, args []string) error {
		xsd, err := xmlwriter.GenerateXSD()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(xsd)
		return err
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
