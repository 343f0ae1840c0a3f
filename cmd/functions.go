package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cloudfacade/internal/aws"
)

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "Shows Lambda functions",
	Long:  `Show every Lambda function in the region. --region ALL is not supported yet.`,
	Run: func(cmd *cobra.Command, args []string) {
		res, err := facade.ListFunctions(cmd.Context(), callOptions(cmd)...)
		if err != nil {
			er(fmt.Sprintf("Error during listing functions: %v", err))
		}
		aws.DisplayFunctions(os.Stdout, filtered(res))
	},
}

var functionGetCmd = &cobra.Command{
	Use:   "get NAME",
	Short: "Describe a function",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		details, err := facade.GetFunction(cmd.Context(), args[0])
		if err != nil {
			er(err)
		}
		aws.DisplayFunction(os.Stdout, details)
	},
}

var functionDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a function",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := facade.DeleteFunction(cmd.Context(), args[0]); err != nil {
			er(err)
		}
		fmt.Printf("Function %s deleted\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(functionsCmd)
	functionsCmd.AddCommand(functionGetCmd, functionDeleteCmd)

	functionsCmd.Flags().StringVar(&nameMatch, "match", "", "Only show names matching a wildcard pattern")
}
