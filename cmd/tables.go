package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cloudfacade/internal/aws"
)

var tableSchema aws.TableSchema

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Shows DynamoDB tables",
	Run: func(cmd *cobra.Command, args []string) {
		res, err := facade.ListTables(cmd.Context(), callOptions(cmd)...)
		if err != nil {
			er(fmt.Sprintf("Error during listing tables: %v", err))
		}
		aws.DisplayTables(os.Stdout, filtered(res))
	},
}

var tableCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a table",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		schema := tableSchema
		schema.Name = args[0]

		table, err := facade.CreateTable(cmd.Context(), schema, callOptions(cmd)...)
		if err != nil {
			er(err)
		}
		aws.DisplayTable(os.Stdout, table)
	},
}

var tableDescribeCmd = &cobra.Command{
	Use:   "describe NAME",
	Short: "Describe a table",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		table, err := facade.DescribeTable(cmd.Context(), args[0], callOptions(cmd)...)
		if err != nil {
			er(err)
		}
		aws.DisplayTable(os.Stdout, table)
	},
}

var tableDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a table",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		table, err := facade.DeleteTable(cmd.Context(), args[0], callOptions(cmd)...)
		if err != nil {
			er(err)
		}
		fmt.Printf("Table %s is %s\n", table.Name, table.Status)
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
	tablesCmd.AddCommand(tableCreateCmd, tableDescribeCmd, tableDeleteCmd)

	addListFlags(tablesCmd)

	flags := tableCreateCmd.Flags()
	flags.StringVar(&tableSchema.PartitionKey, "partition-key", "", "Partition key attribute")
	flags.StringVar(&tableSchema.PartitionKeyType, "partition-key-type", "S", "Partition key type (S, N or B)")
	flags.StringVar(&tableSchema.SortKey, "sort-key", "", "Optional sort key attribute")
	flags.StringVar(&tableSchema.SortKeyType, "sort-key-type", "N", "Sort key type (S, N or B)")
	flags.StringVar(&tableSchema.BillingMode, "billing-mode", "PAY_PER_REQUEST", "PAY_PER_REQUEST or PROVISIONED")
	flags.Int64Var(&tableSchema.ReadCapacity, "read-capacity", 5, "Read capacity units (PROVISIONED)")
	flags.Int64Var(&tableSchema.WriteCapacity, "write-capacity", 5, "Write capacity units (PROVISIONED)")
	flags.StringToStringVar(&tableSchema.OtherAttributes, "attribute", nil, "Extra attribute definitions as name=type")
	tableCreateCmd.MarkFlagRequired("partition-key")
}
