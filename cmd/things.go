package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cloudfacade/internal/aws"
	"cloudfacade/internal/ledger"
)

var (
	thingInput     aws.CreateThingInput
	thingTypeProps aws.ThingTypeProperties
	thingTypeTags  map[string]string
)

// openThingRegistry loads the thing ledger from the home directory, starting
// an empty one when no ledger has been saved yet
func openThingRegistry() (*aws.ThingRegistry, string) {
	path, err := ledger.DefaultPath(aws.ThingLedgerStem)
	if err != nil {
		er(err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return aws.NewThingRegistry(facade), path
	}
	reg, err := aws.LoadThingRegistry(facade, path)
	if err != nil {
		er(err)
	}
	return reg, path
}

var thingsCmd = &cobra.Command{
	Use:   "things",
	Short: "Shows IoT things",
	Run: func(cmd *cobra.Command, args []string) {
		res, err := facade.ListThings(cmd.Context(), callOptions(cmd)...)
		if err != nil {
			er(fmt.Sprintf("Error during listing things: %v", err))
		}
		aws.DisplayThings(os.Stdout, filtered(res))
	},
}

var thingCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Register a thing and record it in the local ledger",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		reg, path := openThingRegistry()

		in := thingInput
		in.Name = args[0]
		thing, err := reg.Create(cmd.Context(), in)
		if err != nil {
			er(err)
		}
		if err := reg.Save(path); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("thing created but ledger not saved")
		}
		fmt.Printf("Thing %s created (%s)\n", thing.Name, thing.Arn)
	},
}

var thingDescribeCmd = &cobra.Command{
	Use:   "describe NAME",
	Short: "Describe a thing",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		thing, err := facade.DescribeThing(cmd.Context(), args[0])
		if err != nil {
			er(err)
		}
		fmt.Printf("Thing: %s\nARN: %s\nID: %s\n", thing.Name, thing.Arn, thing.ThingId)
		if thing.ThingType != "" {
			fmt.Printf("Type: %s\n", thing.ThingType)
		}
		for k, v := range thing.Attributes {
			fmt.Printf("  %s = %s\n", k, v)
		}
	},
}

var thingDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a thing and drop it from the local ledger",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		reg, path := openThingRegistry()
		if err := reg.Delete(cmd.Context(), args[0]); err != nil {
			er(err)
		}
		if err := reg.Save(path); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("thing deleted but ledger not saved")
		}
		fmt.Printf("Thing %s deleted\n", args[0])
	},
}

var thingLedgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Show the things recorded locally",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		reg, path := openThingRegistry()
		names := reg.Names()
		if len(names) == 0 {
			fmt.Printf("No things recorded in %s\n", path)
			return
		}
		for i, name := range names {
			thing, _ := reg.Get(name)
			fmt.Printf("%d. %s (%s)\n", i+1, name, thing.Arn)
		}
	},
}

var thingTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "Shows IoT thing types",
	Run: func(cmd *cobra.Command, args []string) {
		res, err := facade.ListThingTypes(cmd.Context(), callOptions(cmd)...)
		if err != nil {
			er(fmt.Sprintf("Error during listing thing types: %v", err))
		}
		aws.DisplayThingTypes(os.Stdout, filtered(res))
	},
}

var thingTypeCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a thing type",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tt, err := facade.CreateThingType(cmd.Context(), args[0], thingTypeProps, thingTypeTags)
		if err != nil {
			er(err)
		}
		fmt.Printf("Thing type %s created (%s)\n", tt.Name, tt.Arn)
	},
}

var thingTypeDescribeCmd = &cobra.Command{
	Use:   "describe NAME",
	Short: "Describe a thing type",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tt, err := facade.DescribeThingType(cmd.Context(), args[0])
		if err != nil {
			er(err)
		}
		fmt.Printf("Thing type: %s\nARN: %s\nDeprecated: %t\n", tt.Name, tt.Arn, tt.Deprecated)
		if tt.Description != "" {
			fmt.Printf("Description: %s\n", tt.Description)
		}
	},
}

var thingTypeDeprecateCmd = &cobra.Command{
	Use:   "deprecate NAME",
	Short: "Deprecate a thing type so it can later be deleted",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := facade.DeprecateThingType(cmd.Context(), args[0]); err != nil {
			er(err)
		}
		fmt.Printf("Thing type %s deprecated\n", args[0])
	},
}

var thingTypeDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a deprecated thing type",
	Long: `Delete a thing type. It must have been deprecated first, and AWS refuses
the delete until a few minutes after deprecation.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := facade.DeleteThingType(cmd.Context(), args[0]); err != nil {
			er(err)
		}
		fmt.Printf("Thing type %s deleted\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(thingsCmd)
	thingsCmd.AddCommand(thingCreateCmd, thingDescribeCmd, thingDeleteCmd, thingLedgerCmd, thingTypesCmd)
	thingTypesCmd.AddCommand(thingTypeCreateCmd, thingTypeDescribeCmd, thingTypeDeprecateCmd, thingTypeDeleteCmd)

	addListFlags(thingsCmd)
	addListFlags(thingTypesCmd)

	thingCreateCmd.Flags().StringVar(&thingInput.ThingType, "type", "", "Thing type name")
	thingCreateCmd.Flags().StringToStringVar(&thingInput.Attributes, "attr", nil, "Attributes as key=value")
	thingCreateCmd.Flags().StringVar(&thingInput.BillingGroup, "billing-group", "", "Billing group name")

	thingTypeCreateCmd.Flags().StringVar(&thingTypeProps.Description, "description", "", "Thing type description")
	thingTypeCreateCmd.Flags().StringSliceVar(&thingTypeProps.SearchableAttributes, "searchable", nil, "Searchable attribute names")
	thingTypeCreateCmd.Flags().StringToStringVar(&thingTypeTags, "tag", nil, "Tags as key=value")
}
