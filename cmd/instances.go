package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cloudfacade/internal/aws"
	"cloudfacade/internal/ledger"
)

var launchInput aws.LaunchInput

// openInstanceRegistry loads the instance ledger from the home directory
func openInstanceRegistry() (*aws.InstanceRegistry, string) {
	path, err := ledger.DefaultPath(aws.InstanceLedgerStem)
	if err != nil {
		er(err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return aws.NewInstanceRegistry(facade), path
	}
	reg, err := aws.LoadInstanceRegistry(facade, path)
	if err != nil {
		er(err)
	}
	return reg, path
}

var instancesCmd = &cobra.Command{
	Use:   "instances [INSTANCE_ID...]",
	Short: "Shows EC2 instances",
	Run: func(cmd *cobra.Command, args []string) {
		res, err := facade.DescribeInstances(cmd.Context(), args, callOptions(cmd)...)
		if err != nil {
			er(fmt.Sprintf("Error during listing instances: %v", err))
		}
		aws.DisplayInstances(os.Stdout, filtered(res))
	},
}

var instanceLaunchCmd = &cobra.Command{
	Use:   "launch NAME",
	Short: "Launch one instance and record it under NAME",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		reg, path := openInstanceRegistry()

		in := launchInput
		in.Name = args[0]
		inst, err := reg.Launch(cmd.Context(), in, callOptions(cmd)...)
		if err != nil {
			er(err)
		}
		if err := reg.Save(path); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("instance launched but ledger not saved")
		}
		fmt.Printf("Instance %s launched as %s (%s)\n", inst.GetName(), inst.InstanceId, inst.State)
	},
}

var instanceTerminateCmd = &cobra.Command{
	Use:   "terminate NAME",
	Short: "Terminate an instance recorded in the local ledger",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		reg, path := openInstanceRegistry()
		if err := reg.Terminate(cmd.Context(), args[0], callOptions(cmd)...); err != nil {
			er(err)
		}
		if err := reg.Save(path); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("instance terminated but ledger not saved")
		}
		fmt.Printf("Instance %s terminating\n", args[0])
	},
}

var instanceTerminateIDsCmd = &cobra.Command{
	Use:   "terminate-ids INSTANCE_ID...",
	Short: "Terminate instances by ID",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		changes, err := facade.TerminateInstances(cmd.Context(), args, callOptions(cmd)...)
		if err != nil {
			er(err)
		}
		for _, c := range changes {
			fmt.Printf("%s: %s\n", c.InstanceId, c.State)
		}
	},
}

func init() {
	rootCmd.AddCommand(instancesCmd)
	instancesCmd.AddCommand(instanceLaunchCmd, instanceTerminateCmd, instanceTerminateIDsCmd)

	addListFlags(instancesCmd)

	flags := instanceLaunchCmd.Flags()
	flags.StringVar(&launchInput.ImageID, "image", "", "AMI ID")
	flags.StringVar(&launchInput.InstanceType, "type", "", "Instance type (default t3.micro)")
	flags.StringVar(&launchInput.KeyName, "key", "", "Key pair name")
	flags.StringSliceVar(&launchInput.SecurityGroupIDs, "security-group", nil, "Security group IDs (default from settings)")
	flags.StringToStringVar(&launchInput.Tags, "tag", nil, "Extra tags as key=value")
	instanceLaunchCmd.MarkFlagRequired("image")
}
