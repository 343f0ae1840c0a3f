package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cloudfacade/internal/aws"
	"cloudfacade/internal/models"
)

var (
	policyScope        string
	policyUsage        string
	policyPath         string
	onlyAttached       bool
	policyFile         string
	policyDescription  string
	deletePolicyByName bool
)

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "Shows IAM managed policies",
	Long:  `Show one page of managed policies. Scope is Local, AWS or All.`,
	Run: func(cmd *cobra.Command, args []string) {
		res, err := facade.ListPolicies(cmd.Context(), aws.PolicyFilter{
			Scope:        models.PolicyScope(policyScope),
			Usage:        models.PolicyUsage(policyUsage),
			PathPrefix:   policyPath,
			OnlyAttached: onlyAttached,
		}, callOptions(cmd)...)
		if err != nil {
			er(fmt.Sprintf("Error during listing policies: %v", err))
		}
		aws.DisplayPolicies(os.Stdout, filtered(res))
	},
}

var policyCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a customer managed policy",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		doc, err := os.ReadFile(policyFile)
		if err != nil {
			er(fmt.Sprintf("Could not read policy document: %v", err))
		}

		policy, err := facade.CreatePolicy(cmd.Context(), aws.CreatePolicyInput{
			Name:        args[0],
			Document:    string(doc),
			Path:        policyPath,
			Description: policyDescription,
		})
		if err != nil {
			er(err)
		}
		fmt.Printf("Policy %s created: %s\n", policy.Name, policy.Arn)
	},
}

var policyGetCmd = &cobra.Command{
	Use:   "get ARN_OR_NAME",
	Short: "Describe a managed policy and its default version",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		arn := policyARN(cmd, args[0])
		policy, err := facade.GetPolicy(cmd.Context(), arn)
		if err != nil {
			er(err)
		}
		aws.DisplayPolicy(os.Stdout, policy)
	},
}

var policyResolveCmd = &cobra.Command{
	Use:   "resolve NAME",
	Short: "Find the ARN of a policy by name",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		arn, err := facade.ResolvePolicyARN(cmd.Context(), args[0])
		if err != nil {
			er(err)
		}
		fmt.Println(arn)
	},
}

var policyDeleteCmd = &cobra.Command{
	Use:   "delete ARN",
	Short: "Delete a managed policy",
	Long:  `Delete a managed policy by ARN. With --by-name the ARN is resolved first.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		arn := args[0]
		if deletePolicyByName {
			arn = policyARN(cmd, arn)
		}
		if err := facade.DeletePolicy(cmd.Context(), arn); err != nil {
			er(err)
		}
		fmt.Printf("Policy %s deleted\n", arn)
	},
}

// policyARN returns value when it already is an ARN, resolving it by name otherwise
func policyARN(cmd *cobra.Command, value string) string {
	if strings.HasPrefix(value, "arn:") {
		return value
	}
	arn, err := facade.ResolvePolicyARN(cmd.Context(), value)
	if err != nil {
		er(err)
	}
	return arn
}

func init() {
	rootCmd.AddCommand(policiesCmd)
	policiesCmd.AddCommand(policyCreateCmd, policyGetCmd, policyResolveCmd, policyDeleteCmd)

	addListFlags(policiesCmd)
	policiesCmd.Flags().StringVar(&policyScope, "scope", string(models.ScopeLocal), "Local, AWS or All")
	policiesCmd.Flags().StringVar(&policyUsage, "usage", string(models.UsagePermissionsPolicy), "PermissionsPolicy or PermissionsBoundary")
	policiesCmd.Flags().StringVar(&policyPath, "path", "/", "Path prefix")
	policiesCmd.Flags().BoolVar(&onlyAttached, "only-attached", false, "Only attached policies")

	policyCreateCmd.Flags().StringVar(&policyFile, "file", "", "File holding the policy JSON")
	policyCreateCmd.Flags().StringVar(&policyPath, "path", "/", "Policy path")
	policyCreateCmd.Flags().StringVar(&policyDescription, "description", "", "Policy description")
	policyCreateCmd.MarkFlagRequired("file")

	policyDeleteCmd.Flags().BoolVar(&deletePolicyByName, "by-name", false, "Resolve the policy ARN from its name")
}
