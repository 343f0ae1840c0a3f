package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cloudfacade/internal/aws"
)

var (
	showRoleTrusted  bool
	showLastActivity bool
	inactiveDays     int
	rolePath         string
	trustFile        string
	roleDescription  string
	roleTags         map[string]string
	managedPolicy    bool
	inlinePolicyFile string
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Shows IAM Roles",
	Long:  `Show list of roles. Subcommands create, describe and delete roles and manage their policies.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		res, err := facade.ListRoles(ctx, rolePath, callOptions(cmd)...)
		if err != nil {
			er(fmt.Sprintf("Error during listing roles: %v", err))
		}
		res = filtered(res)

		// listing omits last-used data, so fetch each role
		if showLastActivity || inactiveDays > 0 {
			for i, role := range res.Records {
				full, err := facade.GetRole(ctx, role.RoleName)
				if err != nil {
					er(fmt.Sprintf("Error fetching role %s: %v", role.RoleName, err))
				}
				res.Records[i] = full
			}
		}

		if inactiveDays > 0 {
			kept := res.Records[:0]
			for _, role := range res.Records {
				if days := role.GetRoleInactiveDays(); days < 0 || days >= inactiveDays {
					kept = append(kept, role)
				}
			}
			res.Records = kept
			res.Names = res.Names[:0]
			for _, role := range kept {
				res.Names = append(res.Names, role.RoleName)
			}
		}

		aws.DisplayRoles(os.Stdout, res, showRoleTrusted, showLastActivity)
	},
}

var roleCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create an IAM role",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		trust, err := os.ReadFile(trustFile)
		if err != nil {
			er(fmt.Sprintf("Could not read trust policy: %v", err))
		}

		role, err := facade.CreateRole(cmd.Context(), aws.CreateRoleInput{
			Name:        args[0],
			TrustPolicy: string(trust),
			Path:        rolePath,
			Description: roleDescription,
			Tags:        roleTags,
		})
		if err != nil {
			er(err)
		}
		aws.DisplayRole(os.Stdout, 1, role, true, false)
	},
}

var roleGetCmd = &cobra.Command{
	Use:   "get NAME",
	Short: "Describe an IAM role",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		role, err := facade.GetRole(cmd.Context(), args[0])
		if err != nil {
			er(err)
		}
		aws.DisplayRole(os.Stdout, 1, role, true, true)

		policies, err := facade.ListAttachedRolePolicies(cmd.Context(), args[0])
		if err != nil {
			er(err)
		}
		aws.DisplayAttachedPolicies(os.Stdout, args[0], policies)
	},
}

var roleDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete an IAM role",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := facade.DeleteRole(cmd.Context(), args[0]); err != nil {
			er(err)
		}
		fmt.Printf("Role %s deleted\n", args[0])
	},
}

var roleAttachCmd = &cobra.Command{
	Use:   "attach ROLE POLICY",
	Short: "Attach a managed policy to a role",
	Long:  `Attach a managed policy to a role. POLICY is an ARN, or an AWS managed policy name with --managed.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		var err error
		if managedPolicy {
			err = facade.AttachManagedRolePolicy(cmd.Context(), args[0], args[1])
		} else {
			err = facade.AttachRolePolicy(cmd.Context(), args[0], args[1])
		}
		if err != nil {
			er(err)
		}
		fmt.Printf("Policy %s attached to %s\n", args[1], args[0])
	},
}

var roleDetachCmd = &cobra.Command{
	Use:   "detach ROLE POLICY_ARN",
	Short: "Detach a managed policy from a role",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := facade.DetachRolePolicy(cmd.Context(), args[0], args[1]); err != nil {
			er(err)
		}
		fmt.Printf("Policy %s detached from %s\n", args[1], args[0])
	},
}

var rolePutPolicyCmd = &cobra.Command{
	Use:   "put-policy ROLE NAME",
	Short: "Embed an inline policy in a role",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		doc, err := os.ReadFile(inlinePolicyFile)
		if err != nil {
			er(fmt.Sprintf("Could not read policy document: %v", err))
		}
		if err := facade.PutRolePolicy(cmd.Context(), args[0], args[1], string(doc)); err != nil {
			er(err)
		}
		fmt.Printf("Inline policy %s put on %s\n", args[1], args[0])
	},
}

func init() {
	rootCmd.AddCommand(rolesCmd)
	rolesCmd.AddCommand(roleCreateCmd, roleGetCmd, roleDeleteCmd, roleAttachCmd, roleDetachCmd, rolePutPolicyCmd)

	addListFlags(rolesCmd)
	rolesCmd.Flags().BoolVar(&showRoleTrusted, "trusted", false, "Show trusted entities")
	rolesCmd.Flags().BoolVar(&showLastActivity, "last-activity", false, "Show last activity")
	rolesCmd.Flags().IntVar(&inactiveDays, "inactive", 0, "Only show roles unused for at least this many days")
	rolesCmd.Flags().StringVar(&rolePath, "path", "/", "Path prefix")

	roleCreateCmd.Flags().StringVar(&trustFile, "trust-file", "", "File holding the trust policy JSON")
	roleCreateCmd.Flags().StringVar(&rolePath, "path", "/", "Role path")
	roleCreateCmd.Flags().StringVar(&roleDescription, "description", "", "Role description")
	roleCreateCmd.Flags().StringToStringVar(&roleTags, "tag", nil, "Tags as key=value")
	roleCreateCmd.MarkFlagRequired("trust-file")

	roleAttachCmd.Flags().BoolVar(&managedPolicy, "managed", false, "POLICY is the name of an AWS managed policy")

	rolePutPolicyCmd.Flags().StringVar(&inlinePolicyFile, "file", "", "File holding the policy JSON")
	rolePutPolicyCmd.MarkFlagRequired("file")
}
