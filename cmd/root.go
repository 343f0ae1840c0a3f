package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"cloudfacade/internal/aws"
	"cloudfacade/internal/config"
	"cloudfacade/internal/logging"
	"cloudfacade/internal/models"
	"cloudfacade/internal/utils"
)

var (
	settingsFile      string
	enableDiagnostics bool
	pageToken         string
	maxItems          int32
	nameMatch         string

	facade    *aws.Facade
	logger    zerolog.Logger
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "cloudfacade",
	Short: "cloudfacade - uniform management of AWS resources",
	Long: `cloudfacade creates, lists, describes and deletes AWS resources through one
consistent interface. It supports IAM roles and policies, S3 buckets,
DynamoDB tables, IoT things, Lambda functions and EC2 instances.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, logCloser, err = logging.Setup(enableDiagnostics)
		if err != nil {
			return err
		}

		settings := config.Default()
		if settingsFile != "" {
			settings, err = config.LoadSettingsFromFile(settingsFile)
			if err != nil {
				return err
			}
		}

		profile, _ := cmd.Flags().GetString("profile")
		clients := aws.NewSDKFactory(aws.WithProfile(profile), aws.WithRegion(settings.DefaultRegion))
		facade = aws.New(clients, settings, aws.WithLogger(logging.Component(logger, "facade")))

		logger.Debug().
			Str("profile", profile).
			Str("region", settings.DefaultRegion).
			Str("project", settings.ProjectName).
			Msg("facade ready")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
}

// Execute runs the root command until it finishes or the process is interrupted
func Execute() error {
	utils.DisplayBanner()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringP("profile", "p", "", "AWS profile")
	rootCmd.PersistentFlags().StringP("region", "r", "", "AWS region (only the configured default region is served)")
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "Path to a YAML settings file")
	rootCmd.PersistentFlags().BoolVar(&enableDiagnostics, "diagnostics", false, "Enable debug logging")
}

// addListFlags registers the paging and filtering flags shared by list commands
func addListFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&pageToken, "page-token", "", "Resume a truncated listing")
	cmd.Flags().Int32Var(&maxItems, "max-items", 0, "Maximum number of items per page")
	cmd.Flags().StringVar(&nameMatch, "match", "", "Only show names matching a wildcard pattern")
}

// callOptions turns the global flags into per-call facade options
func callOptions(cmd *cobra.Command) []aws.CallOption {
	var opts []aws.CallOption
	if region, _ := cmd.Flags().GetString("region"); region != "" {
		opts = append(opts, aws.InRegion(region))
	}
	if pageToken != "" {
		opts = append(opts, aws.WithPageToken(pageToken))
	}
	if maxItems > 0 {
		opts = append(opts, aws.WithMaxItems(maxItems))
	}
	return opts
}

// filtered applies --match to a listing
func filtered[T models.Descriptor](res aws.ListResult[T]) aws.ListResult[T] {
	if nameMatch == "" {
		return res
	}
	res.Records = utils.FilterByName(res.Records, nameMatch)
	res.Names = make([]string, 0, len(res.Records))
	for _, r := range res.Records {
		res.Names = append(res.Names, r.GetName())
	}
	return res
}

func er(msg interface{}) {
	color.New(color.FgRed).Fprintln(os.Stderr, "Error:", msg)
	if logCloser != nil {
		logCloser.Close()
	}
	os.Exit(1)
}
