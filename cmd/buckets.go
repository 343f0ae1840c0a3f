package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"cloudfacade/internal/aws"
)

var (
	uploadKey    string
	bucketPrefix string
)

// prefixOptions adds --prefix to the shared call options
func prefixOptions(cmd *cobra.Command) []aws.CallOption {
	opts := callOptions(cmd)
	if bucketPrefix != "" {
		opts = append(opts, aws.WithPrefix(bucketPrefix))
	}
	return opts
}

var bucketsCmd = &cobra.Command{
	Use:   "buckets",
	Short: "Shows S3 buckets",
	Run: func(cmd *cobra.Command, args []string) {
		res, err := facade.ListBuckets(cmd.Context(), prefixOptions(cmd)...)
		if err != nil {
			er(fmt.Sprintf("Error during listing buckets: %v", err))
		}
		aws.DisplayBuckets(os.Stdout, filtered(res))
	},
}

var bucketCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a bucket in the default region",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		bucket, err := facade.CreateBucket(cmd.Context(), args[0], callOptions(cmd)...)
		if err != nil {
			er(err)
		}
		fmt.Printf("Bucket %s created in %s\n", bucket.Name, bucket.Region)
	},
}

var bucketDescribeCmd = &cobra.Command{
	Use:   "describe NAME",
	Short: "Check a bucket exists and show its region",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		bucket, err := facade.DescribeBucket(cmd.Context(), args[0], callOptions(cmd)...)
		if err != nil {
			er(err)
		}
		fmt.Printf("Bucket: %s\nRegion: %s\nARN: %s\n", bucket.Name, bucket.Region, bucket.GetARN())
	},
}

var bucketDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete an empty bucket",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := facade.DeleteBucket(cmd.Context(), args[0], callOptions(cmd)...); err != nil {
			er(err)
		}
		fmt.Printf("Bucket %s deleted\n", args[0])
	},
}

var bucketObjectsCmd = &cobra.Command{
	Use:   "objects BUCKET",
	Short: "List every object in a bucket",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		res, err := facade.ListObjects(cmd.Context(), args[0], prefixOptions(cmd)...)
		if err != nil {
			er(err)
		}
		aws.DisplayObjects(os.Stdout, filtered(res))
	},
}

var bucketUploadCmd = &cobra.Command{
	Use:   "upload BUCKET FILE",
	Short: "Upload a local file",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key := uploadKey
		if key == "" {
			key = filepath.Base(args[1])
		}
		if err := facade.PutFile(cmd.Context(), args[0], key, args[1], callOptions(cmd)...); err != nil {
			er(err)
		}
		fmt.Printf("Uploaded %s to s3://%s/%s\n", args[1], args[0], key)
	},
}

func init() {
	rootCmd.AddCommand(bucketsCmd)
	bucketsCmd.AddCommand(bucketCreateCmd, bucketDescribeCmd, bucketDeleteCmd, bucketObjectsCmd, bucketUploadCmd)

	addListFlags(bucketsCmd)
	bucketsCmd.Flags().StringVar(&bucketPrefix, "prefix", "", "Only list buckets whose name starts with prefix")
	bucketObjectsCmd.Flags().StringVar(&nameMatch, "match", "", "Only show keys matching a wildcard pattern")
	bucketObjectsCmd.Flags().StringVar(&bucketPrefix, "prefix", "", "Only list keys starting with prefix")
	bucketUploadCmd.Flags().StringVar(&uploadKey, "key", "", "Object key, defaults to the file name")
}
