package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tanq16/rangefetch/internal/scheduler"
	"github.com/tanq16/rangefetch/internal/utils"
)

func newS3Cmd() *cobra.Command {
	var outputPath string
	var profile string
	var region string
	var endpoint string
	var expiry time.Duration

	cmd := &cobra.Command{
		Use:   "s3 [s3://BUCKET/KEY]",
		Short: "Download an S3 object through a presigned URL",
		Long: `Download a single S3 object with parallel range requests.

Examples:
  rangefetch s3 s3://mybucket/path/to/file.zip
  rangefetch s3 s3://mybucket/file.zip --profile myprofile -c 8
  rangefetch s3 s3://mybucket/file.zip --endpoint http://localhost:9000`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			job := utils.Job{
				JobType:          "s3",
				URL:              args[0],
				OutputPath:       outputPath,
				Connections:      appConfig.Workers,
				ChunkSize:        appConfig.ChunkSize,
				RequestTimeout:   appConfig.RequestTimeout,
				HTTPClientConfig: globalHTTPConfig,
				Metadata: map[string]any{
					"profile":  profile,
					"region":   region,
					"endpoint": endpoint,
					"expiry":   expiry,
				},
			}
			if err := scheduler.Run([]utils.Job{job}, 1); err != nil {
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path")
	cmd.Flags().StringVar(&profile, "profile", "", "AWS profile to use")
	cmd.Flags().StringVar(&region, "region", "", "AWS region (defaults to the profile's region)")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "S3-compatible endpoint URL")
	cmd.Flags().DurationVar(&expiry, "expiry", 15*time.Minute, "Lifetime of the presigned URL")
	return cmd
}
