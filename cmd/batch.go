package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tanq16/rangefetch/internal/output"
	"github.com/tanq16/rangefetch/internal/scheduler"
	"github.com/tanq16/rangefetch/internal/utils"
	"gopkg.in/yaml.v3"
)

func newBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch [YAML_FILE]",
		Short: "Process multiple downloads from a YAML file",
		Long: `Process multiple downloads from a YAML file grouped by source type.

Example file:
  http:
    - link: https://example.com/image.iso
      op: ./images/image.iso
  s3:
    - link: s3://mybucket/archive.tar`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			data, err := os.ReadFile(args[0])
			if err != nil {
				output.PrintError(fmt.Sprintf("Error reading YAML file: %v", err))
				os.Exit(1)
			}
			var batchFile utils.BatchFile
			if err := yaml.Unmarshal(data, &batchFile); err != nil {
				output.PrintError(fmt.Sprintf("Error parsing YAML file: %v", err))
				os.Exit(1)
			}
			jobs := buildJobsFromBatch(batchFile)
			if len(jobs) == 0 {
				output.PrintError("No valid jobs found in the batch file")
				os.Exit(1)
			}
			if err := scheduler.Run(jobs, appConfig.ParallelJobs); err != nil {
				os.Exit(1)
			}
		},
	}
}

func buildJobsFromBatch(batchFile utils.BatchFile) []utils.Job {
	jobTypes := make([]string, 0, len(batchFile))
	for jobType := range batchFile {
		jobTypes = append(jobTypes, jobType)
	}
	sort.Strings(jobTypes)

	var jobs []utils.Job
	for _, jobType := range jobTypes {
		normalizedType := normalizeJobType(jobType)
		if normalizedType == "" {
			output.PrintWarning(fmt.Sprintf("Unknown job type '%s', skipping...", jobType))
			continue
		}
		for _, entry := range batchFile[jobType] {
			if entry.Link == "" {
				output.PrintWarning(fmt.Sprintf("Empty link found in %s section, skipping...", jobType))
				continue
			}
			jobs = append(jobs, utils.Job{
				JobType:          normalizedType,
				URL:              entry.Link,
				OutputPath:       entry.OutputPath,
				Connections:      appConfig.Workers,
				ChunkSize:        appConfig.ChunkSize,
				RequestTimeout:   appConfig.RequestTimeout,
				HTTPClientConfig: globalHTTPConfig,
				Metadata:         make(map[string]any),
			})
		}
	}
	return jobs
}

func normalizeJobType(jobType string) string {
	switch strings.ToLower(jobType) {
	case "http", "https":
		return "http"
	case "s3":
		return "s3"
	default:
		return ""
	}
}
