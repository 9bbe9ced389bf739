package cmd

import (
	"context"
	"fmt"
	u "net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	rangehttp "github.com/tanq16/rangefetch/internal/downloaders/http"
	"github.com/tanq16/rangefetch/internal/output"
	"github.com/tanq16/rangefetch/internal/utils"
)

func newHTTPCmd() *cobra.Command {
	var dir string
	var name string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "http [URL] [--dir DIR] [--name NAME]",
		Short: "Download a file via HTTP/HTTPS range requests",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			parsedURL, err := u.Parse(args[0])
			if err != nil {
				output.PrintError("Invalid URL format")
				os.Exit(1)
			}
			if name == "" {
				name = utils.FileNameFromURL(parsedURL)
			}
			if outputPath := filepath.Join(dir, name); utils.FileExists(outputPath) {
				name = filepath.Base(utils.RenewOutputPath(outputPath))
			}

			opts := []rangehttp.Option{
				rangehttp.WithClient(utils.NewHTTPClient(globalHTTPConfig)),
				rangehttp.WithWorkers(appConfig.Workers),
				rangehttp.WithChunkSize(appConfig.ChunkSize),
				rangehttp.WithRequestTimeout(appConfig.RequestTimeout),
			}
			if globalHTTPConfig.Username != "" {
				opts = append(opts, rangehttp.WithBasicAuth(globalHTTPConfig.Username, globalHTTPConfig.Password))
			}
			var bar *progressbar.ProgressBar
			if !quiet {
				bar = progressbar.DefaultBytes(-1, name)
				opts = append(opts, rangehttp.WithProgress(updateBar, bar))
			}

			job, err := rangehttp.NewJob(args[0], dir, name, opts...)
			if err != nil {
				output.PrintError(err.Error())
				os.Exit(1)
			}
			output.PrintInfo(fmt.Sprintf("Downloading %s with %d connections", job.Name, job.Workers))
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			finalPath, err := rangehttp.Run(ctx, job)
			if bar != nil {
				bar.Finish()
				fmt.Println()
			}
			if err != nil {
				output.PrintError(fmt.Sprintf("Download failed: %v", err))
				stop()
				os.Exit(1)
			}
			output.PrintSuccess(fmt.Sprintf("Saved %s", finalPath))
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Destination directory (must exist)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Destination file name (inferred from URL if not provided)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Disable the progress bar")
	return cmd
}

// updateBar receives the progress bar as its extra argument.
func updateBar(_, total, chunk int64, args ...any) {
	bar := args[0].(*progressbar.ProgressBar)
	if bar.GetMax64() != total {
		bar.ChangeMax64(total)
	}
	bar.Add64(chunk)
}
