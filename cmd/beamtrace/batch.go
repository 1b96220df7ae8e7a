package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var batchWorkers int

var batchCmd = &cobra.Command{
	Use:   "batch <file>...",
	Short: "Analyze many measurement files in parallel",
	Long: `Analyze many measurement files in parallel.

Each file is an independent pipeline run with its own arrays and its own
write-back, so runs need no coordination. A failed file is logged and
skipped; the command exits nonzero if any file failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if batchWorkers < 1 {
			batchWorkers = 1
		}

		bar := progressbar.Default(int64(len(args)), "analyzing")
		files := make(chan string)
		var failed atomic.Int64

		var wg sync.WaitGroup
		for w := 0; w < batchWorkers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for file := range files {
					if err := batchOne(file); err != nil {
						failed.Add(1)
						log.Printf("ERROR %v", err)
					}
					bar.Add(1)
				}
			}()
		}

		ctx := cmd.Context()
	feed:
		for _, f := range args {
			select {
			case files <- f:
			case <-ctx.Done():
				break feed
			}
		}
		close(files)
		wg.Wait()

		if err := ctx.Err(); err != nil && err != context.Canceled {
			return err
		}
		if n := failed.Load(); n > 0 {
			return fmt.Errorf("%d of %d files failed", n, len(args))
		}
		infof("batch complete: %d files", len(args))
		return nil
	},
}

// batchOne analyzes one file and writes its results back.
func batchOne(file string) error {
	result, tree, err := analyzeOne(file)
	if err != nil {
		return err
	}
	if tree == nil {
		debugf("%s: image input, flux %.6g counts/s", file, result.Flux)
		return nil
	}
	for _, e := range result.Elements(cfg.ResultGroup) {
		if err := tree.Attach(e); err != nil {
			return fmt.Errorf("%s: write-back of %s failed: %w", file, e.Destination, err)
		}
	}
	if err := tree.Save(); err != nil {
		return fmt.Errorf("%s: write-back failed: %w", file, err)
	}
	debugf("%s: flux %.6g counts/s", file, result.Flux)
	return nil
}

func init() {
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 4, "number of files to analyze concurrently")
	rootCmd.AddCommand(batchCmd)
}
