// File: cmd/split.go
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ctxgen/pkg/consolidate"
)

var (
	splitDest    string
	splitWorkers int
	splitList    bool
)

// splitCmd restores the files recorded in a plain artifact.
var splitCmd = &cobra.Command{
	Use:   "split ARTIFACT",
	Short: "Split a plain artifact back into its source files",
	Long: `Split parses a plain-format artifact produced by generate and restores
each recorded file under the destination directory, recreating the
original relative layout.`,
	Args: cobra.ExactArgs(1),
	RunE: runSplit,
}

func init() {
	splitCmd.Flags().StringVarP(&splitDest, "dest", "d", ".", "directory to restore files into")
	splitCmd.Flags().IntVar(&splitWorkers, "workers", 0, "restore workers, 0 for one per CPU")
	splitCmd.Flags().BoolVar(&splitList, "list", false, "list the recorded files without restoring them")
	RootCmd.AddCommand(splitCmd)
}

func runSplit(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	blocks, err := consolidate.Split(f)
	if err != nil {
		return err
	}

	if splitList {
		for _, b := range blocks {
			fmt.Printf("%8d  %s\n", len(b.Content), b.Path)
		}
		fmt.Printf("%d files recorded in %s\n", len(blocks), args[0])
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := consolidate.Restore(ctx, blocks, splitDest, splitWorkers, logger); err != nil {
		return err
	}
	logger.Info("artifact restored",
		zap.Int("files", len(blocks)),
		zap.String("dest", splitDest))
	fmt.Printf("Restored %d files to %s\n", len(blocks), splitDest)
	return nil
}
