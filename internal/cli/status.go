package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renwickholm/starkverify/pkg/client"
)

func createStatusCmd() *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "status <job-id>",
		Short: "Show the status of a verification job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, args[0], wait)
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "poll until the job reaches a terminal state")

	return cmd
}

func runStatus(cmd *cobra.Command, jobID string, wait bool) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(".")
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	api, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	var job *client.Job
	var jobErr error
	if wait {
		spin := startSpinner("Waiting for verification")
		job, jobErr = api.WaitForCompletion(ctx, jobID)
		spin.Stop()
	} else {
		job, jobErr = api.JobStatus(ctx, jobID)
	}

	if job != nil {
		fmt.Printf("Job:    %s\n", job.JobID)
		fmt.Printf("Status: %s\n", job.Status)
		if job.StatusDescription != "" {
			fmt.Printf("Detail: %s\n", job.StatusDescription)
		}
		if job.ClassHash != "" {
			fmt.Printf("Class:  %s\n", job.ClassHash)
		}

		if store := openHistory(cfg, logger); store != nil {
			defer store.Close()
			if uerr := store.UpdateStatus(ctx, jobID, job.Status.String()); uerr != nil {
				logger.Debug("history not updated", "error", uerr)
			}
		}
	}

	var notFound *client.JobNotFoundError
	if errors.As(jobErr, &notFound) {
		return fmt.Errorf("%w (the job may have expired, or was submitted to another network)", jobErr)
	}
	return jobErr
}
