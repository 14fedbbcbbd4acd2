package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs [job-id]",
	Short: "List or inspect ingestion jobs",
	Long: `List all ingestion jobs or inspect a specific job by ID.

Examples:
  docshelf jobs           # List all jobs
  docshelf jobs abc123    # Show details for job abc123`,
	Args: cobra.MaximumNArgs(1),
	RunE: runJobs,
}

func runJobs(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if len(args) == 1 {
		return showJob(ctx, args[0])
	}
	return listJobs(ctx)
}

func listJobs(ctx context.Context) error {
	jobs, err := api.ListJobs(ctx)
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}

	if len(jobs) == 0 {
		fmt.Println("No jobs found")
		return nil
	}

	fmt.Printf("%-38s %-12s %-12s %-10s %s\n", "ID", "FOLDER", "STATUS", "PROGRESS", "OUTCOME")
	fmt.Println("--------------------------------------------------------------------------------")

	for _, job := range jobs {
		progress := ""
		if job.TotalPages > 0 {
			progress = fmt.Sprintf("%d/%d", job.CurrentPage, job.TotalPages)
		}
		fmt.Printf("%-38s %-12s %-12s %-10s %s\n", job.JobID, job.Folder, job.Status, progress, job.Outcome)
	}
	return nil
}

func showJob(ctx context.Context, id string) error {
	job, err := api.JobStatus(ctx, id)
	if err != nil {
		return fmt.Errorf("get job: %w", err)
	}

	fmt.Printf("Job: %s\n", job.JobID)
	fmt.Printf("  Folder: %s\n", job.Folder)
	fmt.Printf("  Status: %s\n", job.Status)
	if job.TotalPages > 0 {
		fmt.Printf("  Progress: %d/%d pages (%d%%)\n", job.CurrentPage, job.TotalPages, job.Percent)
	}
	if job.Outcome != "" {
		fmt.Printf("  Outcome: %s\n", job.Outcome)
	}
	if job.Error != "" {
		fmt.Printf("  Error: %s\n", job.Error)
	}

	if len(job.Results) > 0 {
		fmt.Println("\nFiles:")
		for _, r := range job.Results {
			if r.Error != "" {
				fmt.Printf("  %-10s %s (%s)\n", r.Status, r.Filename, r.Error)
			} else {
				fmt.Printf("  %-10s %s\n", r.Status, r.Filename)
			}
		}
	}
	return nil
}
