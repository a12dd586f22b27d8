package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/compositor/internal/job"
)

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate JOB",
		Short: "Check a job file and its graph without rendering",
		Args:  exactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.validate(args[0])
		},
	}
}

func (a *app) validate(path string) error {
	j, err := job.Load(path)
	if err != nil {
		return &ExitError{Code: exitJob, Message: err.Error()}
	}
	sys, err := a.convert(j, nil, nil, nil)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s: ok (%d nodes, %d operations, %d outputs)\n",
		path, len(j.Tree.Nodes), sys.Len(), len(sys.Outputs()))
	return nil
}
