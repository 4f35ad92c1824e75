package main

import (
	"fmt"

	"moveit/internal/core/challenges"
	"moveit/internal/core/model"

	"github.com/spf13/cobra"
)

func printStatus(cmd *cobra.Command) error {
	env, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer func() { _ = env.logger.Sync() }()

	progress := challenges.LoadProgress(env.store)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Level:       %d\n", progress.Level)
	fmt.Fprintf(out, "Experience:  %d/%d xp\n", progress.CurrentExperience, model.ExperienceToNextLevel(progress.Level))
	fmt.Fprintf(out, "Completed:   %d challenges\n", progress.ChallengesCompleted)
	fmt.Fprintf(out, "Cycle:       %s\n", env.settings.CountdownDuration)
	return nil
}

func resetProgress(cmd *cobra.Command) error {
	env, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer func() { _ = env.logger.Sync() }()

	if err := env.store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Progress cleared.")
	return nil
}
