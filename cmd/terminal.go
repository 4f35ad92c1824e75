package main

import (
	"context"
	"errors"
	"os"
	"time"

	moveit "moveit/internal/app"
	"moveit/internal/notify"
	"moveit/internal/storage"
	"moveit/internal/ui/terminal"
	"moveit/resources"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func runTerminal(ctx context.Context) error {
	env, err := bootstrap(true)
	if err != nil {
		return err
	}
	logger := env.logger
	defer func() { _ = logger.Sync() }()

	soundData, err := resources.Sound(resources.NotificationSound)
	if err != nil {
		return err
	}

	settings := env.settings
	gate := notify.NewGate(settings.Notifications)
	sound := notify.NewSoundPlayer("moveit-"+resources.NotificationSound, soundData, settings.Sound, logger)
	session := moveit.New(moveit.Config{
		Countdown:  settings.CountdownConfig(),
		Catalog:    env.catalog,
		Store:      env.store,
		Notifier:   gate.Filter(notify.NewLogNotifier(logger, os.Stdout)),
		Sound:      sound,
		Permission: gate,
		Logger:     logger,
	})
	defer session.Close()

	group, groupCtx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(groupCtx)
	defer cancel()

	session.Start(runCtx)
	program := tea.NewProgram(terminal.New(session, settings.LevelUpModal), tea.WithAltScreen(), tea.WithContext(runCtx))

	group.Go(func() error {
		defer cancel()
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})

	watcher, err := storage.NewWatcher(env.paths.Settings(), 300*time.Millisecond, func() {
		reloaded, ok, err := storage.ReloadSettings(env.paths.Settings())
		if err != nil {
			logger.Warn("reload settings", zap.Bool("applied", ok), zap.Error(err))
		}
		if !ok {
			return
		}
		if reloaded.CountdownDuration != settings.CountdownDuration {
			session.SetCountdownDuration(reloaded.CountdownDuration)
		}
		gate.SetEnabled(reloaded.Notifications)
		sound.SetEnabled(reloaded.Sound)
		settings = reloaded
	}, logger)
	if err != nil {
		logger.Warn("settings will not reload automatically", zap.Error(err))
	} else {
		group.Go(func() error {
			return watcher.Run(runCtx)
		})
	}

	return group.Wait()
}
