package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	moveit "moveit/internal/app"
	"moveit/internal/core/challenges"
	"moveit/internal/core/countdown"
	"moveit/internal/notify"
	"moveit/internal/platform"
	"moveit/internal/storage"
	"moveit/internal/ui/dashboard"
	"moveit/internal/ui/preferences"
	"moveit/internal/ui/tray"
	"moveit/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"go.uber.org/zap"
)

func runDesktop(ctx context.Context) error {
	env, err := bootstrap(false)
	if err != nil {
		return err
	}
	logger := env.logger
	defer func() { _ = logger.Sync() }()

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			logger.Info("another instance is running, asked it to show its window")
			return nil
		}
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := app.NewWithID("app.moveit")
	fyneApp.SetIcon(resources.MustLogo("moveit.svg"))

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
		Notifier:   gate.Filter(notify.NewFyneNotifier(fyneApp)),
		Sound:      sound,
		Permission: gate,
		Logger:     logger,
	})
	defer session.Close()

	dash := dashboard.New(fyneApp, session, dashboard.Config{LevelUpModal: settings.LevelUpModal})

	apply := func(updated preferences.Settings) {
		if updated.CountdownDuration != settings.CountdownDuration {
			session.SetCountdownDuration(updated.CountdownDuration)
		}
		if updated.LaunchAtLogin != settings.LaunchAtLogin {
			env.applyAutostart(updated.LaunchAtLogin)
		}
		gate.SetEnabled(updated.Notifications)
		sound.SetEnabled(updated.Sound)
		dash.UpdateConfig(dashboard.Config{LevelUpModal: updated.LevelUpModal})
		settings = updated
	}

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		if err := storage.SaveSettings(env.paths.Settings(), updated); err != nil {
			logger.Warn("save settings", zap.Error(err))
		}
		apply(updated)
	})

	activeIcon := resources.MustLogo("moveit.svg")
	idleIcon := resources.MustLogo("moveit-paused.svg")

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager := tray.New(desktopApp, tray.Callbacks{
			OnOpen:        dash.Show,
			OnPreferences: prefsWindow.Show,
			OnToggleCycle: func() {
				if session.Countdown.Snapshot().IsActive {
					session.AbandonCycle()
					return
				}
				session.StartCountdown()
			},
			OnComplete: session.CompleteChallenge,
			OnFail:     session.FailChallenge,
			OnQuit:     fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(idleIcon)
		dash.SetCloseIntercept(dash.Hide)
		followTray(desktopApp, trayManager, session, activeIcon, idleIcon)
	} else {
		logger.Info("system tray unsupported on this platform")
	}

	dash.Follow(session.Tracker.Subscribe(16), session.Countdown.Subscribe(16))
	guard.Serve(func() {
		fyne.Do(dash.Show)
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	watcher, err := storage.NewWatcher(env.paths.Settings(), 300*time.Millisecond, func() {
		reloaded, ok, err := storage.ReloadSettings(env.paths.Settings())
		if err != nil {
			logger.Warn("reload settings", zap.Bool("applied", ok), zap.Error(err))
		}
		if !ok {
			return
		}
		fyne.Do(func() {
			apply(reloaded)
			prefsWindow.UpdateSettings(reloaded)
		})
	}, logger)
	if err != nil {
		logger.Warn("settings will not reload automatically", zap.Error(err))
	} else {
		go func() {
			_ = watcher.Run(runCtx)
		}()
	}

	session.Start(runCtx)
	go func() {
		<-runCtx.Done()
		fyne.Do(fyneApp.Quit)
	}()

	if !background {
		dash.Show()
	}
	fyneApp.Run()

	cancel()
	if watcher != nil {
		<-watcher.Done()
	}
	return nil
}

func followTray(desktopApp desktop.App, trayManager *tray.Manager, session *moveit.Session, activeIcon, idleIcon fyne.Resource) {
	trackerEvents := session.Tracker.Subscribe(16)
	countdownEvents := session.Countdown.Subscribe(16)

	renderTracker := func(snapshot challenges.Snapshot) {
		trayManager.SetProgress(snapshot.Level, snapshot.CurrentExperience, snapshot.ExperienceToNextLevel)
		trayManager.SetChallenge(snapshot.Active != nil)
	}
	renderCountdown := func(snapshot countdown.Snapshot) {
		switch snapshot.State {
		case countdown.StateRunning:
			trayManager.SetStatus(fmt.Sprintf("next challenge in %02d:%02d", snapshot.Minutes, snapshot.Seconds))
			desktopApp.SetSystemTrayIcon(activeIcon)
		case countdown.StateFinished:
			trayManager.SetStatus("challenge waiting")
			desktopApp.SetSystemTrayIcon(activeIcon)
		default:
			trayManager.SetStatus("idle")
			desktopApp.SetSystemTrayIcon(idleIcon)
		}
		trayManager.SetRunning(snapshot.IsActive)
	}

	renderTracker(session.Tracker.Snapshot())
	renderCountdown(session.Countdown.Snapshot())

	go func() {
		for trackerEvents != nil || countdownEvents != nil {
			select {
			case event, ok := <-trackerEvents:
				if !ok {
					trackerEvents = nil
					continue
				}
				fyne.Do(func() { renderTracker(event.Snapshot) })
			case event, ok := <-countdownEvents:
				if !ok {
					countdownEvents = nil
					continue
				}
				fyne.Do(func() { renderCountdown(event.Snapshot) })
			}
		}
	}()
}
