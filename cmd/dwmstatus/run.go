package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/dwmstatus/internal/config"
	"github.com/jmylchreest/dwmstatus/internal/daemon"
	"github.com/jmylchreest/dwmstatus/internal/dbus"
	"github.com/jmylchreest/dwmstatus/internal/publish"
	"github.com/jmylchreest/dwmstatus/internal/sensor"
	"github.com/jmylchreest/dwmstatus/internal/status"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the status daemon (default)",
	Long: `Run the status daemon until SIGINT or SIGTERM.

On a signal the daemon stops polling and leaves a final line naming the
signal on the bar. A failure to write to the X server is fatal; run
dwmstatus under a supervisor that restarts it.`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	logger.Info("starting dwmstatus", "version", version)

	// Subscribe before anything starts so an early signal is not lost
	signals, stopSignals := daemon.NotifySignals()
	defer stopSignals()

	ctx := context.Background()

	deps, closeDeps := sensor.NewDeps(cfg)
	defer closeDeps()

	pub, err := publish.New(cfg, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to open publisher: %w", err)
	}
	worker := publish.NewWorker(pub, logger)
	worker.Start()
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := worker.Close(closeCtx); err != nil {
			logger.Warn("failed to close publisher", "error", err)
		}
	}()

	mailbox := daemon.NewMailbox()
	composer := status.NewComposer(cfg, sensor.Adapters(cfg, deps))
	scheduler := daemon.NewScheduler(mailbox, worker, daemon.NewSettings(cfg, composer), logger)

	listener, err := dbus.NewListener(cfg.Notifications.Mode, logger)
	if err != nil {
		return err
	}
	listener.SetNotifyHandler(func(dn *dbus.DBusNotification, id uint32) {
		n, err := dn.ToModel(id)
		if err != nil {
			logger.Error("failed to accept notification", "id", id, "error", err)
			return
		}
		logger.Debug("notification received", "id", n.ID, "dbus_id", id, "notification", n.String())
		if replaced := mailbox.Put(n); replaced != nil {
			logger.Debug("replaced pending notification", "replaced", replaced.ID, "by", n.ID)
		}
	})

	server, isServer := listener.(*dbus.NotificationServer)
	if isServer {
		info := dbus.DefaultServerInfo()
		info.Version = version
		server.SetServerInfo(info)
		daemon.ReportClosed(server, mailbox, scheduler, logger)
	}

	if err := listener.Start(); err != nil {
		return fmt.Errorf("failed to start notification listener: %w", err)
	}
	defer func() {
		if err := listener.Stop(); err != nil {
			logger.Warn("failed to stop notification listener", "error", err)
		}
	}()

	notifier := daemon.NewInternalNotifier(mailbox, logger)
	notifier.SetEnabled(cfg.Notifications.SelfNotify)

	if stopWatcher := watchConfig(ctx, scheduler, notifier, deps); stopWatcher != nil {
		defer stopWatcher()
	}

	coordinator := daemon.NewCoordinator(scheduler, worker, signals, logger)
	if err := coordinator.Run(ctx); err != nil {
		return err
	}

	logger.Info("dwmstatus stopped")
	return nil
}

// watchConfig reloads the config file into the running scheduler.
// Changes to the audio backend, notification mode or output target need a
// restart. It returns nil if the file cannot be watched.
func watchConfig(ctx context.Context, scheduler *daemon.Scheduler, notifier *daemon.InternalNotifier, deps sensor.Deps) func() {
	path, err := configPath()
	if err != nil {
		logger.Warn("config hot reload disabled", "error", err)
		return nil
	}

	watcher := daemon.NewConfigWatcher(path, logger)
	watcher.SetReloadCallback(func(newCfg *config.Config) {
		if restartRequired(cfg, newCfg) {
			logger.Warn("some config changes take effect after a restart",
				"audio_backend", newCfg.Audio.Backend,
				"notifications_mode", newCfg.Notifications.Mode,
				"output_target", newCfg.Output.Target)
		}

		composer := status.NewComposer(newCfg, sensor.Adapters(newCfg, deps))
		scheduler.SetSettings(daemon.NewSettings(newCfg, composer))

		notifier.SetEnabled(newCfg.Notifications.SelfNotify)
		notifier.NotifyConfigReloaded()
	})
	watcher.SetErrorCallback(func(err error) {
		notifier.NotifyConfigError(err)
	})

	if err := watcher.Start(ctx, cfg); err != nil {
		logger.Warn("config hot reload disabled", "path", path, "error", err)
		return nil
	}
	return watcher.Stop
}

func restartRequired(oldCfg, newCfg *config.Config) bool {
	return oldCfg.Audio.Backend != newCfg.Audio.Backend ||
		oldCfg.Notifications.Mode != newCfg.Notifications.Mode ||
		oldCfg.Output.Target != newCfg.Output.Target
}
