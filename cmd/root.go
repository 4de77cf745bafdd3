package cmd

import (
	"context"
	"os"
	"time"

	globalConfig "github.com/AzielCF/az-xpost/config"
	domainPublish "github.com/AzielCF/az-xpost/domains/publish"
	domainSchedule "github.com/AzielCF/az-xpost/domains/schedule"
	"github.com/AzielCF/az-xpost/infrastructure/marker"
	"github.com/AzielCF/az-xpost/infrastructure/sheets"
	"github.com/AzielCF/az-xpost/infrastructure/webhook"
	"github.com/AzielCF/az-xpost/infrastructure/x"
	"github.com/AzielCF/az-xpost/pkg/timeutils"
	"github.com/AzielCF/az-xpost/pkg/utils"
	"github.com/AzielCF/az-xpost/usecase"
	"github.com/AzielCF/az-xpost/validations"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd is the whole CLI: one invocation, one scheduling pass. An external
// periodic trigger (cron, CI schedule) provides the cadence.
var rootCmd = &cobra.Command{
	Use:   "az-xpost",
	Short: "Publish the next due scheduled thread from a spreadsheet",
	Long: `az-xpost checks a spreadsheet CSV export for planned posts, publishes at
most one due row as a thread (parent, optional image, up to two replies)
and reports the outcome to an operator webhook. It is a one-shot process
meant to be invoked periodically, e.g. from cron.`,
	Run: runCheck,
}

func init() {
	// Load environment variables first
	utils.LoadConfig(".")

	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()

	cobra.OnInitialize(initEnvConfig)
}

// initEnvConfig loads configuration from environment variables
func initEnvConfig() {
	if viper.IsSet("app_debug") {
		globalConfig.AppDebug = viper.GetBool("app_debug")
	}

	// Posting API credentials
	if v := viper.GetString("x_api_key"); v != "" {
		globalConfig.XAPIKey = v
	}
	if v := viper.GetString("x_api_secret"); v != "" {
		globalConfig.XAPISecret = v
	}
	if v := viper.GetString("x_access_token"); v != "" {
		globalConfig.XAccessToken = v
	}
	if v := viper.GetString("x_access_secret"); v != "" {
		globalConfig.XAccessSecret = v
	}

	// Schedule source and operator channel
	if v := viper.GetString("sheet_url"); v != "" {
		globalConfig.SheetURL = v
	}
	if v := viper.GetString("webhook_url"); v != "" {
		globalConfig.WebhookURL = v
	}

	// Scheduling behaviour
	if viper.IsSet("window_minutes") {
		globalConfig.WindowMinutes = viper.GetInt("window_minutes")
	}
	if v := viper.GetString("window_policy"); v != "" {
		globalConfig.WindowPolicy = v
	}
	if viper.IsSet("reply_delay_seconds") {
		globalConfig.ReplyDelaySeconds = viper.GetInt("reply_delay_seconds")
	}
	if viper.IsSet("schedule_utc_offset_minutes") {
		globalConfig.ScheduleUTCOffsetMinutes = viper.GetInt("schedule_utc_offset_minutes")
	}

	if v := viper.GetString("marker_db_path"); v != "" {
		globalConfig.MarkerDBPath = v
	}
}

func initFlags() {
	rootCmd.PersistentFlags().BoolVarP(
		&globalConfig.AppDebug,
		"debug", "d",
		globalConfig.AppDebug,
		"hide or displaying log with --debug <true/false> | example: --debug=true",
	)
	rootCmd.PersistentFlags().StringVarP(
		&globalConfig.SheetURL,
		"sheet-url", "s",
		globalConfig.SheetURL,
		`schedule sheet share or CSV export URL --sheet-url <string> | example: --sheet-url="https://docs.google.com/spreadsheets/d/ID/edit"`,
	)
	rootCmd.PersistentFlags().StringVarP(
		&globalConfig.WebhookURL,
		"webhook", "w",
		globalConfig.WebhookURL,
		`forward run outcomes to webhook --webhook <string> | example: --webhook="https://yourcallback.com/callback"`,
	)
	rootCmd.PersistentFlags().IntVarP(
		&globalConfig.WindowMinutes,
		"window-minutes", "",
		globalConfig.WindowMinutes,
		`eligibility window size in minutes --window-minutes <number> | example: --window-minutes=30`,
	)
	rootCmd.PersistentFlags().StringVarP(
		&globalConfig.WindowPolicy,
		"window-policy", "",
		globalConfig.WindowPolicy,
		`eligibility window policy --window-policy <symmetric/forward> | "forward" never posts ahead of schedule`,
	)
	rootCmd.PersistentFlags().IntVarP(
		&globalConfig.ReplyDelaySeconds,
		"reply-delay", "",
		globalConfig.ReplyDelaySeconds,
		`seconds to wait before each reply post --reply-delay <number> | example: --reply-delay=10`,
	)
	rootCmd.PersistentFlags().IntVarP(
		&globalConfig.ScheduleUTCOffsetMinutes,
		"utc-offset", "",
		globalConfig.ScheduleUTCOffsetMinutes,
		`fixed UTC offset in minutes for schedule cells --utc-offset <number> | example: --utc-offset=540 for +09:00`,
	)
	rootCmd.PersistentFlags().StringVarP(
		&globalConfig.MarkerDBPath,
		"marker-db", "",
		globalConfig.MarkerDBPath,
		`optional sqlite file recording published rows --marker-db <string> | example: --marker-db="storages/markers.db"`,
	)
}

func runCheck(_ *cobra.Command, _ []string) {
	if code := executeRun(); code != 0 {
		os.Exit(code)
	}
}

func executeRun() int {
	if globalConfig.AppDebug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	runID := uuid.NewString()
	logrus.WithFields(logrus.Fields{
		"run_id":  runID,
		"version": globalConfig.AppVersion,
	}).Info("[APP] Starting schedule check")

	if err := utils.CreateFolder(globalConfig.PathSendItems, globalConfig.PathStorages); err != nil {
		logrus.Errorln(err)
	}

	ctx := context.Background()

	if err := validations.ValidateRunConfig(ctx); err != nil {
		logrus.WithError(err).Error("[APP] Invalid configuration")
		return 1
	}

	loc := timeutils.FixedOffsetLocation(globalConfig.ScheduleUTCOffsetMinutes)

	source := sheets.NewClient(globalConfig.SheetURL)
	selector := usecase.NewSelectorService(
		time.Duration(globalConfig.WindowMinutes)*time.Minute,
		domainSchedule.WindowPolicy(globalConfig.WindowPolicy),
		loc,
	)
	postingClient := x.NewClient(x.Credentials{
		APIKey:       globalConfig.XAPIKey,
		APISecret:    globalConfig.XAPISecret,
		AccessToken:  globalConfig.XAccessToken,
		AccessSecret: globalConfig.XAccessSecret,
	})
	publisher := usecase.NewPublishService(postingClient, time.Duration(globalConfig.ReplyDelaySeconds)*time.Second)
	notifier := webhook.NewNotifier(globalConfig.WebhookURL, runID)

	var markerStore domainSchedule.IMarkerStore
	if globalConfig.MarkerDBPath != "" {
		store, err := marker.Open(globalConfig.MarkerDBPath)
		if err != nil {
			logrus.WithError(err).Warn("[APP] Marker store unavailable, running without duplicate-post protection")
		} else {
			markerStore = store
			defer func() {
				_ = store.Close()
			}()
		}
	}

	runner := usecase.NewRunService(source, selector, publisher, notifier, markerStore)
	outcome := runner.Run(ctx)

	switch outcome.Status {
	case domainPublish.StatusHardFailure, domainPublish.StatusPartialFailure:
		return 1
	}
	return 0
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
