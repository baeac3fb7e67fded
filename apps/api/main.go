package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	echoapi "github.com/aimelive/mcsa-awards/apps/api/echo"
	"github.com/aimelive/mcsa-awards/core"
	"github.com/aimelive/mcsa-awards/core/activity"
	"github.com/aimelive/mcsa-awards/core/award"
	"github.com/aimelive/mcsa-awards/core/images"
	"github.com/aimelive/mcsa-awards/core/performance"
	"github.com/aimelive/mcsa-awards/core/season"
	"github.com/aimelive/mcsa-awards/core/user"
	emailsvc "github.com/aimelive/mcsa-awards/services/email"
	imagesvc "github.com/aimelive/mcsa-awards/services/images"
	logsvc "github.com/aimelive/mcsa-awards/services/logger"
	mongodb "github.com/aimelive/mcsa-awards/storage/database/mongo"
)

const cleanupQueueSize = 256

func main() {
	// =========================================================================
	// Set up Dependencies

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		core.Conf,
	)
	logger.Enable(!core.Conf.Debug)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// set up DB
	db, err := mongodb.Open(ctx, core.Conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			logger.Error(fmt.Sprintf("closing database: %v", err), err)
		}
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		logger.Fatal(fmt.Sprintf("creating indexes: %v", err), err)
	}

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	uploader := imagesvc.NewCloudinaryService(core.Conf, logger)
	queue := images.NewChannelQueue(cleanupQueueSize, logger)
	lifecycle := images.NewLifecycle(uploader, queue)

	consumer := images.NewConsumer(uploader, queue, logger)
	go consumer.Run(ctx)

	usrSvc := user.NewService(mongodb.NewUserRepository(db), lifecycle, mailSvc)
	profileSvc := user.NewProfileService(mongodb.NewProfileRepository(db), lifecycle)
	seasonSvc := season.NewService(mongodb.NewSeasonRepository(db))
	activitySvc := activity.NewService(mongodb.NewActivityRepository(db), lifecycle)
	performanceSvc := performance.NewService(mongodb.NewPerformanceRepository(db), lifecycle)
	awardSvc := award.NewService(mongodb.NewAwardRepository(db), lifecycle)

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", core.Conf.Build))
	defer logger.Info("Application stopped")

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(&echoapi.Options{
		Address:        core.Conf.Address(),
		Logger:         logger,
		UserSvc:        usrSvc,
		ProfileSvc:     profileSvc,
		SeasonSvc:      seasonSvc,
		ActivitySvc:    activitySvc,
		PerformanceSvc: performanceSvc,
		AwardSvc:       awardSvc,
		SignalShutdown: func() { shutdown <- syscall.SIGTERM },
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	sig := <-shutdown
	logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

	// give outstanding requests a deadline for completion
	stopCtx, stopCancel := context.WithTimeout(context.Background(), core.Conf.ShutdownTimeout)
	defer stopCancel()

	if err := server.Stop(stopCtx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}

	// drain pending cleanup events
	cancel()
	consumer.Wait()
}
