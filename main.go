package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/snapnote/snapnote/config"
	"github.com/snapnote/snapnote/internal/controller"
	"github.com/snapnote/snapnote/internal/database"
	"github.com/snapnote/snapnote/internal/i18n"
	"github.com/snapnote/snapnote/internal/logger"
	"github.com/snapnote/snapnote/internal/repository"
	noteservice "github.com/snapnote/snapnote/internal/service/note"
	notifyservice "github.com/snapnote/snapnote/internal/service/notify"
	preferenceservice "github.com/snapnote/snapnote/internal/service/preference"
	schedulerservice "github.com/snapnote/snapnote/internal/service/scheduler"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	if err := logger.Init(&cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// 设置默认语言，提醒日期时间按此语言的短格式解析
	i18n.GetInstance().SetDefaultLanguage(cfg.Scheduler.Language)

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}

	// 初始化服务层
	noteService := noteservice.NewNoteService(db)
	notifyService := notifyservice.NewNotifyService()
	schedulerService := schedulerservice.NewSchedulerService(cfg.Scheduler, notifyService)
	preferenceService := preferenceservice.NewPreferenceService(cfg.Preference.FilePath)

	// 初始化数据访问门面
	repo := repository.NewSnapnoteRepository(noteService, schedulerService)

	// 初始化各屏幕控制器
	homeController := controller.NewHomeController(repo)
	createController := controller.NewCreateNoteController(repo, cfg.Note)
	searchController := controller.NewSearchController(
		repo, time.Duration(cfg.Search.DebounceMillis)*time.Millisecond)

	logger.Infof("主列表已加载: %d条笔记", len(homeController.UiState().Notes))
	logger.Debugf("文件夹建议: %v", createController.Folders())

	// 启动提醒调度循环
	schedulerCtx, cancelScheduler := context.WithCancel(context.Background())
	if err := schedulerService.Start(schedulerCtx); err != nil {
		logger.Fatalf("Failed to start scheduler service: %v", err)
	}

	// 首次启动后清除新安装标记
	prefs := preferenceService.Load()
	if prefs.IsNewInstall {
		if err := preferenceService.SetFirstUse(false); err != nil {
			logger.Errorf("Failed to persist first-use flag: %v", err)
		}
	}

	logger.Info("Snapnote已启动")

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("正在关闭...")

	searchController.Close()
	cancelScheduler()
	if err := schedulerService.Stop(); err != nil {
		logger.Errorf("Failed to stop scheduler service: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Errorf("Failed to close database: %v", err)
		}
	}

	logger.Info("Snapnote已退出")
}
