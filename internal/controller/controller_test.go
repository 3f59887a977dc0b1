// Package controller_test 提供各屏幕视图状态控制器的单元测试
// 控制器跑在真实的内存SQLite存储之上，不使用mock
package controller_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/snapnote/snapnote/config"
	"github.com/snapnote/snapnote/internal/database"
	"github.com/snapnote/snapnote/internal/repository"
	noteservice "github.com/snapnote/snapnote/internal/service/note"
	"github.com/snapnote/snapnote/internal/service/notify"
	schedulerservice "github.com/snapnote/snapnote/internal/service/scheduler"
)

// testNoteLimits 测试用的笔记字段上限
var testNoteLimits = config.NoteConfig{
	MaxTitleLength:      100,
	MaxBodyLength:       1000,
	MaxFolderNameLength: 50,
}

// setupRepo 组装内存存储之上的完整数据访问门面
func setupRepo(t *testing.T) repository.SnapnoteRepository {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.MigrateNoteTables(db))

	notes := noteservice.NewNoteService(db)
	scheduler := schedulerservice.NewSchedulerService(config.SchedulerConfig{
		TickIntervalMillis: 1000,
		Language:           "en-US",
	}, notify.NewNotifyService())

	return repository.NewSnapnoteRepository(notes, scheduler)
}

// mustAdd 通过门面插入一条笔记
func mustAdd(t *testing.T, repo repository.SnapnoteRepository, n database.Note) database.Note {
	t.Helper()
	require.NoError(t, repo.AddNote(&n))
	require.NotZero(t, n.ID)
	return n
}
