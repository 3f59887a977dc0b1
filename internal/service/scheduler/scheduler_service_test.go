// Package scheduler_test 提供提醒调度服务的单元测试
// 覆盖日期时间解析、任务入队/取消和到期投递
package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapnote/snapnote/config"
	"github.com/snapnote/snapnote/internal/database"
	"github.com/snapnote/snapnote/internal/service/notify"
	schedulerservice "github.com/snapnote/snapnote/internal/service/scheduler"
)

// setupScheduler 设置调度服务，tick间隔用较短值方便测试投递
func setupScheduler(tickMillis int, lang string) (schedulerservice.SchedulerService, notify.NotifyService) {
	notifier := notify.NewNotifyService()
	s := schedulerservice.NewSchedulerService(config.SchedulerConfig{
		TickIntervalMillis: tickMillis,
		Language:           lang,
	}, notifier)
	return s, notifier
}

// enUSDateTime 按en-US短格式渲染给定时刻
func enUSDateTime(at time.Time) (string, string) {
	return at.Format("1/2/06"), at.Format("3:04 PM")
}

// TestSchedule 测试任务入队
func TestSchedule(t *testing.T) {
	s, _ := setupScheduler(1000, "en-US")

	t.Run("合法日期时间返回非空任务句柄", func(t *testing.T) {
		date, clock := enUSDateTime(time.Now().Add(time.Minute))
		taskID, err := s.Schedule(&database.Note{
			ID: 1, Title: "开会", Body: "带笔记本", Date: date, Time: clock,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, taskID)
		assert.Equal(t, 1, s.Pending())
	})

	t.Run("两次入队返回不同句柄", func(t *testing.T) {
		date, clock := enUSDateTime(time.Now().Add(time.Minute))
		first, err := s.Schedule(&database.Note{ID: 2, Date: date, Time: clock})
		require.NoError(t, err)
		second, err := s.Schedule(&database.Note{ID: 2, Date: date, Time: clock})
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("非法日期返回解析错误", func(t *testing.T) {
		_, err := s.Schedule(&database.Note{ID: 3, Date: "not-a-date", Time: "3:04 PM"})
		assert.Error(t, err)
	})

	t.Run("非法时间返回解析错误", func(t *testing.T) {
		date, _ := enUSDateTime(time.Now())
		_, err := s.Schedule(&database.Note{ID: 4, Date: date, Time: "25:99"})
		assert.Error(t, err)
	})

	t.Run("中文短格式按语言解析", func(t *testing.T) {
		zh, _ := setupScheduler(1000, "zh-CN")
		at := time.Now().Add(time.Minute)
		taskID, err := zh.Schedule(&database.Note{
			ID: 5, Date: at.Format("2006/1/2"), Time: at.Format("15:04"),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, taskID)
	})
}

// TestCancel 测试任务取消
func TestCancel(t *testing.T) {
	s, _ := setupScheduler(1000, "en-US")

	date, clock := enUSDateTime(time.Now().Add(time.Minute))
	taskID, err := s.Schedule(&database.Note{ID: 1, Date: date, Time: clock})
	require.NoError(t, err)

	t.Run("取消已入队任务", func(t *testing.T) {
		require.NoError(t, s.Cancel(taskID))
		assert.Zero(t, s.Pending())
	})

	t.Run("重复取消返回错误", func(t *testing.T) {
		assert.Error(t, s.Cancel(taskID))
	})

	t.Run("取消未知句柄返回错误", func(t *testing.T) {
		assert.Error(t, s.Cancel("unknown-task"))
	})
}

// TestDelivery 测试到期投递
func TestDelivery(t *testing.T) {
	s, notifier := setupScheduler(10, "en-US")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))
	defer func() { require.NoError(t, s.Stop()) }()

	t.Run("已过期任务在下一个tick投递", func(t *testing.T) {
		// 目标时刻在过去，延时为负
		date, clock := enUSDateTime(time.Now().Add(-2 * time.Minute))
		_, err := s.Schedule(&database.Note{
			ID: 7, Title: "过期提醒", Body: "正文", Date: date, Time: clock,
		})
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			_, ok := notifier.Delivered(7)
			return ok
		}, 2*time.Second, 10*time.Millisecond, "过期任务应立即投递")

		n, _ := notifier.Delivered(7)
		assert.Equal(t, "过期提醒", n.Title)
		assert.Equal(t, "正文", n.Body)
		assert.Zero(t, s.Pending())
	})

	t.Run("未到期任务保留在队列", func(t *testing.T) {
		date, clock := enUSDateTime(time.Now().Add(time.Hour))
		_, err := s.Schedule(&database.Note{ID: 8, Title: "未来提醒", Date: date, Time: clock})
		require.NoError(t, err)

		time.Sleep(100 * time.Millisecond)
		_, ok := notifier.Delivered(8)
		assert.False(t, ok)
		assert.Equal(t, 1, s.Pending())
	})
}

// TestLifecycle 测试启动停止生命周期
func TestLifecycle(t *testing.T) {
	s, _ := setupScheduler(10, "en-US")

	t.Run("重复启动返回错误", func(t *testing.T) {
		require.NoError(t, s.Start(context.Background()))
		assert.Error(t, s.Start(context.Background()))
		require.NoError(t, s.Stop())
	})

	t.Run("停止后未投递任务保留", func(t *testing.T) {
		date, clock := enUSDateTime(time.Now().Add(time.Hour))
		_, err := s.Schedule(&database.Note{ID: 1, Date: date, Time: clock})
		require.NoError(t, err)

		assert.Equal(t, 1, s.Pending())
	})

	t.Run("未启动时停止是空操作", func(t *testing.T) {
		fresh, _ := setupScheduler(10, "en-US")
		assert.NoError(t, fresh.Stop())
	})
}
