// Package scheduler 提供提醒任务的延时调度服务
// 主要功能包括：
// - 本地化短格式日期时间的解析与合并
// - 一次性延时任务的入队和到期投递
// - 调度循环的启动/停止生命周期管理
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/snapnote/snapnote/config"
	"github.com/snapnote/snapnote/internal/database"
	apperrors "github.com/snapnote/snapnote/internal/errors"
	"github.com/snapnote/snapnote/internal/i18n"
	"github.com/snapnote/snapnote/internal/logger"
	"github.com/snapnote/snapnote/internal/service/notify"
)

// SchedulerService 提醒调度服务接口
// 调度是fire-and-forget的：入队后没有重试，投递失败不补偿，
// 笔记被删除或修改也不会回收已入队的任务
type SchedulerService interface {
	// Start 启动调度循环
	// 参数:
	//   ctx - 上下文，用于控制服务生命周期
	// 返回:
	//   error - 重复启动时返回错误
	Start(ctx context.Context) error

	// Stop 停止调度循环并等待工作协程退出
	// 未投递的任务保留在队列中，重新Start后继续生效
	Stop() error

	// Schedule 为笔记的提醒时刻入队一个一次性任务
	// 解析note的date/time字段得到目标时刻，延时可以为负
	// （已过期的目标在下一个tick立即投递），载荷只携带
	// 标题、正文、id三个字段
	// 返回:
	//   string - 任务句柄，由调用方负责写回笔记
	//   error - 日期时间解析失败时返回错误
	Schedule(note *database.Note) (string, error)

	// Cancel 取消尚未投递的任务
	// 目前没有调用方在删除笔记时使用它，与原始行为保持一致
	Cancel(taskID string) error

	// Pending 返回当前待投递的任务数
	Pending() int
}

// reminderTask 一个已入队、尚未投递的提醒任务
type reminderTask struct {
	id      string         // 任务句柄
	fireAt  time.Time      // 目标投递时刻
	payload notify.Payload // 投递载荷
}

// schedulerService 提醒调度服务实现
type schedulerService struct {
	cfg      config.SchedulerConfig
	notifier notify.NotifyService

	mu      sync.Mutex
	pending map[string]reminderTask
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewSchedulerService 创建提醒调度服务实例
func NewSchedulerService(cfg config.SchedulerConfig, notifier notify.NotifyService) SchedulerService {
	logger.Info("初始化提醒调度服务")
	return &schedulerService{
		cfg:      cfg,
		notifier: notifier,
		pending:  make(map[string]reminderTask),
	}
}

// Start 启动调度循环
func (s *schedulerService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return apperrors.NewByCode(apperrors.ErrReminderScheduleFailed).
			WithDetails("scheduler already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	s.wg.Add(1)
	go s.run(runCtx)

	logger.Infof("提醒调度循环已启动: tick=%dms language=%s",
		s.cfg.TickIntervalMillis, s.cfg.Language)
	return nil
}

// Stop 停止调度循环
func (s *schedulerService) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()

	logger.Info("提醒调度循环已停止")
	return nil
}

// run 调度循环，每个tick检查一次到期任务
func (s *schedulerService) run(ctx context.Context) {
	defer s.wg.Done()

	interval := time.Duration(s.cfg.TickIntervalMillis) * time.Millisecond
	if interval <= 0 {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.deliverDue(time.Now())
		}
	}
}

// deliverDue 投递所有到期任务
func (s *schedulerService) deliverDue(now time.Time) {
	s.mu.Lock()
	var due []reminderTask
	for id, task := range s.pending {
		if !task.fireAt.After(now) {
			due = append(due, task)
			delete(s.pending, id)
		}
	}
	s.mu.Unlock()

	// 投递放在锁外，避免通知回调阻塞调度
	for _, task := range due {
		logger.Debugf("提醒任务到期: task=%s note_id=%d", task.id, task.payload.NoteID)
		s.notifier.Deliver(task.payload)
	}
}

// Schedule 为笔记的提醒时刻入队一个一次性任务
func (s *schedulerService) Schedule(note *database.Note) (string, error) {
	target, err := s.parseTarget(note.Date, note.Time)
	if err != nil {
		logger.Errorf("解析提醒时间失败: date=%q time=%q err=%v", note.Date, note.Time, err)
		return "", apperrors.WrapByCode(apperrors.ErrReminderParseFailed, err)
	}

	task := reminderTask{
		id:     uuid.New().String(),
		fireAt: target,
		payload: notify.Payload{
			NoteTitle: note.Title,
			NoteBody:  note.Body,
			NoteID:    note.ID,
		},
	}

	s.mu.Lock()
	s.pending[task.id] = task
	s.mu.Unlock()

	// 延时不做校验，非正延时在下一个tick立即投递
	logger.Infof("提醒任务已入队: task=%s note_id=%d delay=%s",
		task.id, note.ID, time.Until(target).Round(time.Millisecond))
	return task.id, nil
}

// Cancel 取消尚未投递的任务
func (s *schedulerService) Cancel(taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[taskID]; !ok {
		return apperrors.NewByCode(apperrors.ErrReminderNotFound).
			WithDetails("task_id=" + taskID)
	}
	delete(s.pending, taskID)

	logger.Infof("提醒任务已取消: task=%s", taskID)
	return nil
}

// Pending 返回当前待投递的任务数
func (s *schedulerService) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// parseTarget 按配置语言的本地化短格式解析日期和时间并合并为本地时区时刻
func (s *schedulerService) parseTarget(dateStr, timeStr string) (time.Time, error) {
	layout := i18n.GetInstance().Layout(s.cfg.Language)

	d, err := time.ParseInLocation(layout.Date, dateStr, time.Local)
	if err != nil {
		return time.Time{}, err
	}

	t, err := time.ParseInLocation(layout.Time, timeStr, time.Local)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(
		d.Year(), d.Month(), d.Day(),
		t.Hour(), t.Minute(), 0, 0,
		time.Local,
	), nil
}
