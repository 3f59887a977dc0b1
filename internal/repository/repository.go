// Package repository 提供统一的数据访问门面
// 将笔记存储和提醒调度合并为一个接口，供各视图状态控制器消费
package repository

import (
	"context"

	"github.com/snapnote/snapnote/internal/database"
	"github.com/snapnote/snapnote/internal/logger"
	noteservice "github.com/snapnote/snapnote/internal/service/note"
	schedulerservice "github.com/snapnote/snapnote/internal/service/scheduler"
)

// SnapnoteRepository 数据访问门面接口
// 纯委托层：不添加任何业务规则，只是把存储和调度拼到一起
type SnapnoteRepository interface {
	// AddNote 插入或整行替换一条笔记
	AddNote(note *database.Note) error

	// DeleteNote 删除指定id的笔记，幂等
	DeleteNote(id uint) error

	// GetNoteByID 根据id获取单条笔记
	GetNoteByID(id uint) (*database.Note, error)

	// GetAllNotes 置顶优先，按插入顺序返回全部笔记
	GetAllNotes() ([]database.Note, error)

	// GetAllNotesSortedByTitle 置顶优先，标题大小写不敏感升序
	GetAllNotesSortedByTitle() ([]database.Note, error)

	// GetAllNotesSortedByCompletion 置顶优先，未完成在前
	GetAllNotesSortedByCompletion() ([]database.Note, error)

	// SearchNotes 标题或正文的大小写不敏感子串匹配
	SearchNotes(keyword string) ([]database.Note, error)

	// UpdateCompletion 翻转指定笔记的完成标记
	UpdateCompletion(id uint) error

	// PinNote 置顶指定笔记，同时清除其他置顶
	PinNote(id uint) error

	// UnpinNotes 清除所有置顶
	UnpinNotes() error

	// GetAllFolders 投影全部笔记的文件夹名，不去重
	GetAllFolders() ([]string, error)

	// MakeNotification 为笔记的提醒时刻入队调度任务
	// 返回任务句柄，由调用方写回笔记后保存
	MakeNotification(note *database.Note) (string, error)

	// GetReminderTaskID 获取笔记存储的提醒任务句柄
	GetReminderTaskID(id uint) (*string, error)

	// Subscribe 订阅笔记表变更事件
	Subscribe() (<-chan struct{}, func())

	// WatchAllNotes 实时查询：置顶优先插入序的全部笔记
	WatchAllNotes(ctx context.Context) <-chan []database.Note

	// WatchSearch 实时查询：关键词搜索结果
	WatchSearch(ctx context.Context, keyword string) <-chan []database.Note

	// WatchNoteByID 实时查询：单条笔记
	WatchNoteByID(ctx context.Context, id uint) <-chan database.Note
}

// localSnapnoteRepository 本地实现，组合笔记存储与提醒调度
type localSnapnoteRepository struct {
	notes     noteservice.NoteService
	scheduler schedulerservice.SchedulerService
}

// NewSnapnoteRepository 创建数据访问门面实例
func NewSnapnoteRepository(
	notes noteservice.NoteService,
	scheduler schedulerservice.SchedulerService,
) SnapnoteRepository {
	logger.Info("初始化数据访问门面")
	return &localSnapnoteRepository{
		notes:     notes,
		scheduler: scheduler,
	}
}

func (r *localSnapnoteRepository) AddNote(note *database.Note) error {
	return r.notes.SaveNote(note)
}

func (r *localSnapnoteRepository) DeleteNote(id uint) error {
	return r.notes.DeleteNote(id)
}

func (r *localSnapnoteRepository) GetNoteByID(id uint) (*database.Note, error) {
	return r.notes.GetNoteByID(id)
}

func (r *localSnapnoteRepository) GetAllNotes() ([]database.Note, error) {
	return r.notes.ListNotes(noteservice.OrderByInsertion)
}

func (r *localSnapnoteRepository) GetAllNotesSortedByTitle() ([]database.Note, error) {
	return r.notes.ListNotes(noteservice.OrderByTitle)
}

func (r *localSnapnoteRepository) GetAllNotesSortedByCompletion() ([]database.Note, error) {
	return r.notes.ListNotes(noteservice.OrderByCompletion)
}

func (r *localSnapnoteRepository) SearchNotes(keyword string) ([]database.Note, error) {
	return r.notes.SearchNotes(keyword)
}

func (r *localSnapnoteRepository) UpdateCompletion(id uint) error {
	return r.notes.ToggleCompletion(id)
}

func (r *localSnapnoteRepository) PinNote(id uint) error {
	return r.notes.PinNote(id)
}

func (r *localSnapnoteRepository) UnpinNotes() error {
	return r.notes.UnpinAll()
}

func (r *localSnapnoteRepository) GetAllFolders() ([]string, error) {
	return r.notes.FolderNames()
}

func (r *localSnapnoteRepository) MakeNotification(note *database.Note) (string, error) {
	return r.scheduler.Schedule(note)
}

func (r *localSnapnoteRepository) GetReminderTaskID(id uint) (*string, error) {
	return r.notes.ReminderTaskID(id)
}

func (r *localSnapnoteRepository) Subscribe() (<-chan struct{}, func()) {
	return r.notes.Subscribe()
}

func (r *localSnapnoteRepository) WatchAllNotes(ctx context.Context) <-chan []database.Note {
	return r.notes.WatchNotes(ctx, noteservice.OrderByInsertion)
}

func (r *localSnapnoteRepository) WatchSearch(ctx context.Context, keyword string) <-chan []database.Note {
	return r.notes.WatchSearch(ctx, keyword)
}

func (r *localSnapnoteRepository) WatchNoteByID(ctx context.Context, id uint) <-chan database.Note {
	return r.notes.WatchNoteByID(ctx, id)
}
