package controller

import (
	"sync"

	"github.com/snapnote/snapnote/config"
	"github.com/snapnote/snapnote/internal/database"
	"github.com/snapnote/snapnote/internal/logger"
	"github.com/snapnote/snapnote/internal/repository"
)

// 提醒日期时间未选择时的占位值
const (
	// DatePlaceholder 日期占位值
	DatePlaceholder = "Date"
	// TimePlaceholder 时间占位值
	TimePlaceholder = "Time"
)

// CreateNoteUiState 创建/编辑屏幕的草稿状态
// 所有字段仅存在于内存中，直到一次显式保存才写入存储
type CreateNoteUiState struct {
	// CurrentFolderName 草稿所属文件夹名
	CurrentFolderName string `json:"current_folder_name"`
	// Title 草稿标题，更新时按配置上限截断
	Title string `json:"title"`
	// Body 草稿正文，更新时按配置上限截断
	Body string `json:"body"`
	// Date 已选提醒日期，未选择时为占位值
	Date string `json:"date"`
	// Time 已选提醒时间，未选择时为占位值
	Time string `json:"time"`
	// IsReminderSet 提醒开关
	IsReminderSet bool `json:"is_reminder_set"`
}

// CreateNoteController 创建/编辑屏幕视图状态控制器
// 持有一次提交前的全部草稿字段，init时异步加载已有文件夹名供选择器使用
type CreateNoteController struct {
	repo   repository.SnapnoteRepository
	limits config.NoteConfig

	mu       sync.RWMutex
	state    CreateNoteUiState
	folders  []string
	loadWG   sync.WaitGroup
	notifier stateNotifier
}

// NewCreateNoteController 创建控制器并异步加载文件夹建议
func NewCreateNoteController(repo repository.SnapnoteRepository, limits config.NoteConfig) *CreateNoteController {
	c := &CreateNoteController{
		repo:   repo,
		limits: limits,
		state: CreateNoteUiState{
			CurrentFolderName: database.DefaultFolderName,
			Date:              DatePlaceholder,
			Time:              TimePlaceholder,
		},
	}

	c.loadWG.Add(1)
	go c.loadFolders()
	return c
}

// loadFolders 加载并去重已有文件夹名
func (c *CreateNoteController) loadFolders() {
	defer c.loadWG.Done()

	names, err := c.repo.GetAllFolders()
	if err != nil {
		logger.Errorf("加载文件夹建议失败: %v", err)
		return
	}

	// 投影结果按行重复，这里去重并保持首次出现顺序
	seen := make(map[string]struct{}, len(names))
	var distinct []string
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		distinct = append(distinct, name)
	}

	c.mu.Lock()
	c.folders = distinct
	c.mu.Unlock()
	c.notifier.notify()
}

// UiState 返回当前草稿状态的快照
func (c *CreateNoteController) UiState() CreateNoteUiState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Folders 返回文件夹建议列表
// init触发的异步加载尚未完成时会先等待其结束
func (c *CreateNoteController) Folders() []string {
	c.loadWG.Wait()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.folders
}

// Subscribe 订阅草稿状态变更
func (c *CreateNoteController) Subscribe() (<-chan struct{}, func()) {
	return c.notifier.subscribe()
}

// UpdateTitle 更新草稿标题，超出上限的部分静默丢弃
func (c *CreateNoteController) UpdateTitle(newTitle string) {
	c.mu.Lock()
	c.state.Title = clampRunes(newTitle, c.limits.MaxTitleLength)
	c.mu.Unlock()
	c.notifier.notify()
}

// UpdateBody 更新草稿正文，超出上限的部分静默丢弃
func (c *CreateNoteController) UpdateBody(newBody string) {
	c.mu.Lock()
	c.state.Body = clampRunes(newBody, c.limits.MaxBodyLength)
	c.mu.Unlock()
	c.notifier.notify()
}

// UpdateFolderName 更新草稿文件夹名
func (c *CreateNoteController) UpdateFolderName(newFolderName string) {
	c.mu.Lock()
	c.state.CurrentFolderName = clampRunes(newFolderName, c.limits.MaxFolderNameLength)
	c.mu.Unlock()
	c.notifier.notify()
}

// PressOnSwitch 翻转提醒开关
// 关闭提醒时把日期时间重置回占位值，丢弃草稿中已选的时刻
func (c *CreateNoteController) PressOnSwitch() {
	c.mu.Lock()
	c.state.IsReminderSet = !c.state.IsReminderSet
	if !c.state.IsReminderSet {
		c.state.Date = DatePlaceholder
		c.state.Time = TimePlaceholder
	}
	c.mu.Unlock()
	c.notifier.notify()
}

// UpdateDate 更新已选提醒日期
func (c *CreateNoteController) UpdateDate(newDate string) {
	c.mu.Lock()
	c.state.Date = newDate
	c.mu.Unlock()
	c.notifier.notify()
}

// UpdateTime 更新已选提醒时间
func (c *CreateNoteController) UpdateTime(newTime string) {
	c.mu.Lock()
	c.state.Time = newTime
	c.mu.Unlock()
	c.notifier.notify()
}

// SaveNote 一次性提交草稿
// 提醒开启且日期时间均已选择时，先入队调度任务并把返回的
// 任务句柄附到笔记上，再执行单次插入；否则以空日期时间、
// 无任务句柄保存
func (c *CreateNoteController) SaveNote() (*database.Note, error) {
	c.mu.RLock()
	state := c.state
	c.mu.RUnlock()

	note := &database.Note{
		FolderName: state.CurrentFolderName,
		Title:      state.Title,
		Body:       state.Body,
	}
	if state.IsReminderSet && state.Date != DatePlaceholder {
		note.Date = state.Date
	}
	if state.IsReminderSet && state.Time != TimePlaceholder {
		note.Time = state.Time
	}

	if state.IsReminderSet && note.Date != "" && note.Time != "" {
		taskID, err := c.repo.MakeNotification(note)
		if err != nil {
			return nil, err
		}
		note.ReminderTaskID = &taskID
	}

	if err := c.repo.AddNote(note); err != nil {
		return nil, err
	}

	logger.Infof("笔记已提交: id=%d reminder=%v", note.ID, note.ReminderTaskID != nil)
	return note, nil
}

// clampRunes 按字符数截断字符串，已在上限内时原样返回
func clampRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
