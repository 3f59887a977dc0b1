// Package note 提供笔记存储的核心业务逻辑
// 包含笔记的增删改查、三种固定排序、子串搜索、置顶与完成状态维护，
// 以及"任意写入触发所有活动查询重算"的实时查询订阅机制
package note

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/snapnote/snapnote/internal/database"
	apperrors "github.com/snapnote/snapnote/internal/errors"
	"github.com/snapnote/snapnote/internal/logger"
)

// SortOrder 笔记列表的固定排序方式
type SortOrder string

const (
	// OrderByInsertion 置顶优先，按插入顺序
	OrderByInsertion SortOrder = "insertion"
	// OrderByTitle 置顶优先，标题大小写不敏感升序
	OrderByTitle SortOrder = "title"
	// OrderByCompletion 置顶优先，未完成在前
	OrderByCompletion SortOrder = "completion"
)

// orderClauses 排序方式到SQL ORDER BY子句的映射
// 每种排序均以id ASC收尾，保证重复查询结果稳定
var orderClauses = map[SortOrder]string{
	OrderByInsertion:  "is_pinned DESC, id ASC",
	OrderByTitle:      "is_pinned DESC, LOWER(title) ASC, id ASC",
	OrderByCompletion: "is_pinned DESC, is_done ASC, id ASC",
}

// NoteService 笔记存储服务接口
// 所有查询方法均有对应的Watch变体：返回的通道在每次表写入后重新
// 执行查询并推送最新结果，直到上下文取消
type NoteService interface {
	// SaveNote 插入或整行替换一条笔记
	// id为0时由数据库分配自增id并回填到note上
	SaveNote(note *database.Note) error

	// DeleteNote 删除指定id的笔记，目标不存在时为幂等空操作
	DeleteNote(id uint) error

	// GetNoteByID 根据id获取单条笔记，不存在时返回ErrNoteNotFound
	GetNoteByID(id uint) (*database.Note, error)

	// ListNotes 按指定排序返回全部笔记
	ListNotes(order SortOrder) ([]database.Note, error)

	// SearchNotes 标题或正文的大小写不敏感子串匹配，置顶优先
	// 空关键词的语义由调用方决定，存储层按匹配全部处理
	SearchNotes(keyword string) ([]database.Note, error)

	// FolderNames 投影全部笔记的文件夹名列，不去重（去重是调用方职责）
	FolderNames() ([]string, error)

	// ToggleCompletion 原子翻转指定笔记的完成标记
	ToggleCompletion(id uint) error

	// PinNote 置顶指定笔记并在同一条语句内清除其他置顶，
	// 维持"至多一条置顶"不变量
	PinNote(id uint) error

	// UnpinAll 清除所有置顶标记
	UnpinAll() error

	// ReminderTaskID 获取指定笔记存储的提醒任务句柄，无提醒时为nil
	ReminderTaskID(id uint) (*string, error)

	// Subscribe 订阅表变更事件
	// 返回:
	//   <-chan struct{} - 每次写入后收到一次通知（可能合并）
	//   func() - 取消订阅
	Subscribe() (<-chan struct{}, func())

	// WatchNotes ListNotes的实时查询变体
	WatchNotes(ctx context.Context, order SortOrder) <-chan []database.Note

	// WatchNoteByID GetNoteByID的实时查询变体，行不存在时不推送
	WatchNoteByID(ctx context.Context, id uint) <-chan database.Note

	// WatchSearch SearchNotes的实时查询变体
	WatchSearch(ctx context.Context, keyword string) <-chan []database.Note
}

// noteService 笔记存储服务实现
type noteService struct {
	db *gorm.DB

	mu          sync.Mutex
	subscribers map[int]chan struct{}
	nextSubID   int
}

// NewNoteService 创建笔记存储服务实例
func NewNoteService(db *gorm.DB) NoteService {
	logger.Info("初始化笔记存储服务")
	return &noteService{
		db:          db,
		subscribers: make(map[int]chan struct{}),
	}
}

// SaveNote 插入或整行替换一条笔记
func (s *noteService) SaveNote(note *database.Note) error {
	if note.FolderName == "" {
		note.FolderName = database.DefaultFolderName
	}

	// id冲突时整行替换，与"插入或替换"语义一致
	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(note).Error; err != nil {
		logger.Errorf("保存笔记失败: %v", err)
		return apperrors.WrapByCode(apperrors.ErrNoteSaveFailed, err)
	}

	logger.Debugf("笔记已保存: id=%d title=%q", note.ID, note.Title)
	s.notifyChanged()
	return nil
}

// DeleteNote 删除指定id的笔记
func (s *noteService) DeleteNote(id uint) error {
	if err := s.db.Delete(&database.Note{}, id).Error; err != nil {
		logger.Errorf("删除笔记失败: id=%d err=%v", id, err)
		return apperrors.WrapByCode(apperrors.ErrNoteDeleteFailed, err)
	}

	// 行不存在同样视为成功，保证幂等
	s.notifyChanged()
	return nil
}

// GetNoteByID 根据id获取单条笔记
func (s *noteService) GetNoteByID(id uint) (*database.Note, error) {
	var n database.Note
	if err := s.db.First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewByCode(apperrors.ErrNoteNotFound).
				WithDetails(fmt.Sprintf("id=%d", id))
		}
		return nil, apperrors.WrapByCode(apperrors.ErrNoteQueryFailed, err)
	}
	return &n, nil
}

// ListNotes 按指定排序返回全部笔记
func (s *noteService) ListNotes(order SortOrder) ([]database.Note, error) {
	orderClause, ok := orderClauses[order]
	if !ok {
		return nil, apperrors.NewByCode(apperrors.ErrInvalidParams).
			WithDetails(fmt.Sprintf("unknown sort order: %s", order))
	}

	var notes []database.Note
	if err := s.db.Order(orderClause).Find(&notes).Error; err != nil {
		logger.Errorf("查询笔记列表失败: order=%s err=%v", order, err)
		return nil, apperrors.WrapByCode(apperrors.ErrNoteQueryFailed, err)
	}
	return notes, nil
}

// SearchNotes 标题或正文的大小写不敏感子串匹配
func (s *noteService) SearchNotes(keyword string) ([]database.Note, error) {
	pattern := "%" + strings.ToLower(keyword) + "%"

	var notes []database.Note
	err := s.db.
		Where("LOWER(title) LIKE ? OR LOWER(body) LIKE ?", pattern, pattern).
		Order("is_pinned DESC, id ASC").
		Find(&notes).Error
	if err != nil {
		logger.Errorf("搜索笔记失败: keyword=%q err=%v", keyword, err)
		return nil, apperrors.WrapByCode(apperrors.ErrNoteQueryFailed, err)
	}
	return notes, nil
}

// FolderNames 投影全部笔记的文件夹名列
func (s *noteService) FolderNames() ([]string, error) {
	var names []string
	if err := s.db.Model(&database.Note{}).Pluck("folder_name", &names).Error; err != nil {
		logger.Errorf("查询文件夹列表失败: %v", err)
		return nil, apperrors.WrapByCode(apperrors.ErrFolderQueryFailed, err)
	}
	return names, nil
}

// ToggleCompletion 原子翻转指定笔记的完成标记
func (s *noteService) ToggleCompletion(id uint) error {
	err := s.db.Exec(
		"UPDATE notes SET is_done = CASE WHEN is_done = 1 THEN 0 ELSE 1 END WHERE id = ?", id,
	).Error
	if err != nil {
		logger.Errorf("切换完成状态失败: id=%d err=%v", id, err)
		return apperrors.WrapByCode(apperrors.ErrDatabaseUpdate, err)
	}

	s.notifyChanged()
	return nil
}

// PinNote 置顶指定笔记并清除其他置顶
func (s *noteService) PinNote(id uint) error {
	// 单条语句完成"置顶此条、清除其余"，避免读改写竞态
	if err := s.db.Exec("UPDATE notes SET is_pinned = (id = ?)", id).Error; err != nil {
		logger.Errorf("置顶笔记失败: id=%d err=%v", id, err)
		return apperrors.WrapByCode(apperrors.ErrDatabaseUpdate, err)
	}

	s.notifyChanged()
	return nil
}

// UnpinAll 清除所有置顶标记
func (s *noteService) UnpinAll() error {
	if err := s.db.Exec("UPDATE notes SET is_pinned = 0").Error; err != nil {
		logger.Errorf("取消置顶失败: %v", err)
		return apperrors.WrapByCode(apperrors.ErrDatabaseUpdate, err)
	}

	s.notifyChanged()
	return nil
}

// ReminderTaskID 获取指定笔记存储的提醒任务句柄
func (s *noteService) ReminderTaskID(id uint) (*string, error) {
	n, err := s.GetNoteByID(id)
	if err != nil {
		return nil, err
	}
	return n.ReminderTaskID, nil
}

// Subscribe 订阅表变更事件
func (s *noteService) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++

	// 缓冲为1：通知只表示"有变更"，密集写入允许合并
	ch := make(chan struct{}, 1)
	s.subscribers[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
	return ch, cancel
}

// notifyChanged 向所有订阅者广播一次表变更事件
func (s *noteService) notifyChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subscribers {
		select {
		case ch <- struct{}{}:
		default:
			// 该订阅者已有未消费的通知，合并
		}
	}
}

// WatchNotes ListNotes的实时查询变体
func (s *noteService) WatchNotes(ctx context.Context, order SortOrder) <-chan []database.Note {
	return watch(ctx, s, func() ([]database.Note, error) {
		return s.ListNotes(order)
	})
}

// WatchSearch SearchNotes的实时查询变体
func (s *noteService) WatchSearch(ctx context.Context, keyword string) <-chan []database.Note {
	return watch(ctx, s, func() ([]database.Note, error) {
		return s.SearchNotes(keyword)
	})
}

// WatchNoteByID GetNoteByID的实时查询变体
func (s *noteService) WatchNoteByID(ctx context.Context, id uint) <-chan database.Note {
	return watch(ctx, s, func() (database.Note, error) {
		n, err := s.GetNoteByID(id)
		if err != nil {
			return database.Note{}, err
		}
		return *n, nil
	})
}

// watch 实时查询的通用实现
// 先推送一次当前结果，之后每收到表变更事件就重算并推送，
// 查询失败（如行已删除）时跳过本次推送
func watch[T any](ctx context.Context, s *noteService, query func() (T, error)) <-chan T {
	out := make(chan T, 1)
	events, cancel := s.Subscribe()

	go func() {
		defer close(out)
		defer cancel()

		emit := func() {
			result, err := query()
			if err != nil {
				return
			}
			select {
			case out <- result:
			case <-ctx.Done():
			}
		}

		emit()
		for {
			select {
			case <-ctx.Done():
				return
			case <-events:
				emit()
			}
		}
	}()

	return out
}
