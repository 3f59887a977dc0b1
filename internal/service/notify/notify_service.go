// Package notify 提供本地提醒通知的投递功能
// 提醒任务到期后由调度器调用本服务，在固定通知渠道上发出一条本地通知
package notify

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/snapnote/snapnote/internal/logger"
)

// 通知渠道定义，全系统只有这一个渠道
const (
	// ChannelID 通知渠道标识
	ChannelID = "SNAPNOTE_NOTIFICATION"
	// ChannelName 通知渠道名称
	ChannelName = "Snapnote notification"
	// ChannelDescription 通知渠道描述
	ChannelDescription = "Show notification when reminder is set and alarm"
)

// Payload 提醒投递载荷
// 调度入队时原样携带的三个字段，到期后不再回查笔记表
type Payload struct {
	// NoteTitle 笔记标题，原样作为通知标题
	NoteTitle string `json:"note_title"`
	// NoteBody 笔记正文，原样作为通知内容
	NoteBody string `json:"note_body"`
	// NoteID 笔记id，同时作为通知id，相同id的后续通知替换而非叠加
	NoteID uint `json:"note_id"`
}

// Notification 一条已投递的通知
type Notification struct {
	Title       string    // 通知标题
	Body        string    // 通知内容
	DeliveredAt time.Time // 投递时间
}

// NotifyService 通知投递服务接口
type NotifyService interface {
	// Deliver 在固定渠道上发出一条高优先级本地通知
	// 通知id等于笔记id：同一笔记的后续提醒替换已有通知
	// 投递是尽力而为的，没有失败重试
	Deliver(payload Payload)

	// Delivered 查询指定笔记id当前展示的通知
	Delivered(noteID uint) (Notification, bool)
}

// notifyService 通知投递服务实现
// 本地投递以结构化日志形式发出，并在内存中维护当前展示的通知集合
type notifyService struct {
	mu        sync.RWMutex
	delivered map[uint]Notification
}

// NewNotifyService 创建通知投递服务实例
func NewNotifyService() NotifyService {
	return &notifyService{
		delivered: make(map[uint]Notification),
	}
}

// Deliver 在固定渠道上发出一条本地通知
func (s *notifyService) Deliver(payload Payload) {
	n := Notification{
		Title:       payload.NoteTitle,
		Body:        payload.NoteBody,
		DeliveredAt: time.Now(),
	}

	s.mu.Lock()
	// 相同笔记id的通知替换而非叠加
	s.delivered[payload.NoteID] = n
	s.mu.Unlock()

	logger.WithFields(logrus.Fields{
		"channel":    ChannelID,
		"importance": "high",
		"note_id":    payload.NoteID,
		"title":      payload.NoteTitle,
		"body":       payload.NoteBody,
	}).Info("提醒通知已投递")
}

// Delivered 查询指定笔记id当前展示的通知
func (s *notifyService) Delivered(noteID uint) (Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.delivered[noteID]
	return n, ok
}
