// Package controller 提供各屏幕的视图状态控制器
// 每个控制器持有自己屏幕的派生状态，把用户意图翻译成仓库操作，
// 操作完成后整体重取数据（以重算换正确性，不做增量修补）
package controller

import (
	"sync"

	"github.com/snapnote/snapnote/internal/database"
)

// NoteUiModel 笔记的视图模型
// 控制器对外暴露的只读快照，不回写存储
type NoteUiModel struct {
	OriginalIndex uint   `json:"original_index"` // 对应笔记的存储id
	FolderName    string `json:"folder_name"`    // 所属文件夹名
	Title         string `json:"title"`          // 标题
	Body          string `json:"body"`           // 正文
	Date          string `json:"date"`           // 提醒日期，空串表示无提醒
	Time          string `json:"time"`           // 提醒时间，空串表示无提醒
	IsPinned      bool   `json:"is_pinned"`      // 是否置顶
	IsDone        bool   `json:"is_done"`        // 是否已完成
}

// noteToUiModel 将存储实体转换为视图模型
func noteToUiModel(n database.Note) NoteUiModel {
	return NoteUiModel{
		OriginalIndex: n.ID,
		FolderName:    n.FolderName,
		Title:         n.Title,
		Body:          n.Body,
		Date:          n.Date,
		Time:          n.Time,
		IsPinned:      n.IsPinned,
		IsDone:        n.IsDone,
	}
}

// notesToUiModels 批量转换
func notesToUiModels(notes []database.Note) []NoteUiModel {
	models := make([]NoteUiModel, 0, len(notes))
	for _, n := range notes {
		models = append(models, noteToUiModel(n))
	}
	return models
}

// stateNotifier 控制器状态变更的订阅分发器
// 每次状态更新向所有订阅者发送一次通知，未消费的通知合并
type stateNotifier struct {
	mu        sync.Mutex
	listeners map[int]chan struct{}
	nextID    int
}

// subscribe 注册一个状态变更订阅
func (n *stateNotifier) subscribe() (<-chan struct{}, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.listeners == nil {
		n.listeners = make(map[int]chan struct{})
	}
	id := n.nextID
	n.nextID++

	ch := make(chan struct{}, 1)
	n.listeners[id] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners, id)
	}
	return ch, cancel
}

// notify 广播一次状态变更
func (n *stateNotifier) notify() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
