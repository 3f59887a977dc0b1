package database

import (
	"time"
)

// DefaultFolderName 未分类笔记所属的默认文件夹名
const DefaultFolderName = "Uncategorized"

// Note 笔记模型
// 系统中唯一持久化的实体，一行对应一条用户笔记
// 文件夹不是独立实体，文件夹列表由folder_name列投影得到
type Note struct {
	ID         uint   `gorm:"primarykey" json:"id"`                                    // 主键ID，自增，插入时由数据库分配
	FolderName string `gorm:"size:50;default:'Uncategorized'" json:"folder_name"`      // 所属文件夹名，自由文本，无外键约束
	Title      string `gorm:"size:100" json:"title"`                                   // 笔记标题，最大100字符
	Body       string `gorm:"size:1000" json:"body"`                                   // 笔记正文，最大1000字符
	Date       string `gorm:"size:50" json:"date"`                                     // 提醒日期，本地化短格式字符串，空串表示无提醒
	Time       string `gorm:"size:50" json:"time"`                                     // 提醒时间，本地化短格式字符串，空串表示无提醒
	IsPinned   bool   `gorm:"default:false" json:"is_pinned"`                          // 是否置顶，全表至多一条为true
	IsDone     bool   `gorm:"default:false" json:"is_done"`                            // 是否已完成
	// ReminderTaskID 调度器返回的提醒任务句柄，未设置提醒时为NULL
	ReminderTaskID *string   `gorm:"size:36" json:"reminder_task_id"`
	CreatedAt      time.Time `json:"created_at"` // 创建时间
	UpdatedAt      time.Time `json:"updated_at"` // 最后修改时间
}

// TableName 指定Note模型对应的数据库表名
func (Note) TableName() string {
	return "notes"
}
